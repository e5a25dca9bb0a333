package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/assistant"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
	"github.com/schiang418/cyclescope-domain-api/pkg/metrics"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"

	"golang.org/x/time/rate"
)

type AssistantRepository interface {
	// RequestAnalysis drives one assistant run for a domain and returns the recovered analysis.
	RequestAnalysis(ctx context.Context, domainCode string, asOfDate time.Time) (*dto.DomainAnalysisResult, error)
}

type AssistantOption func(*assistantRepository)

// WithPoller replaces the run poller, e.g. to inject a fake sleep in tests.
func WithPoller(p *assistant.Poller) AssistantOption {
	return func(r *assistantRepository) {
		r.poller = p
	}
}

// WithRequestLimiter replaces the limiter applied to every outbound call.
func WithRequestLimiter(l *rate.Limiter) AssistantOption {
	return func(r *assistantRepository) {
		r.requestLimiter = l
	}
}

type assistantRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	catalog        *catalog.Catalog
	client         assistant.Client
	poller         *assistant.Poller
	requestLimiter *rate.Limiter
}

func NewAssistantRepository(
	cfg *config.Config,
	log *logger.Logger,
	cat *catalog.Catalog,
	client assistant.Client,
	opts ...AssistantOption,
) AssistantRepository {
	limit := rate.Inf
	if cfg.OpenAI.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute))
	}

	r := &assistantRepository{
		cfg:            cfg,
		log:            log,
		catalog:        cat,
		client:         client,
		poller:         assistant.NewPoller(cfg.OpenAI.PollInterval, cfg.OpenAI.MaxPollAttempts),
		requestLimiter: rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *assistantRepository) RequestAnalysis(ctx context.Context, domainCode string, asOfDate time.Time) (*dto.DomainAnalysisResult, error) {
	domain, ok := r.catalog.Get(domainCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", dto.ErrInvalidDomain, domainCode)
	}
	if r.client == nil || r.cfg.OpenAI.AssistantID == "" {
		return nil, fmt.Errorf("%w: assistant is not configured", dto.ErrUpstreamFailure)
	}

	start := time.Now()
	result, err := r.requestAnalysis(ctx, domain, asOfDate)
	metrics.AssistantRuns.WithLabelValues(domain.Code, outcomeLabel(err)).Inc()
	metrics.ObserveSince(metrics.AssistantRunDuration.WithLabelValues(domain.Code), start)
	return result, err
}

func (r *assistantRepository) requestAnalysis(ctx context.Context, domain catalog.Domain, asOfDate time.Time) (*dto.DomainAnalysisResult, error) {
	log := r.log.With(logger.StringField("domain", domain.Code), logger.StringField("as_of_date", utils.FormatDate(asOfDate)))
	ctx = logger.NewContext(ctx, log)

	input := assistant.MessageInput{
		Text:      promptDomainAnalysis(domain, asOfDate),
		ImageURLs: domain.ChartURLs(),
	}

	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	threadID, err := r.client.CreateThread(ctx, map[string]string{
		"domain":     domain.Code,
		"as_of_date": utils.FormatDate(asOfDate),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to create assistant thread", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %w", dto.ErrUpstreamFailure, err)
	}
	log = log.With(logger.StringField("thread_id", threadID))
	ctx = logger.NewContext(ctx, log)

	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	if err := r.client.AddMessage(ctx, threadID, input); err != nil {
		log.ErrorContext(ctx, "Failed to add assistant message", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %w", dto.ErrUpstreamFailure, err)
	}

	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	run, err := r.client.CreateRun(ctx, threadID, r.cfg.OpenAI.AssistantID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create assistant run", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %w", dto.ErrUpstreamFailure, err)
	}
	log = log.With(logger.StringField("run_id", run.ID))
	ctx = logger.NewContext(ctx, log)
	log.InfoContext(ctx, "Assistant run started", logger.IntField("images", len(input.ImageURLs)))

	poller := *r.poller
	poller.OnAttempt = func(attempt int, run *assistant.Run) {
		log.DebugContext(ctx, "Assistant run status",
			logger.IntField("attempt", attempt),
			logger.StringField("status", string(run.Status)),
		)
	}
	_, attempts, err := poller.Wait(ctx, func(ctx context.Context) (*assistant.Run, error) {
		if err := r.wait(ctx); err != nil {
			return nil, err
		}
		return r.client.GetRun(ctx, threadID, run.ID)
	})
	metrics.AssistantPollAttempts.WithLabelValues(domain.Code).Observe(float64(attempts))
	if err != nil {
		log.ErrorContext(ctx, "Assistant run did not complete", logger.ErrorField(err), logger.IntField("attempts", attempts))
		return nil, mapPollError(err)
	}

	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	messages, err := r.client.ListMessages(ctx, threadID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list assistant messages", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %w", dto.ErrUpstreamFailure, err)
	}

	text, ok := firstAssistantText(messages)
	if !ok {
		log.ErrorContext(ctx, "No assistant message in thread", logger.IntField("messages", len(messages)))
		return nil, fmt.Errorf("%w: no assistant message in thread %s", dto.ErrUpstreamFailure, threadID)
	}

	result, err := parseAnalysisResponse(utils.CleanToValidUTF8(text))
	if err != nil {
		log.ErrorContext(ctx, "Failed to parse assistant response",
			logger.ErrorField(err),
			logger.StringField("response", utils.Truncate(text, 500)),
		)
		return nil, err
	}
	if !strings.EqualFold(result.DimensionCode, domain.Code) {
		log.WarnContext(ctx, "Assistant returned a different dimension code", logger.StringField("dimension_code", result.DimensionCode))
	}

	log.InfoContext(ctx, "Assistant analysis completed",
		logger.IntField("attempts", attempts),
		logger.IntField("indicators", len(result.Indicators)),
	)
	return result, nil
}

func (r *assistantRepository) wait(ctx context.Context) error {
	if r.requestLimiter == nil {
		return nil
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", dto.ErrUpstreamFailure, err)
	}
	return nil
}

// firstAssistantText returns the text of the first assistant-authored message, even when blank.
func firstAssistantText(messages []assistant.Message) (string, bool) {
	for _, m := range messages {
		if m.Role == assistant.RoleAssistant {
			return m.Text, true
		}
	}
	return "", false
}

func mapPollError(err error) error {
	if errors.Is(err, assistant.ErrPollTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", dto.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %w", dto.ErrUpstreamFailure, err)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, dto.ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, dto.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, dto.ErrUpstreamFailure):
		return "failed"
	}
	return "error"
}
