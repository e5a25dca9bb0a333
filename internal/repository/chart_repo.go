package repository

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/pkg/httpclient"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ChartIssue describes a chart that could not be confirmed reachable.
type ChartIssue struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ChartRepository interface {
	// CheckDomainCharts probes every chart of a domain. It only reports; it never blocks an analysis.
	CheckDomainCharts(ctx context.Context, domain catalog.Domain) []ChartIssue
}

type chartRepository struct {
	cfg    config.ChartCheck
	log    *logger.Logger
	client httpclient.HTTPClient
}

func NewChartRepository(cfg *config.Config, log *logger.Logger, client httpclient.HTTPClient) ChartRepository {
	if client == nil {
		client = httpclient.New("", cfg.ChartCheck.Timeout, "")
	}
	return &chartRepository{
		cfg:    cfg.ChartCheck,
		log:    log,
		client: client,
	}
}

func (r *chartRepository) CheckDomainCharts(ctx context.Context, domain catalog.Domain) []ChartIssue {
	if !r.cfg.Enabled {
		return nil
	}

	urls := domain.ChartURLs()
	limit := r.cfg.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}

	var (
		mu     sync.Mutex
		issues []ChartIssue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, u := range urls {
		u := u
		g.Go(func() error {
			issue, ok := r.check(gctx, u)
			if !ok {
				mu.Lock()
				issues = append(issues, issue)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, issue := range issues {
		r.log.WarnContext(ctx, "Chart not reachable",
			logger.StringField("domain", domain.Code),
			logger.StringField("url", issue.URL),
			logger.IntField("status_code", issue.StatusCode),
			logger.StringField("error", issue.Error),
		)
	}
	return issues
}

func (r *chartRepository) check(ctx context.Context, url string) (ChartIssue, bool) {
	timeout := r.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := r.client.Head(ctx, url, nil)
	if err != nil {
		return ChartIssue{URL: url, Error: err.Error()}, false
	}
	if resp.StatusCode != http.StatusOK {
		return ChartIssue{URL: url, StatusCode: resp.StatusCode}, false
	}
	return ChartIssue{}, true
}
