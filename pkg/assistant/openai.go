package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/schiang418/cyclescope-domain-api/config"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const listMessagesLimit = 20

// OpenAIClient implements Client and Diagnostics on top of openai-go.
type OpenAIClient struct {
	client openai.Client
}

func NewOpenAIClient(cfg config.OpenAI, opts ...option.RequestOption) *OpenAIClient {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAIClient{client: openai.NewClient(reqOpts...)}
}

func (c *OpenAIClient) CreateThread(ctx context.Context, metadata map[string]string) (string, error) {
	params := openai.BetaThreadNewParams{}
	if len(metadata) > 0 {
		params.Metadata = shared.Metadata(metadata)
	}
	thread, err := c.client.Beta.Threads.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

func (c *OpenAIClient) AddMessage(ctx context.Context, threadID string, input MessageInput) error {
	parts := make([]openai.MessageContentPartParamUnion, 0, len(input.ImageURLs)+1)
	parts = append(parts, openai.MessageContentPartParamUnion{
		OfText: &openai.TextContentBlockParam{Text: input.Text},
	})
	for _, u := range input.ImageURLs {
		parts = append(parts, openai.MessageContentPartParamUnion{
			OfImageURL: &openai.ImageURLContentBlockParam{
				ImageURL: openai.ImageURLParam{URL: u, Detail: openai.ImageURLDetailHigh},
			},
		})
	}

	_, err := c.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfArrayOfContentParts: parts,
		},
	})
	if err != nil {
		return fmt.Errorf("add message: %w", err)
	}
	return nil
}

func (c *OpenAIClient) CreateRun(ctx context.Context, threadID, assistantID string) (*Run, error) {
	run, err := c.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: assistantID,
	})
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return toRun(run), nil
}

func (c *OpenAIClient) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	run, err := c.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return nil, fmt.Errorf("retrieve run: %w", err)
	}
	return toRun(run), nil
}

func (c *OpenAIClient) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	page, err := c.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
		Limit: openai.Int(listMessagesLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]Message, 0, len(page.Data))
	for _, m := range page.Data {
		var sb strings.Builder
		for _, part := range m.Content {
			if part.Type != "text" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(part.Text.Value)
		}
		messages = append(messages, Message{
			ID:   m.ID,
			Role: string(m.Role),
			Text: sb.String(),
		})
	}
	return messages, nil
}

func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (c *OpenAIClient) GetAssistant(ctx context.Context, assistantID string) (*AssistantInfo, error) {
	a, err := c.client.Beta.Assistants.Get(ctx, assistantID)
	if err != nil {
		return nil, fmt.Errorf("retrieve assistant: %w", err)
	}
	return &AssistantInfo{ID: a.ID, Name: a.Name, Model: a.Model}, nil
}

func toRun(run *openai.Run) *Run {
	return &Run{
		ID:               run.ID,
		ThreadID:         run.ThreadID,
		Status:           RunStatus(run.Status),
		LastErrorCode:    string(run.LastError.Code),
		LastErrorMessage: run.LastError.Message,
		IncompleteReason: string(run.IncompleteDetails.Reason),
	}
}
