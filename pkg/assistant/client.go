package assistant

import "context"

// RunStatus mirrors the closed set of run states reported by the Assistants API.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusIncomplete     RunStatus = "incomplete"
	RunStatusExpired        RunStatus = "expired"
)

// Pending reports whether the run may still make progress on its own.
func (s RunStatus) Pending() bool {
	switch s {
	case RunStatusQueued, RunStatusInProgress, RunStatusCancelling:
		return true
	}
	return false
}

const RoleAssistant = "assistant"

type Run struct {
	ID               string
	ThreadID         string
	Status           RunStatus
	LastErrorCode    string
	LastErrorMessage string
	IncompleteReason string
}

type Message struct {
	ID   string
	Role string
	Text string
}

// MessageInput is a single user message made of text followed by image URLs in order.
type MessageInput struct {
	Text      string
	ImageURLs []string
}

// Client is the subset of the Assistants API the orchestrator drives.
type Client interface {
	CreateThread(ctx context.Context, metadata map[string]string) (string, error)
	AddMessage(ctx context.Context, threadID string, input MessageInput) error
	CreateRun(ctx context.Context, threadID, assistantID string) (*Run, error)
	GetRun(ctx context.Context, threadID, runID string) (*Run, error)
	// ListMessages returns the thread's messages newest first.
	ListMessages(ctx context.Context, threadID string) ([]Message, error)
}

type AssistantInfo struct {
	ID    string
	Name  string
	Model string
}

// Diagnostics covers the connectivity probes used by the diagnose command.
type Diagnostics interface {
	ListModels(ctx context.Context) ([]string, error)
	GetAssistant(ctx context.Context, assistantID string) (*AssistantInfo, error)
}
