package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPollTimeout is returned when a run is still pending after the last allowed attempt.
var ErrPollTimeout = errors.New("run did not reach a terminal state")

// RunFailedError describes a run that ended in a non-success terminal state.
type RunFailedError struct {
	RunID   string
	Status  RunStatus
	Code    string
	Message string
}

func (e *RunFailedError) Error() string {
	msg := fmt.Sprintf("run %s ended with status %s", e.RunID, e.Status)
	if e.Code != "" {
		msg += fmt.Sprintf(" (%s)", e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep is the production SleepFunc.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FetchFunc returns the current state of the run being waited on.
type FetchFunc func(ctx context.Context) (*Run, error)

// Poller waits for a run to finish by sleeping Interval before each of at most MaxAttempts fetches.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       SleepFunc
	// OnAttempt, if set, observes every fetched state.
	OnAttempt func(attempt int, run *Run)
}

func NewPoller(interval time.Duration, maxAttempts int) *Poller {
	return &Poller{
		Interval:    interval,
		MaxAttempts: maxAttempts,
		Sleep:       ContextSleep,
	}
}

// Wait polls until the run completes. It returns the completed run and the number of fetches made.
// A failed, cancelled, expired, incomplete or requires_action run yields *RunFailedError;
// exhausting MaxAttempts yields ErrPollTimeout.
func (p *Poller) Wait(ctx context.Context, fetch FetchFunc) (*Run, int, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := sleep(ctx, p.Interval); err != nil {
			return nil, attempt - 1, err
		}

		run, err := fetch(ctx)
		if err != nil {
			return nil, attempt, err
		}
		if p.OnAttempt != nil {
			p.OnAttempt(attempt, run)
		}

		switch {
		case run.Status == RunStatusCompleted:
			return run, attempt, nil
		case run.Status.Pending():
			continue
		default:
			return run, attempt, &RunFailedError{
				RunID:   run.ID,
				Status:  run.Status,
				Code:    run.LastErrorCode,
				Message: failureMessage(run),
			}
		}
	}

	return nil, p.MaxAttempts, fmt.Errorf("%w after %d attempts", ErrPollTimeout, p.MaxAttempts)
}

func failureMessage(run *Run) string {
	switch {
	case run.LastErrorMessage != "":
		return run.LastErrorMessage
	case run.Status == RunStatusIncomplete && run.IncompleteReason != "":
		return "incomplete: " + run.IncompleteReason
	case run.Status == RunStatusRequiresAction:
		return "assistant requested a tool call, which is not supported"
	}
	return ""
}
