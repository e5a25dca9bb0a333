package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type chanSender struct {
	messages chan string
}

func (s *chanSender) SendAlert(message string) error {
	s.messages <- message
	return nil
}

func newObservedLogger(minLevel zapcore.Level) (*Logger, *observer.ObservedLogs, *chanSender) {
	core, logs := observer.New(zapcore.DebugLevel)
	sender := &chanSender{messages: make(chan string, 4)}
	return &Logger{zap.New(NewAlertCore(core, sender, minLevel))}, logs, sender
}

func TestAlertCore_SendsFlaggedErrors(t *testing.T) {
	log, logs, sender := newObservedLogger(zapcore.ErrorLevel)

	log.With(StringField("batch_id", "b-1")).ErrorContextWithAlert(context.Background(), "Domain analysis batch finished with failures",
		IntField("failure_count", 2),
		ErrorField(errors.New("run expired")),
	)

	select {
	case msg := <-sender.messages:
		assert.Contains(t, msg, "Domain analysis batch finished with failures")
		assert.Contains(t, msg, "• failure_count: 2")
		assert.Contains(t, msg, "• error: run expired")
		assert.NotContains(t, msg, "send_alert")
	case <-time.After(time.Second):
		t.Fatal("alert was not sent")
	}
	require.Equal(t, 1, logs.Len())
}

func TestAlertCore_IgnoresUnflaggedAndLowLevels(t *testing.T) {
	log, logs, sender := newObservedLogger(zapcore.ErrorLevel)

	log.ErrorContext(context.Background(), "plain error")
	log.Warn("flagged warning", zap.Bool("send_alert", true))

	assert.Equal(t, 2, logs.Len())
	select {
	case msg := <-sender.messages:
		t.Fatalf("unexpected alert: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFromContext(t *testing.T) {
	base, logs, _ := newObservedLogger(zapcore.ErrorLevel)
	scoped := base.With(StringField("domain", "macro"))
	ctx := NewContext(context.Background(), scoped)

	base.InfoContext(ctx, "Analyzing domain")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "macro", entries[0].ContextMap()["domain"])
}
