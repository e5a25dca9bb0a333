package logger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/schiang418/cyclescope-domain-api/pkg/common"

	"go.uber.org/zap/zapcore"
)

// AlertSender delivers a preformatted alert message to an operator channel.
type AlertSender interface {
	SendAlert(message string) error
}

// AlertCore tees entries carrying send_alert=true to an AlertSender.
type AlertCore struct {
	core     zapcore.Core
	sender   AlertSender
	minLevel zapcore.Level
}

func NewAlertCore(core zapcore.Core, sender AlertSender, minLevel zapcore.Level) *AlertCore {
	return &AlertCore{
		core:     core,
		sender:   sender,
		minLevel: minLevel,
	}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		core:     a.core.With(fields),
		sender:   a.sender,
		minLevel: a.minLevel,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	shouldSend := false
	for _, f := range fields {
		if f.Key == common.KEY_LOG_HOOK_SEND_ALERT && f.Type == zapcore.BoolType && f.Integer == 1 {
			shouldSend = true
			break
		}
	}
	if entry.Level >= a.minLevel && shouldSend {
		message := FormatAlert(entry, fields)
		go func() {
			_ = a.sender.SendAlert(message)
		}()
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

// FormatAlert renders an entry and its fields as a plain-text alert.
func FormatAlert(entry zapcore.Entry, fields []zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		if f.Key == common.KEY_LOG_HOOK_SEND_ALERT {
			continue
		}
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚨 %s alert\n\n%s\n\n", entry.Level.CapitalString(), entry.Message))
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("• %s: %v\n", k, enc.Fields[k]))
	}
	sb.WriteString(fmt.Sprintf("\n%s", entry.Time.UTC().Format("2006-01-02 15:04:05 MST")))
	return sb.String()
}
