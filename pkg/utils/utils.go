package utils

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/schiang418/cyclescope-domain-api/pkg/logger"
)

// CleanToValidUTF8 drops invalid UTF-8 bytes.
func CleanToValidUTF8(s string) string {
	var buf bytes.Buffer
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		buf.WriteRune(r)
		i += size
	}
	return buf.String()
}

func ToPointer[T any](value T) *T {
	return &value
}

// ShouldContinue reports false and logs the caller once ctx is done.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
