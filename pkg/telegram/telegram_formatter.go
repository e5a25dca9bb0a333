package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"
)

// FormatBatchResultForTelegram renders a batch result as a short plain-text report.
func FormatBatchResultForTelegram(result *dto.BatchResult) string {
	var builder strings.Builder

	emoji := "✅"
	switch {
	case !result.Success:
		emoji = "❌"
	case result.FailureCount > 0:
		emoji = "⚠️"
	}

	builder.WriteString(fmt.Sprintf("%s Domain analysis %s\n", emoji, result.Date))
	builder.WriteString(fmt.Sprintf("Success: %d/%d\n\n", result.SuccessCount, result.Total))
	for _, r := range result.Results {
		if r.Success {
			builder.WriteString(fmt.Sprintf("• %s ✔ (%s)\n", r.DomainCode, time.Duration(r.DurationMs)*time.Millisecond))
			continue
		}
		builder.WriteString(fmt.Sprintf("• %s ✖ %s\n", r.DomainCode, utils.Truncate(r.Error, 200)))
	}
	if !result.FinishedAt.IsZero() {
		builder.WriteString(fmt.Sprintf("\n%s", utils.PrettyDate(result.FinishedAt)))
	}
	return builder.String()
}
