package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/schiang418/cyclescope-domain-api/internal/catalog"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"
)

// promptDomainAnalysis builds the instruction sent alongside the domain's chart images.
// The image list it describes must match domain.ChartURLs() one to one.
func promptDomainAnalysis(domain catalog.Domain, asOfDate time.Time) string {
	var sb strings.Builder

	charts := domain.ChartURLs()
	sb.WriteString(fmt.Sprintf(
		"Analyze the %s domain (dimension_code: %s) as of %s.\n",
		domain.Name, domain.Code, utils.FormatDate(asOfDate),
	))
	sb.WriteString(fmt.Sprintf("Domain focus: %s.\n\n", domain.Description))

	sb.WriteString(fmt.Sprintf("### Indicators (%d)\n", len(domain.Indicators)))
	for i, ind := range domain.Indicators {
		sb.WriteString(fmt.Sprintf("%d. %s (%s), id %q: %s\n", i+1, ind.Name, ind.Symbol, ind.ID, ind.Role))
	}

	sb.WriteString(fmt.Sprintf("\n### Attached charts (%d images, in this order)\n", len(charts)))
	n := 1
	for _, ind := range domain.Indicators {
		if ind.HasLongTermChart() {
			sb.WriteString(fmt.Sprintf("Image %d: %s long-term chart\n", n, ind.Symbol))
			n++
		}
		sb.WriteString(fmt.Sprintf("Image %d: %s short-term chart\n", n, ind.Symbol))
		n++
	}
	sb.WriteString("Indicators without a long-term chart must still be analyzed on the long-term timeframe using the short-term chart context; say so in the analysis.\n")

	sb.WriteString(`
### Output
Respond with a single JSON object and nothing else, using exactly this schema:
{
  "as_of_date": "YYYY-MM-DD",
  "dimension_name": "`)
	sb.WriteString(domain.Name)
	sb.WriteString(`",
  "dimension_code": "`)
	sb.WriteString(domain.Code)
	sb.WriteString(`",
  "indicators": [
    {
      "indicator_id": "string",
      "indicator_name": "string",
      "symbol": "string",
      "role": "string",
      "long_term": {"timeframe": "string", "analysis": "string", "takeaway": "string"},
      "short_term": {"timeframe": "string", "analysis": "string", "takeaway": "string"}
    }
  ],
  "integrated_dimension_read": {"bullets": ["string"]},
  "overall_conclusion": {"summary": "string"},
  "dimension_tone": {"tone_headline": "string", "tone_bullets": ["string"]}
}
Include one entry in "indicators" per indicator listed above, in the same order.
`)

	return sb.String()
}
