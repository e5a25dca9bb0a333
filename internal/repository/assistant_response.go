package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/utils"
)

// parseAnalysisResponse recovers a DomainAnalysisResult from free assistant text.
// Only dimension_code, dimension_name and a non-empty indicators list are required;
// the shape of everything else is not checked. Every failure wraps dto.ErrMalformedResponse.
func parseAnalysisResponse(text string) (*dto.DomainAnalysisResult, error) {
	jsonText, err := utils.ExtractJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrMalformedResponse, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrMalformedResponse, err)
	}

	var missing []string
	for _, key := range []string{"dimension_code", "dimension_name"} {
		if !hasScalar(fields[key]) {
			missing = append(missing, key)
		}
	}
	var indicators []json.RawMessage
	if err := json.Unmarshal(fields["indicators"], &indicators); err != nil || len(indicators) == 0 {
		missing = append(missing, "indicators")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", dto.ErrMalformedResponse, strings.Join(missing, ", "))
	}

	var result dto.DomainAnalysisResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrMalformedResponse, err)
	}
	result.Raw = json.RawMessage(jsonText)
	return &result, nil
}

// hasScalar reports whether raw is a non-blank string, number or boolean.
func hasScalar(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) != ""
	case float64, bool:
		return true
	}
	return false
}
