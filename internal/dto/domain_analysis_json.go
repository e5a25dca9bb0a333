package dto

import (
	"bytes"
	"encoding/json"
)

// UnmarshalJSON decodes an assistant payload leniently. Only malformed JSON is an error:
// a field or block with an unexpected shape is left empty.
func (r *DomainAnalysisResult) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = DomainAnalysisResult{
		AsOfDate:      looseString(fields["as_of_date"]),
		DimensionName: looseString(fields["dimension_name"]),
		DimensionCode: looseString(fields["dimension_code"]),
	}

	if items, ok := looseArray(fields["indicators"]); ok {
		r.Indicators = make([]IndicatorAnalysis, 0, len(items))
		for _, item := range items {
			r.Indicators = append(r.Indicators, looseIndicator(item))
		}
	}
	if block, ok := looseObject(fields["integrated_dimension_read"]); ok {
		r.IntegratedDimensionRead = &IntegratedDimensionRead{Bullets: looseStrings(block["bullets"])}
	}
	if block, ok := looseObject(fields["overall_conclusion"]); ok {
		r.OverallConclusion = &OverallConclusion{Summary: looseString(block["summary"])}
	}
	if block, ok := looseObject(fields["dimension_tone"]); ok {
		r.DimensionTone = &DimensionTone{
			ToneHeadline: looseString(block["tone_headline"]),
			ToneBullets:  looseStrings(block["tone_bullets"]),
		}
	}
	return nil
}

func looseIndicator(raw json.RawMessage) IndicatorAnalysis {
	fields, ok := looseObject(raw)
	if !ok {
		return IndicatorAnalysis{}
	}
	return IndicatorAnalysis{
		IndicatorID:   looseString(fields["indicator_id"]),
		IndicatorName: looseString(fields["indicator_name"]),
		Symbol:        looseString(fields["symbol"]),
		Role:          looseString(fields["role"]),
		LongTerm:      looseTimeframe(fields["long_term"]),
		ShortTerm:     looseTimeframe(fields["short_term"]),
	}
}

func looseTimeframe(raw json.RawMessage) *TimeframeAnalysis {
	fields, ok := looseObject(raw)
	if !ok {
		return nil
	}
	return &TimeframeAnalysis{
		Timeframe: looseString(fields["timeframe"]),
		Analysis:  looseString(fields["analysis"]),
		Takeaway:  looseString(fields["takeaway"]),
	}
}

// looseString returns strings as is and numbers or booleans as their literal text.
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return ""
	case '{', '[', 'n':
		return ""
	}
	return string(raw)
}

// looseStrings keeps the non-empty scalar entries of an array.
func looseStrings(raw json.RawMessage) []string {
	items, ok := looseArray(raw)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := looseString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func looseArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

func looseObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}
