package dto

import "time"

type DomainBatchOutcome struct {
	DomainCode string `json:"domain_code"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// BatchResult reports one analyze-all run. Results follow the fixed domain order.
type BatchResult struct {
	BatchID      string               `json:"batch_id"`
	Date         string               `json:"date"`
	Success      bool                 `json:"success"`
	Total        int                  `json:"total"`
	SuccessCount int                  `json:"success_count"`
	FailureCount int                  `json:"failure_count"`
	Results      []DomainBatchOutcome `json:"results"`
	StartedAt    time.Time            `json:"started_at"`
	FinishedAt   time.Time            `json:"finished_at"`
}

// Failed returns the outcomes that did not succeed.
func (b *BatchResult) Failed() []DomainBatchOutcome {
	var out []DomainBatchOutcome
	for _, r := range b.Results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
