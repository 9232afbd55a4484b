package v1

import "time"

// Status reported in a run summary.
type Status string

const (
	// StatusSuccess means the run completed and produced at least one result.
	StatusSuccess Status = "success"
	// StatusInfo means the run completed without producing any results.
	StatusInfo Status = "info"
)

// RunSummary is the record describing the outcome of a pipeline run. It is
// returned to the caller and written alongside the step results.
type RunSummary struct {
	Status         Status    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	ProcessedCount int       `json:"processed_count"`
	OutputDir      string    `json:"output_dir,omitempty"`
	Results        []string  `json:"results,omitempty"`
	Note           string    `json:"note,omitempty"`
}

// NewRunSummary returns a summary in its initial, successful state. It touches
// neither the filesystem nor the network and cannot fail.
func NewRunSummary() RunSummary {
	return RunSummary{
		Status:    StatusSuccess,
		Timestamp: time.Now().UTC(),
	}
}
