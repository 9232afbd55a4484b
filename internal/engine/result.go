package engine

// Result is the output of a single resolved step.
type Result struct {
	ID   string            `json:"id"`
	Data any               `json:"data"`
	Meta map[string]string `json:"meta,omitempty"`
}
