// Package encoders provides result encoders for the engine.
package encoders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/msds-io/msds/internal/engine"
)

// JSONEncoder implements engine.Encoder for JSON output.
type JSONEncoder struct {
	indent string
}

// NewJSONEncoder creates a JSON encoder. An empty indent produces compact
// output; "  " produces two-space indentation.
func NewJSONEncoder(indent string) *JSONEncoder {
	return &JSONEncoder{indent: indent}
}

// EncodeResult encodes the result's Data as JSON.
func (e *JSONEncoder) EncodeResult(ctx context.Context, result engine.Result) (io.Reader, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	if e.indent != "" {
		encoder.SetIndent("", e.indent)
	}

	if err := encoder.Encode(result.Data); err != nil {
		return nil, fmt.Errorf("failed to encode result as JSON: %w", err)
	}

	return &buf, nil
}

// FileExtension returns "json".
func (e *JSONEncoder) FileExtension() string {
	return "json"
}
