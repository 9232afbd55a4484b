package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

// readJobFile reads a job document from a file, or from stdin when the
// filename is "-". It returns the document and a display name for messages.
func readJobFile(ctx context.Context, filename string) ([]byte, string, error) {
	if filename != "-" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, "", err
		}
		return data, filename, nil
	}

	if isInteractive(ctx) {
		fmt.Fprintln(os.Stderr, "reading job from stdin, terminate with EOF (Ctrl+D)")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read job from stdin: %w", err)
	}

	return data, "<stdin>", nil
}
