package engine

import "context"

// Source is a handle to an external data location (a directory, an HTTP
// endpoint). Sources are started before any step runs and closed after the
// last step finishes.
type Source interface {
	Named
	Closer
	Start(context.Context) error
}
