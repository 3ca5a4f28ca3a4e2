package core

import "errors"

// Per-connection read buffer size for the request parser.
const readBufferSize = 4 * 1024

// Error definitions
var (
	// ErrServerClosed is returned by Serve after its listener closes.
	ErrServerClosed = errors.New("server closed")
)
