// Package storage defines the workspace file-system abstraction.
package storage

// Provider is the interface for workspace file operations.
//
// Read errors are returned with the underlying cause wrapped, so callers
// that want the "any read failure means absent" behaviour can collapse
// them, while callers that care can still distinguish os.ErrNotExist
// from real I/O failures.
type Provider interface {
	// Read returns the raw bytes of the file at path (relative to the workspace root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating missing parent directories.
	Write(path string, content []byte) error
	// ListDir returns the file names (not paths) directly under dir, excluding subdirectories.
	ListDir(dir string) ([]string, error)
}
