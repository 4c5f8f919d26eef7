package ports

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating or truncating it.
	// The parent directory must exist.
	WriteFile(path string, data []byte) error

	// Mkdir creates a single directory. Parent directories must exist.
	Mkdir(path string) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// RealPath returns the absolute path with all symbolic links resolved.
	RealPath(path string) (string, error)

	// ReadDir returns the names of the entries in a directory, sorted.
	ReadDir(path string) ([]string, error)
}
