package pipeline

import (
	"io"
	"os"
)

// StdinName is the display name used for standard input.
const StdinName = "stdin"

// Source is one trace input.
type Source struct {
	// Name identifies the input in logs, metrics and output rows.
	Name string
	// Path is the file path, empty for in-memory or stdin sources.
	Path string
	open func() (io.ReadCloser, error)
}

// FileSource returns a Source reading path. The path "-" means standard input.
func FileSource(path string) Source {
	if path == "-" {
		return ReaderSource(StdinName, os.Stdin)
	}
	return Source{
		Name: path,
		Path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// ReaderSource returns a Source reading r. The reader is not closed.
func ReaderSource(name string, r io.Reader) Source {
	return Source{
		Name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// FileSources maps command-line inputs to sources. Every "-" reads stdin,
// which defaults to os.Stdin when nil.
func FileSources(paths []string, stdin io.Reader) []Source {
	if stdin == nil {
		stdin = os.Stdin
	}
	sources := make([]Source, len(paths))
	for i, p := range paths {
		if p == "-" {
			sources[i] = ReaderSource(StdinName, stdin)
			continue
		}
		sources[i] = FileSource(p)
	}
	return sources
}
