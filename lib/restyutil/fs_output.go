package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// InstrumentOutput receives full dumps of HTTP exchanges, keyed by a message id.
type InstrumentOutput interface {
	Write(id string, contents string)
}

// FilesystemOutput writes each HTTP exchange to `<directory>/<id>.txt`.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates `dir` if needed and a fresh `http-*`
// subdirectory inside it for this run, nothing already in `dir` is touched.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	runDir, err := os.MkdirTemp(dir, "http-")
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: runDir}, nil
}

// Directory is where the dumps of this run end up.
func (o FilesystemOutput) Directory() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	path := filepath.Join(o.directory, fmt.Sprintf("%s.txt", id))
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

type prefixedOutput struct {
	prefix string
	inner  InstrumentOutput
}

func (o prefixedOutput) Write(id string, contents string) {
	o.inner.Write(o.prefix+id, contents)
}

// WithPrefix namespaces message ids so several clients can share one output,
// a nil output stays nil.
func WithPrefix(output InstrumentOutput, prefix string) InstrumentOutput {
	if output == nil {
		return nil
	}
	return prefixedOutput{prefix: prefix, inner: output}
}
