package source

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/chain"
	"github.com/matzehuels/supplychain/pkg/errors"
	scio "github.com/matzehuels/supplychain/pkg/io"
)

// File reads a JSON or YAML dataset file.
type File struct {
	path   string
	logger *log.Logger
}

// NewFile returns a source for the dataset file at path.
func NewFile(path string, logger *log.Logger) *File {
	return &File{path: path, logger: logger}
}

func (f *File) Name() string { return f.path }

// Path returns the file path.
func (f *File) Path() string { return f.path }

func (f *File) Load(ctx context.Context) (chain.Data, error) {
	if err := ctx.Err(); err != nil {
		return chain.Data{}, err
	}
	data, skipped, err := scio.Import(f.path)
	if err != nil {
		if errors.GetCode(err) != "" {
			return chain.Data{}, err
		}
		return chain.Data{}, errors.Wrap(errors.ErrCodeSource, err, "load %s", f.path)
	}
	if skipped > 0 && f.logger != nil {
		f.logger.Warn("skipped records without id", "path", f.path, "count", skipped)
	}
	return data, nil
}

func (f *File) Close(context.Context) error { return nil }

var _ Source = (*File)(nil)
