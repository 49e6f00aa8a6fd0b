package persistence

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
)

// Compile-time interface check.
var _ domain.StateRepository = (*FileRepository)(nil)

// FileRepository keeps the state in a single JSON file.
type FileRepository struct {
	path string
	log  *logger.Logger
}

// NewFileRepository creates a repository backed by the file at path. The
// file and its directory are created on the first save.
func NewFileRepository(path string, log *logger.Logger) *FileRepository {
	return &FileRepository{path: path, log: log}
}

// Path returns the backing file path.
func (r *FileRepository) Path() string { return r.path }

// Load reads and decodes the document. A missing or empty file is not an
// error: found is false and the caller keeps its default state.
func (r *FileRepository) Load(ctx context.Context) (*domain.State, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug("no saved state at %s", r.path)
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "reading %s", r.path)
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	st, err := Decode(data, r.log)
	if err != nil {
		return nil, false, errors.Wrapf(err, "loading %s", r.path)
	}
	r.log.Debug("loaded %d bytes from %s", len(data), r.path)
	return st, true, nil
}

// Save encodes the state and replaces the file. The document is written
// to a temporary file first, so a failed save leaves the previous copy
// intact.
func (r *FileRepository) Save(ctx context.Context, st *domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(st)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "syncing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmpName)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return errors.Wrapf(err, "replacing %s", r.path)
	}

	r.log.Debug("saved %d bytes to %s", len(data), r.path)
	return nil
}
