package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"mealcompanion"
)

// FileStore reads one record per user from a directory: <id>.json, <id>.yaml or <id>.yml.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

var fileFormats = []struct {
	ext string
	f   format
}{
	{".json", formatJSON},
	{".yaml", formatYAML},
	{".yml", formatYAML},
}

func (s *FileStore) Lookup(ctx context.Context, userID string) (mealcompanion.Profile, error) {
	id, err := NormalizeUserID(userID)
	if err != nil {
		return mealcompanion.Profile{}, err
	}

	for _, ff := range fileFormats {
		path := filepath.Join(s.Dir, id+ff.ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return mealcompanion.Profile{}, fmt.Errorf("read profile %q: %w", id, err)
		}
		slog.Info("PROFILE_STORE: Loaded profile record", "user_id", id, "path", path)
		return decode(id, data, ff.f)
	}

	return mealcompanion.Profile{}, fmt.Errorf("user id %q in %s: %w", id, s.Dir, ErrNotFound)
}
