package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muhammadmuzzammil1998/jsonc"

	terr "netemlab/internal/errors"
	"netemlab/internal/netem"
)

const (
	fileExt  = ".json"
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrInvalidName is returned when a name has no usable characters left after sanitizing.
var ErrInvalidName = errors.New("invalid preset name")

// ErrNotFound is returned when no preset is stored under the requested name.
var ErrNotFound = errors.New("preset not found")

// Store keeps presets as one JSON file per name inside a directory.
// Access is unlocked; concurrent saves of one name are last-writer-wins.
type Store struct {
	dir      string
	defaults netem.Config
	logger   *slog.Logger
}

// NewStore returns a store rooted at dir. Loaded records are merged over defaults.
func NewStore(logger *slog.Logger, dir string, defaults netem.Config) *Store {
	return &Store{dir: dir, defaults: defaults, logger: logger}
}

// Dir returns the directory holding the preset files.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return terr.Unexpected(fmt.Errorf("create preset directory: %w", err), "ensure_preset_dir", terr.ErrorContext{Path: s.dir})
	}
	return nil
}

func (s *Store) path(safe string) string {
	return filepath.Join(s.dir, safe+fileExt)
}

func resolveName(name, operation string) (string, error) {
	safe := Sanitize(name)
	if safe == "" {
		return "", terr.Validation(ErrInvalidName, operation, terr.ErrorContext{Value: name})
	}
	return safe, nil
}

// List returns the stored preset names in lexical order.
func (s *Store) List() ([]string, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, terr.Unexpected(fmt.Errorf("read preset directory: %w", err), "list_presets", terr.ErrorContext{Path: s.dir})
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Save writes every field of cfg under the sanitized name and returns that name.
func (s *Store) Save(name string, cfg netem.Config) (string, error) {
	safe, err := resolveName(name, "save_preset")
	if err != nil {
		return "", err
	}
	if err := s.ensureDir(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", terr.Unexpected(fmt.Errorf("encode preset: %w", err), "save_preset", terr.ErrorContext{Preset: safe})
	}
	data = append(data, '\n')

	path := s.path(safe)
	if err := writeFileWithSync(path, data, filePerm); err != nil {
		return "", terr.Unexpected(err, "save_preset", terr.ErrorContext{Preset: safe, Path: path})
	}

	if s.logger != nil {
		s.logger.Info("preset saved", slog.String("preset", safe), slog.String("path", path))
	}
	return safe, nil
}

// Load reads the preset stored under the sanitized name. Fields missing from
// the record keep the store defaults, so records written by older versions
// stay loadable. Comments in hand-edited files are accepted.
func (s *Store) Load(name string) (netem.Config, error) {
	safe, err := resolveName(name, "load_preset")
	if err != nil {
		return netem.Config{}, err
	}
	if err := s.ensureDir(); err != nil {
		return netem.Config{}, err
	}

	path := s.path(safe)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return netem.Config{}, terr.NotFound(fmt.Errorf("%w: %s", ErrNotFound, safe), "load_preset", terr.ErrorContext{Preset: safe, Path: path})
		}
		return netem.Config{}, terr.Unexpected(fmt.Errorf("read preset: %w", err), "load_preset", terr.ErrorContext{Preset: safe, Path: path})
	}

	cfg := s.defaults
	if err := json.Unmarshal(jsonc.ToJSON(raw), &cfg); err != nil {
		return netem.Config{}, terr.Unexpected(fmt.Errorf("decode preset %s: %w", safe, err), "load_preset", terr.ErrorContext{Preset: safe, Path: path})
	}
	return cfg, nil
}

// Delete removes the preset stored under the sanitized name.
func (s *Store) Delete(name string) (string, error) {
	safe, err := resolveName(name, "delete_preset")
	if err != nil {
		return "", err
	}

	path := s.path(safe)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", terr.NotFound(fmt.Errorf("%w: %s", ErrNotFound, safe), "delete_preset", terr.ErrorContext{Preset: safe, Path: path})
		}
		return "", terr.Unexpected(fmt.Errorf("remove preset: %w", err), "delete_preset", terr.ErrorContext{Preset: safe, Path: path})
	}

	if s.logger != nil {
		s.logger.Info("preset deleted", slog.String("preset", safe))
	}
	return safe, nil
}

// writeFileWithSync truncates the target file, writes the payload, and fsyncs it.
func writeFileWithSync(path string, data []byte, perm os.FileMode) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}

	return nil
}
