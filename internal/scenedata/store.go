package scenedata

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultExtension = "dat"
	filePrefix       = "sceneData_"
)

// Store maps scene names to data files under a single root directory.
type Store struct {
	root   string
	ext    string
	logger *log.Logger
}

func NewStore(root, ext string, logger *log.Logger) *Store {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = DefaultExtension
	}
	return &Store{root: root, ext: ext, logger: orDefault(logger)}
}

func (s *Store) Root() string {
	return s.root
}

// Path returns <root>/sceneData_<sceneName>.<ext>. Path separators in the
// scene name are replaced so the file always lands directly under root.
func (s *Store) Path(sceneName string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", string(os.PathSeparator), "_").Replace(sceneName)
	return filepath.Join(s.root, filePrefix+name+"."+s.ext)
}

// SceneName reverses Path for a file under root. ok is false for files
// that do not follow the naming scheme.
func (s *Store) SceneName(path string) (string, bool) {
	base := filepath.Base(path)
	suffix := "." + s.ext
	if !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(base, suffix) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), suffix), true
}

// List returns the scene names that have a data file under root.
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, filePrefix+"*."+s.ext))
	if err != nil {
		return nil, fmt.Errorf("list scene data: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if name, ok := s.SceneName(m); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Save writes records for sceneName, replacing any previous file
// atomically.
func (s *Store) Save(sceneName string, records []Record) error {
	path := s.Path(sceneName)
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("create data root: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, filePrefix+"*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(Encode(records)); err != nil {
		tmp.Close()
		return fmt.Errorf("write scene data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write scene data: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace scene data: %w", err)
	}

	s.logger.Printf("saved %d records to %s", len(records), path)
	return nil
}

// Load reads the records of sceneName. A missing file yields an error
// matching fs.ErrNotExist; undecodable content yields ErrCorrupt or
// ErrUnsupportedVersion.
func (s *Store) Load(sceneName string) ([]Record, error) {
	path := s.Path(sceneName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene data: %w", err)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}
