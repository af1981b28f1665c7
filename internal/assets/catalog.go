package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"addrscene/internal/engine"
)

// guidNamespace scopes asset GUIDs so that the same relative path always
// maps to the same key, on any machine.
var guidNamespace = uuid.MustParse("6c9b2f1e-4f1d-5a8e-9a57-3f0e7d2b1c40")

// Entry is one asset known to the catalog.
type Entry struct {
	GUID        string   `yaml:"guid"`
	Path        string   `yaml:"path"`
	Address     string   `yaml:"address,omitempty"`
	Labels      []string `yaml:"labels,omitempty"`
	Addressable bool     `yaml:"addressable"`
}

type catalogFile struct {
	Entries []Entry `yaml:"entries"`
}

// Catalog is the asset database (GUID <-> path) and the addressable
// registry (the subset of entries marked addressable). Paths are relative
// to Root.
type Catalog struct {
	Root string

	entries []Entry
	byGUID  map[string]int
	byPath  map[string]int
}

func NewCatalog(root string) *Catalog {
	return &Catalog{
		Root:   root,
		byGUID: make(map[string]int),
		byPath: make(map[string]int),
	}
}

// GUIDForPath derives the stable key of an asset path.
func GUIDForPath(path string) string {
	return uuid.NewSHA1(guidNamespace, []byte(filepath.ToSlash(path))).String()
}

// LoadCatalog reads a catalog file. A missing file yields an empty catalog
// rooted at the file's directory.
func LoadCatalog(path string) (*Catalog, error) {
	c := NewCatalog(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, e := range f.Entries {
		if e.GUID == "" {
			e.GUID = GUIDForPath(e.Path)
		}
		if err := c.put(e); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}
	return c, nil
}

func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(catalogFile{Entries: c.Entries()})
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func (c *Catalog) put(e Entry) error {
	e.Path = filepath.ToSlash(e.Path)
	if i, ok := c.byGUID[e.GUID]; ok && c.entries[i].Path != e.Path {
		return fmt.Errorf("guid %s registered for both %s and %s", e.GUID, c.entries[i].Path, e.Path)
	}
	if i, ok := c.byPath[e.Path]; ok {
		delete(c.byGUID, c.entries[i].GUID)
		c.entries[i] = e
		c.byGUID[e.GUID] = i
		return nil
	}
	c.entries = append(c.entries, e)
	c.byGUID[e.GUID] = len(c.entries) - 1
	c.byPath[e.Path] = len(c.entries) - 1
	return nil
}

// Add registers path, marking it addressable, and returns its entry.
// Re-adding a known path updates its address and flag.
func (c *Catalog) Add(path, address string, addressable bool) (Entry, error) {
	e := Entry{
		GUID:        GUIDForPath(path),
		Path:        path,
		Address:     address,
		Addressable: addressable,
	}
	if e.Address == "" {
		e.Address = filepath.Base(path)
	}
	if err := c.put(e); err != nil {
		return Entry{}, err
	}
	return c.entries[c.byPath[filepath.ToSlash(path)]], nil
}

// Entries returns the entries sorted by path.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (c *Catalog) GUIDFor(path string) (string, bool) {
	i, ok := c.byPath[filepath.ToSlash(path)]
	if !ok {
		return "", false
	}
	return c.entries[i].GUID, true
}

func (c *Catalog) PathFor(guid string) (string, bool) {
	i, ok := c.byGUID[guid]
	if !ok {
		return "", false
	}
	return c.entries[i].Path, true
}

// AbsPath resolves a catalog-relative path against Root.
func (c *Catalog) AbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, filepath.FromSlash(path))
}

// IsRegistered reports whether guid is an addressable entry.
func (c *Catalog) IsRegistered(guid string) bool {
	i, ok := c.byGUID[guid]
	return ok && c.entries[i].Addressable
}

// Resolve maps an object to the key of its source asset: the prefab it was
// instantiated from, or the asset it is. It does not check addressability.
func (c *Catalog) Resolve(g *engine.GameObject) (string, bool) {
	if g == nil {
		return "", false
	}
	path := g.Prefab
	if path == "" {
		path = g.AssetPath
	}
	if path == "" {
		return "", false
	}
	return c.GUIDFor(path)
}
