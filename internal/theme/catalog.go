package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

//go:embed theme.default.yaml
var defaultFiles embed.FS

// Catalog holds the built-in themes and any overrides loaded from a directory.
type Catalog struct {
	mu     sync.RWMutex
	themes map[string]*Theme
}

// New loads the embedded themes and then applies overrides from dir if provided.
// An override file may redefine single keys of an existing theme or add a new one.
func New(overrideDir string) (*Catalog, error) {
	flat, err := loadEmbedded()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(overrideDir) != "" {
		over, err := loadDir(overrideDir)
		if err != nil {
			return nil, err
		}
		for k, v := range over {
			flat[k] = v
		}
	}
	themes, err := build(flat)
	if err != nil {
		return nil, err
	}
	return &Catalog{themes: themes}, nil
}

// Get returns a copy of the named theme; an empty name selects the default.
func (c *Catalog) Get(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Default
	}
	c.mu.RLock()
	t, ok := c.themes[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	cp := *t
	return &cp, nil
}

func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.themes))
	for n := range c.themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func loadEmbedded() (map[string]string, error) {
	raw, err := fs.ReadFile(defaultFiles, "theme.default.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded themes: %w", err)
	}
	return parseYAMLToFlat(raw)
}

func loadDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read theme dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	out := make(map[string]string)
	seen := make(map[string]string) // key -> filename
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		flat, err := parseYAMLToFlat(b)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		for k, v := range flat {
			if prev, ok := seen[k]; ok {
				return nil, fmt.Errorf("duplicate override key %q in %s and %s", k, prev, name)
			}
			seen[k] = name
			out[k] = v
		}
	}
	return out, nil
}

func parseYAMLToFlat(b []byte) (map[string]string, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	if err := flattenStrings(m, "", flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func flattenStrings(src any, prefix string, out map[string]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flattenStrings(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case string:
		if prefix == "" {
			return errors.New("string value without key prefix")
		}
		out[prefix] = v
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// build groups "<theme>.<group>.<field>" keys into validated themes.
func build(flat map[string]string) (map[string]*Theme, error) {
	themes := make(map[string]*Theme)
	for key, v := range flat {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: key %q has no theme prefix", ErrInvalidTheme, key)
		}
		name := strings.ToLower(parts[0])
		t, ok := themes[name]
		if !ok {
			t = &Theme{Name: name}
			themes[name] = t
		}
		slot, ok := t.fields()[parts[1]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidTheme, key)
		}
		*slot = strings.TrimSpace(v)
	}
	for _, t := range themes {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	if _, ok := themes[Default]; !ok {
		return nil, fmt.Errorf("%w: default theme %q missing", ErrInvalidTheme, Default)
	}
	return themes, nil
}
