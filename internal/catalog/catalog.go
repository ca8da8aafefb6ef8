// Package catalog lists the invitation backgrounds and fonts an organizer can
// choose from. The list lives in a YAML file and is reloaded when it changes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	ErrDesignNotFound = errors.New("design not found")
	ErrFontNotFound   = errors.New("font not found")
)

type Design struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Image string `yaml:"image" json:"-"`
}

type Font struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	// File is a TrueType/OpenType file. Empty means the built-in fallback face.
	File string `yaml:"file" json:"-"`
}

type Catalog struct {
	DefaultFont string   `yaml:"default_font" json:"default_font"`
	Designs     []Design `yaml:"designs" json:"designs"`
	Fonts       []Font   `yaml:"fonts" json:"fonts"`
	// Missing lists the font keys Load dropped because their file is absent.
	Missing []string `yaml:"-" json:"-"`

	dir string
}

// Parse reads a catalog document; relative file paths resolve against dir.
func Parse(data []byte, dir string) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Designs) == 0 {
		return nil, errors.New("catalog has no designs")
	}
	seen := make(map[string]bool, len(c.Designs))
	for _, d := range c.Designs {
		if d.ID == "" || d.Image == "" {
			return nil, fmt.Errorf("design %q: id and image are required", d.ID)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate design %q", d.ID)
		}
		seen[d.ID] = true
	}
	if c.DefaultFont == "" && len(c.Fonts) > 0 {
		c.DefaultFont = c.Fonts[0].Key
	}
	c.dir = dir
	return &c, nil
}

// Load reads the catalog file and leaves out fonts whose file is not on disk,
// so they are never offered. When the default font is among them, the first
// remaining font becomes the default.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	c.dropMissingFonts()
	return c, nil
}

func (c *Catalog) dropMissingFonts() {
	kept := c.Fonts[:0]
	defaultKept := false
	for _, f := range c.Fonts {
		if f.File != "" {
			if _, err := os.Stat(c.resolve(f.File)); err != nil {
				c.Missing = append(c.Missing, f.Key)
				continue
			}
		}
		if f.Key == c.DefaultFont {
			defaultKept = true
		}
		kept = append(kept, f)
	}
	c.Fonts = kept
	if !defaultKept {
		c.DefaultFont = ""
		if len(kept) > 0 {
			c.DefaultFont = kept[0].Key
		}
	}
}

func (s *Store) warnMissing(c *Catalog) {
	if len(c.Missing) > 0 {
		s.log.Warn().Strs("fonts", c.Missing).Str("default_font", c.DefaultFont).Msg("font files not found, fonts left out of the catalog")
	}
}

func (c *Catalog) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

func (c *Catalog) Design(id string) (Design, error) {
	for _, d := range c.Designs {
		if d.ID == id {
			d.Image = c.resolve(d.Image)
			return d, nil
		}
	}
	return Design{}, ErrDesignNotFound
}

// Font looks up key, falling back to the default font when key is empty.
func (c *Catalog) Font(key string) (Font, error) {
	if key == "" {
		key = c.DefaultFont
	}
	for _, f := range c.Fonts {
		if f.Key == key {
			f.File = c.resolve(f.File)
			return f, nil
		}
	}
	if key == "" {
		return Font{}, nil
	}
	return Font{}, ErrFontNotFound
}

// Store holds the current catalog and swaps it when the file is rewritten.
type Store struct {
	path string
	log  *zerolog.Logger

	mu  sync.RWMutex
	cur *Catalog
}

func NewStore(path string, log *zerolog.Logger) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, log: log, cur: c}
	s.warnMissing(c)
	return s, nil
}

func (s *Store) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *Store) Reload() error {
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.warnMissing(c)
	s.mu.Lock()
	s.cur = c
	s.mu.Unlock()
	return nil
}

// Watch reloads the catalog on every change to its directory entry until ctx
// is done. A file that fails to parse keeps the previous catalog in place.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Editors replace files by rename, so the directory is watched.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return err
	}

	target := filepath.Clean(s.path)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := s.Reload(); err != nil {
					s.log.Error().Err(err).Str("path", s.path).Msg("catalog reload failed")
					continue
				}
				s.log.Info().Str("path", s.path).Str("op", event.Op.String()).Msg("catalog reloaded")
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Error().Err(err).Msg("catalog watcher error")
			}
		}
	}()
	return nil
}
