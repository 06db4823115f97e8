// Package blocks loads the time block catalog from a YAML file.
package blocks

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// file is the on-disk catalog layout.
type file struct {
	Blocks []block `yaml:"blocks"`
}

type block struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Time     string `yaml:"time"`
	Capacity string `yaml:"capacity"`
}

// Load reads the catalog at path. An empty path returns the built-in catalog.
func Load(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open block catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses a YAML catalog. Unknown fields are rejected.
func Decode(r io.Reader) (*domain.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("block catalog is empty")
		}
		return nil, fmt.Errorf("parse block catalog: %w", err)
	}

	out := make([]domain.TimeBlock, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		capacity, err := domain.ParseCapacity(b.Capacity)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.ID, err)
		}
		out = append(out, domain.TimeBlock{
			ID:       b.ID,
			Label:    b.Label,
			Time:     b.Time,
			Capacity: capacity,
		})
	}
	return domain.NewCatalog(out)
}

// Encode writes the catalog as YAML in the format Load reads.
func Encode(w io.Writer, c *domain.Catalog) error {
	var f file
	for _, b := range c.Blocks() {
		f.Blocks = append(f.Blocks, block{
			ID:       b.ID,
			Label:    b.Label,
			Time:     b.Time,
			Capacity: string(b.Capacity),
		})
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode block catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
