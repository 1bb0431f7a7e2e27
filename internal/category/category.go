// Package category holds the lookup table of event categories.
package category

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"eventplanner/internal/model"
)

//go:embed categories.yaml
var defaultCatalog []byte

// Catalog is an ordered key -> label table. It is read-only after load.
type Catalog struct {
	items []model.Category
	index map[string]string
}

type file struct {
	Categories []model.Category `yaml:"categories"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("category: embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, errors.New("categories: catalog is empty")
	}

	c := &Catalog{index: make(map[string]string, len(f.Categories))}
	for _, item := range f.Categories {
		if item.Key == "" {
			return nil, errors.New("categories: empty key")
		}
		if _, dup := c.index[item.Key]; dup {
			return nil, fmt.Errorf("categories: duplicate key %q", item.Key)
		}
		if item.Label == "" {
			item.Label = item.Key
		}
		c.index[item.Key] = item.Label
		c.items = append(c.items, item)
	}
	return c, nil
}

func (c *Catalog) All() []model.Category {
	out := make([]model.Category, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Label returns the display label for key, or key itself when unknown.
func (c *Catalog) Label(key string) string {
	if l, ok := c.index[key]; ok {
		return l
	}
	return key
}

// Filter keeps the known keys from keys, preserving their order.
func (c *Catalog) Filter(keys []string) []model.Category {
	out := make([]model.Category, 0, len(keys))
	for _, k := range keys {
		if l, ok := c.index[k]; ok {
			out = append(out, model.Category{Key: k, Label: l})
		}
	}
	return out
}
