package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

func LoadYAMLFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	cat, err := ReadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cat, nil
}

// ReadYAML reads either a bare list of dishes or a document with a top-level
// "dishes" list.
func ReadYAML(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	var dishes []Dish
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.MappingNode {
		var doc struct {
			Dishes []Dish `yaml:"dishes"`
		}
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}
		dishes = doc.Dishes
	} else if err := node.Decode(&dishes); err != nil {
		return nil, err
	}
	for i, d := range dishes {
		if err := validate(i+1, d); err != nil {
			return nil, err
		}
	}
	return New(dishes...), nil
}
