package element

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load decodes a model root object from JSON.
func Load(r io.Reader) (Element, error) {
	var root map[string]any

	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return Element(root), nil
}

// LoadFile decodes a model root object from a JSON file.
func LoadFile(path string) (Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	e, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return e, nil
}
