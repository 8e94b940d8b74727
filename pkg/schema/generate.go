package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generator reflects a JSON schema from a configuration type, pulling field
// documentation from the Go comments of the listed packages.
type Generator struct {
	value    any
	packages []string
}

// NewGenerator creates a [Generator] for the given value. Generation must run
// from the directory of each listed package (go:generate does) so the source
// comments can be located.
func NewGenerator(value any, packages ...string) *Generator {
	return &Generator{value: value, packages: packages}
}

// Generate reflects and serializes the schema.
func (g *Generator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}

	for _, pkg := range g.packages {
		if err := r.AddGoComments(pkg, "./"); err != nil {
			return nil, fmt.Errorf("add comments for %s: %w", pkg, err)
		}
	}

	jss := r.Reflect(g.value)
	jss.Version = "https://json-schema.org/draft/2020-12/schema"

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}
