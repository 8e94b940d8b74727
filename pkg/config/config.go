// Package config defines the run configuration document.
package config

import (
	_ "embed"

	"github.com/invopop/jsonschema"

	"github.com/modelcheck/modelcheck/pkg/predicate"
	"github.com/modelcheck/modelcheck/pkg/schema"
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1beta1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	ValidAPIVersions = []string{
		"modelcheck.dev/v1beta1",
	}
	ValidKinds = []string{
		"Configuration",
	}

	DefaultValidator = schema.MustNewValidator("/config.v1beta1.json", schemaJSON)
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
	// SpreadsheetURL locates the published rule table, as an HTTP(S) URL or
	// local file path.
	SpreadsheetURL string `json:"spreadsheetUrl" jsonschema:"title=Spreadsheet URL"`
	// MinimumSeverity gates reporting: failures below it are suppressed and
	// passes are reported only at Info.
	MinimumSeverity string `json:"minimumSeverity,omitempty" jsonschema:"title=Minimum Severity"`
	// ElementFilter is an optional CEL expression narrowing which elements
	// are evaluated. It sees one variable, `element`.
	ElementFilter string `json:"elementFilter,omitempty" jsonschema:"title=Element Filter"`
	// FuzzyThreshold is the similarity ratio fuzzy is-like matching must
	// reach, in (0,1].
	FuzzyThreshold float64 `json:"fuzzyThreshold,omitempty" jsonschema:"title=Fuzzy Threshold"`
	// HideSkipped suppresses informational attachments for skipped rules.
	HideSkipped bool `json:"hideSkipped,omitempty" jsonschema:"title=Hide Skipped"`
}

// New returns a Config with defaults applied.
func New() *Config {
	c := &Config{
		APIVersion: "modelcheck.dev/v1beta1",
		Kind:       "Configuration",
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.MinimumSeverity == "" {
		c.MinimumSeverity = "Info"
	}

	if c.FuzzyThreshold == 0 {
		c.FuzzyThreshold = predicate.DefaultFuzzyThreshold
	}
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)

	severity, ok := jss.Properties.Get("minimumSeverity")
	if !ok {
		panic("minimumSeverity property not found in schema")
	}

	severity.Enum = []any{"Info", "Warning", "Error"}
	_, _ = jss.Properties.Set("minimumSeverity", severity)
}
