// Package config loads and validates the compiler's YAML options file,
// grounded on opal-lang-opal/core/types/validation.go's pattern of
// compiling a JSON Schema once and validating a decoded map before
// strict-unmarshaling into the Go struct. Scaled down from that file's
// full Validator (no schema cache, no remote-$ref loader, no custom
// formats): this package has exactly one schema, known at compile time,
// so none of that machinery earns its keep here.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"kodelang.dev/cellc/runtime/lexer"
	"kodelang.dev/cellc/runtime/parser"
)

// Options is the compiler's configurable behavior beyond the required
// --file argument, per SPEC_FULL.md's ambient-stack Config section.
type Options struct {
	// Evaluate runs the post-compile evaluation pass against an empty
	// environment and prints its result, the default behavior of cmd/cellc's
	// --run flag when no flag overrides it.
	Evaluate bool `yaml:"evaluate"`

	// RecoveryTokens widens parser error recovery beyond the grammar's
	// built-in '{'/'}' stop set, by name (see recoveryTokenNames below).
	// Empty by default: the grammar's own recovery set is already complete
	// for well-formed programs.
	RecoveryTokens []string `yaml:"recovery_tokens,omitempty"`
}

// Default returns the zero-configuration behavior: no extra evaluation
// pass, no widened recovery.
func Default() Options {
	return Options{}
}

const schemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"evaluate": { "type": "boolean" },
		"recovery_tokens": {
			"type": "array",
			"items": { "type": "string", "enum": ["semicolon", "lbrace", "rbrace"] }
		}
	}
}`

var compiledSchema *jsonschema.Schema

func schema() (*jsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.json", strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("config: compiling schema: %w", err)
	}
	s, err := compiler.Compile("config.json")
	if err != nil {
		return nil, fmt.Errorf("config: compiling schema: %w", err)
	}
	compiledSchema = s
	return compiledSchema, nil
}

// Load reads, schema-validates, then strict-unmarshals the YAML file at
// path. Validation runs against a generic map decode first so schema
// violations (unknown keys, wrong types) surface with jsonschema's own
// pointer-qualified error messages rather than yaml.v3's less precise ones.
func Load(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return Options{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	// jsonschema validates against JSON-shaped values (map[string]any with
	// string keys), not YAML's map[any]any; round-trip through encoding/json
	// to normalize, the same conversion opal-lang-opal's validator performs
	// on its own decoded parameter values.
	normalized, err := toJSONValue(generic)
	if err != nil {
		return Options{}, fmt.Errorf("config: normalizing %s: %w", path, err)
	}

	s, err := schema()
	if err != nil {
		return Options{}, err
	}
	if err := s.Validate(normalized); err != nil {
		return Options{}, fmt.Errorf("config: %s: %w", path, err)
	}

	var opts Options
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if _, err := opts.ParserOptions(); err != nil {
		return Options{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return opts, nil
}

func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var recoveryTokenNames = map[string]lexer.Kind{
	"semicolon": lexer.Semicolon,
	"lbrace":    lexer.LBrace,
	"rbrace":    lexer.RBrace,
}

// ParserOptions translates RecoveryTokens into a runtime/parser.Option,
// rejecting names the schema's enum already constrains but that could still
// slip through a hand-built Options value.
func (o Options) ParserOptions() ([]parser.Option, error) {
	if len(o.RecoveryTokens) == 0 {
		return nil, nil
	}
	kinds := make([]lexer.Kind, 0, len(o.RecoveryTokens))
	for _, name := range o.RecoveryTokens {
		kind, ok := recoveryTokenNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown recovery token %q", name)
		}
		kinds = append(kinds, kind)
	}
	return []parser.Option{parser.WithExtraRecovery(kinds...)}, nil
}
