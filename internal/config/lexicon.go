package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/kirillkom/document-analysis/internal/core/analysis"
)

const lexiconSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "invoice_keyword": {"type": "string", "minLength": 1},
    "positive_words": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "negative_words": {"type": "array", "items": {"type": "string", "minLength": 1}}
  }
}`

// LoadLexicon reads the optional YAML lexicon at path. An empty path
// yields the default lexicon; keys missing from the file keep their
// defaults.
func LoadLexicon(path string) (analysis.Lexicon, error) {
	if path == "" {
		return analysis.DefaultLexicon(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return analysis.Lexicon{}, fmt.Errorf("read lexicon file: %w", err)
	}
	if err := validateLexicon(raw); err != nil {
		return analysis.Lexicon{}, fmt.Errorf("lexicon file %s: %w", path, err)
	}

	var lexicon analysis.Lexicon
	if err := yaml.Unmarshal(raw, &lexicon); err != nil {
		return analysis.Lexicon{}, fmt.Errorf("parse lexicon file %s: %w", path, err)
	}
	return lexicon.Merge(analysis.DefaultLexicon()), nil
}

func validateLexicon(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("lexicon.json", bytes.NewReader([]byte(lexiconSchema))); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("lexicon.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("does not match schema: %w", err)
	}
	return nil
}
