package token

import (
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"
)

type kindSpec struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type DuplicateKindError struct {
	Name string
}

func (e DuplicateKindError) Error() string {
	return fmt.Sprintf("duplicate token kind %q", e.Name)
}

type MissingKindError struct {
	Name string
}

func (e MissingKindError) Error() string {
	return fmt.Sprintf("missing token kind %q", e.Name)
}

// LoadKinds reads a registry from a YAML list of {name, pattern} entries.
//
//	- name: def
//	  pattern: '^(\bdef\b)'
//
// Entries keep their order in the file as match priority. Every kind the parser
// consumes must be present; extra kinds are allowed and reach the parser as
// unexpected tokens.
func LoadKinds(r io.Reader) ([]*Kind, error) {
	var specs []kindSpec
	if err := yaml.NewDecoder(r).Decode(&specs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("grammar: %w", err)
	}

	kinds := make([]*Kind, 0, len(specs))
	seen := map[string]bool{}
	for _, spec := range specs {
		if seen[spec.Name] {
			return nil, DuplicateKindError{Name: spec.Name}
		}
		seen[spec.Name] = true

		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("grammar: kind %q: %w", spec.Name, err)
		}
		kinds = append(kinds, &Kind{Name: spec.Name, Pattern: re})
	}

	for _, name := range []string{DEF, END, IDENT, INTEGER, LEFTPAREN, RIGHTPAREN, COMMA} {
		if !seen[name] {
			return nil, MissingKindError{Name: name}
		}
	}

	return kinds, nil
}
