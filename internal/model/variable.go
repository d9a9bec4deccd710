package model

import (
	"fmt"
	"strings"
)

// OriginalNameVariable is the built-in placeholder that resolves to the
// document's original filename without its extension. It is filled
// locally and never sent to the language model.
const OriginalNameVariable = "original_name"

// Variable describes a named value that can appear as a {placeholder}
// in a naming pattern. The description tells the language model what to
// look for in the document text.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Type is an optional hint such as "date" or "number" that is
	// forwarded to the language model verbatim.
	Type string `json:"type,omitempty"`
}

// Validate checks that the variable is well-formed enough to store.
func (v Variable) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("variable name cannot be empty")
	}
	if strings.ContainsAny(v.Name, "{}") {
		return fmt.Errorf("variable name cannot contain braces")
	}
	return nil
}

// DefaultVariables returns the catalogue seeded into a fresh rules
// document.
func DefaultVariables() []Variable {
	return []Variable{
		{
			Name:        OriginalNameVariable,
			Description: "The original filename without its extension",
		},
	}
}

// FindVariable looks up a variable by exact name.
func FindVariable(variables []Variable, name string) (Variable, bool) {
	for _, v := range variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
