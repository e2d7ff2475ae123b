package models

// FieldMetadata describes one field of an entity: how the form collects it,
// which checks run before submit, and how the table shows it.
type FieldMetadata struct {
	APIName          string                 `json:"api_name"`
	Label            string                 `json:"label"`
	Type             string                 `json:"type"`
	Required         bool                   `json:"required"`
	RequiredOnCreate bool                   `json:"required_on_create,omitempty"`
	Options          []string               `json:"options,omitempty"`
	ReferenceTo      string                 `json:"reference_to,omitempty"`
	MinLength        *int                   `json:"min_length,omitempty"`
	Validator        string                 `json:"validator,omitempty"`
	ValidatorConfig  map[string]interface{} `json:"validator_config,omitempty"`
	Rule             string                 `json:"rule,omitempty"`
	RuleMessage      string                 `json:"rule_message,omitempty"`
	Badge            map[string]string      `json:"badge,omitempty"`
	Display          map[string]string      `json:"display,omitempty"`
	HelpText         string                 `json:"help_text,omitempty"`
}

// IsFile reports whether the field carries a binary attachment.
func (f FieldMetadata) IsFile() bool {
	return f.Type == "image" || f.Type == "file"
}

// Column is one table column.
type Column struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// EntitySchema describes one managed entity.
type EntitySchema struct {
	APIName     string          `json:"api_name"`
	Label       string          `json:"label"`
	PluralLabel string          `json:"plural_label"`
	Resource    string          `json:"resource"`
	NameField   string          `json:"name_field"`
	Fields      []FieldMetadata `json:"fields"`
	ListColumns []Column        `json:"list_columns"`
	Icon        string          `json:"icon,omitempty"`
}

// Field returns the field with the given API name.
func (s *EntitySchema) Field(apiName string) (FieldMetadata, bool) {
	for _, f := range s.Fields {
		if f.APIName == apiName {
			return f, true
		}
	}
	return FieldMetadata{}, false
}

// HasAttachments reports whether any field is file-bearing.
func (s *EntitySchema) HasAttachments() bool {
	for _, f := range s.Fields {
		if f.IsFile() {
			return true
		}
	}
	return false
}

// References returns the entities this schema points at, in field order
// and without duplicates.
func (s *EntitySchema) References() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if f.ReferenceTo != "" && !seen[f.ReferenceTo] {
			seen[f.ReferenceTo] = true
			out = append(out, f.ReferenceTo)
		}
	}
	return out
}
