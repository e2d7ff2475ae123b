package bootstrap

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	"github.com/fahmidurshanto/custom-cms/pkg/expression"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
	"github.com/fahmidurshanto/custom-cms/pkg/validator"
)

//go:embed entities.json
var entitiesJSON []byte

// LoadSchemas parses the embedded entity catalog.
func LoadSchemas() ([]*models.EntitySchema, error) {
	return ParseSchemas(entitiesJSON)
}

// ParseSchemas parses a catalog in the entities.json format.
func ParseSchemas(data []byte) ([]*models.EntitySchema, error) {
	var schemas []*models.EntitySchema
	if err := json.Unmarshal(data, &schemas); err != nil {
		return nil, fmt.Errorf("failed to parse entities.json: %w", err)
	}
	return schemas, nil
}

// SchemaViolation is one problem found in the catalog.
type SchemaViolation struct {
	Entity      string
	Field       string
	Description string
}

func (v SchemaViolation) String() string {
	if v.Field == "" {
		return fmt.Sprintf("%s: %s", v.Entity, v.Description)
	}
	return fmt.Sprintf("%s.%s: %s", v.Entity, v.Field, v.Description)
}

var knownFieldTypes = map[string]bool{
	constants.FieldTypeText:      true,
	constants.FieldTypeTextArea:  true,
	constants.FieldTypeEmail:     true,
	constants.FieldTypePhone:     true,
	constants.FieldTypeURL:       true,
	constants.FieldTypeNumber:    true,
	constants.FieldTypeDate:      true,
	constants.FieldTypeSelect:    true,
	constants.FieldTypeRadio:     true,
	constants.FieldTypeImage:     true,
	constants.FieldTypeFile:      true,
	constants.FieldTypeReference: true,
	constants.FieldTypeList:      true,
}

// CheckSchemas runs the catalog assertions: unique entities and fields,
// known field types, resolvable references and list columns, registered
// validators and compilable rules.
func CheckSchemas(schemas []*models.EntitySchema, validators *validator.Registry, rules *expression.Engine) []SchemaViolation {
	var violations []SchemaViolation
	add := func(entity, field, format string, args ...interface{}) {
		violations = append(violations, SchemaViolation{Entity: entity, Field: field, Description: fmt.Sprintf(format, args...)})
	}

	entities := map[string]bool{}
	for _, s := range schemas {
		if entities[s.APIName] {
			add(s.APIName, "", "duplicate entity")
		}
		entities[s.APIName] = true
	}

	for _, s := range schemas {
		if s.Resource == "" || strings.Contains(s.Resource, "/") {
			add(s.APIName, "", "resource %q is not a single path segment", s.Resource)
		}
		if s.NameField != "" {
			if _, ok := s.Field(s.NameField); !ok {
				add(s.APIName, s.NameField, "name field is not declared")
			}
		}

		fields := map[string]bool{}
		sample := map[string]string{}
		for _, f := range s.Fields {
			sample[f.APIName] = ""
		}
		for _, f := range s.Fields {
			if fields[f.APIName] {
				add(s.APIName, f.APIName, "duplicate field")
			}
			fields[f.APIName] = true

			if !knownFieldTypes[f.Type] {
				add(s.APIName, f.APIName, "unknown field type %q", f.Type)
			}
			if f.Type == constants.FieldTypeReference && !entities[f.ReferenceTo] {
				add(s.APIName, f.APIName, "references unknown entity %q", f.ReferenceTo)
			}
			if (f.Type == constants.FieldTypeSelect || f.Type == constants.FieldTypeRadio) && len(f.Options) == 0 {
				add(s.APIName, f.APIName, "%s field has no options", f.Type)
			}
			if f.Validator != "" {
				if _, ok := validators.Get(f.Validator); !ok {
					add(s.APIName, f.APIName, "unknown validator %q (known: %s)", f.Validator, strings.Join(validators.List(), ", "))
				}
			}
			if f.Rule != "" {
				if err := rules.Validate(f.Rule, expression.RuleEnv("", sample)); err != nil {
					add(s.APIName, f.APIName, "rule does not compile (functions: %s): %v", strings.Join(rules.Functions(), ", "), err)
				}
			}
		}

		for _, col := range s.ListColumns {
			if !fields[col.Field] {
				add(s.APIName, col.Field, "list column is not a declared field")
			}
		}
	}
	return violations
}

// ListFields returns the API names of a schema's list-valued fields.
func ListFields(s *models.EntitySchema) []string {
	var out []string
	for _, f := range s.Fields {
		if f.Type == constants.FieldTypeList {
			out = append(out, f.APIName)
		}
	}
	return out
}
