package services

import (
	"strings"

	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

// EntityAdapter tells the generic list machinery how to read a T.
type EntityAdapter[T any] struct {
	// Key returns the backend identifier.
	Key func(T) string
	// Fields returns the string form of every field value.
	Fields func(T) []string
	// Display returns a short human name for prompts.
	Display func(T) string
	// Seed returns the form values an edit draft starts from.
	Seed func(T) map[string]string
}

// NewRecordAdapter builds the adapter for schema-described records.
func NewRecordAdapter(schema *models.EntitySchema, idField string) EntityAdapter[models.Record] {
	return EntityAdapter[models.Record]{
		Key: func(r models.Record) string {
			return r.ID(idField)
		},
		Fields: func(r models.Record) []string {
			return r.FieldStrings()
		},
		Display: func(r models.Record) string {
			if schema.NameField != "" {
				if name := r.GetString(schema.NameField); name != "" {
					return name
				}
			}
			return r.ID(idField)
		},
		Seed: func(r models.Record) map[string]string {
			return seedValues(schema, r)
		},
	}
}

// seedValues turns a stored record into form text. Dates are cut to the
// date input format and lists become one item per line.
func seedValues(schema *models.EntitySchema, r models.Record) map[string]string {
	values := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		raw, ok := r[f.APIName]
		if !ok || raw == nil {
			continue
		}
		switch f.Type {
		case constants.FieldTypeDate:
			s := utils.Stringify(raw)
			if t := utils.ParseTime(s); !t.IsZero() {
				s = t.Format(constants.DateLayout)
			}
			values[f.APIName] = s
		case constants.FieldTypeList:
			values[f.APIName] = listText(raw)
		default:
			values[f.APIName] = utils.Stringify(raw)
		}
	}
	return values
}

func listText(raw interface{}) string {
	items, ok := raw.([]interface{})
	if !ok {
		return utils.Stringify(raw)
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, utils.Stringify(item))
	}
	return strings.Join(lines, "\n")
}
