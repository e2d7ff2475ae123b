package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	"github.com/fahmidurshanto/custom-cms/pkg/expression"
	"github.com/fahmidurshanto/custom-cms/pkg/models"
	"github.com/fahmidurshanto/custom-cms/pkg/validator"
)

// FieldValidator runs the declarative checks of a schema against a draft.
// Every check is advisory; the backend has the final word.
type FieldValidator struct {
	validators *validator.Registry
	rules      *expression.Engine
}

func NewFieldValidator(validators *validator.Registry, rules *expression.Engine) *FieldValidator {
	if validators == nil {
		validators = validator.GetRegistry()
	}
	if rules == nil {
		rules = expression.NewEngine()
	}
	return &FieldValidator{validators: validators, rules: rules}
}

// typeValidators are applied by field type when no validator is named.
var typeValidators = map[string]string{
	constants.FieldTypeEmail:  "email",
	constants.FieldTypeURL:    "url",
	constants.FieldTypePhone:  "phone",
	constants.FieldTypeDate:   "date",
	constants.FieldTypeNumber: "numeric",
}

// Validate returns one message per failing field; an empty map means valid.
func (fv *FieldValidator) Validate(schema *models.EntitySchema, draft *models.Draft) map[string]string {
	errs := map[string]string{}
	for _, f := range schema.Fields {
		if msg := fv.validateField(f, draft); msg != "" {
			errs[f.APIName] = msg
		}
	}
	return errs
}

func (fv *FieldValidator) validateField(f models.FieldMetadata, draft *models.Draft) string {
	required := f.Required || (f.RequiredOnCreate && !draft.IsEdit())

	if f.IsFile() {
		// on edit the stored URL stands in for the file
		if required && draft.Files[f.APIName] == nil && strings.TrimSpace(draft.Value(f.APIName)) == "" {
			return fmt.Sprintf("%s is required", f.Label)
		}
		return ""
	}

	value := strings.TrimSpace(draft.Value(f.APIName))
	if value == "" {
		if required {
			return fmt.Sprintf("%s is required", f.Label)
		}
		return ""
	}

	if len(f.Options) > 0 && !contains(f.Options, value) {
		return fmt.Sprintf("%s must be one of %s", f.Label, strings.Join(f.Options, ", "))
	}

	if f.MinLength != nil && utf8.RuneCountInString(value) < *f.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", f.Label, *f.MinLength)
	}

	name := f.Validator
	if name == "" {
		name = typeValidators[f.Type]
	}
	if name != "" {
		if err := fv.validators.Validate(name, value, f.ValidatorConfig); err != nil {
			return fmt.Sprintf("%s: %v", f.Label, err)
		}
	}

	if f.Rule != "" {
		ok, err := fv.rules.EvaluateRule(f.Rule, expression.RuleEnv(value, draft.Values))
		if err != nil {
			return fmt.Sprintf("%s could not be checked: %v", f.Label, err)
		}
		if !ok {
			if f.RuleMessage != "" {
				return f.RuleMessage
			}
			return fmt.Sprintf("%s is invalid", f.Label)
		}
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
