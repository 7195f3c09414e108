package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goliatone/go-formintake/pkg/model"
)

var (
	// ErrUnknownForm is returned when a form ID is not registered.
	ErrUnknownForm = errors.New("unknown form")
	// ErrInvalidDefinition wraps structural problems in a form definition.
	ErrInvalidDefinition = errors.New("invalid form definition")
)

// CheckDefinition verifies a form definition is usable by the validator:
// unique non-empty field names, known field types and rule kinds, numeric rule
// thresholds, compilable patterns, and item schemas on array fields.
func CheckDefinition(form model.FormModel) error {
	if len(form.Fields) == 0 {
		return fmt.Errorf("forms: %w: form %q declares no fields", ErrInvalidDefinition, form.ID)
	}
	seen := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		if field.Name == "" {
			return fmt.Errorf("forms: %w: form %q has a field without a name", ErrInvalidDefinition, form.ID)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("forms: %w: form %q declares field %q twice", ErrInvalidDefinition, form.ID, field.Name)
		}
		seen[field.Name] = struct{}{}
		if err := checkField(field); err != nil {
			return fmt.Errorf("forms: %w: form %q field %q: %v", ErrInvalidDefinition, form.ID, field.Name, err)
		}
	}
	return nil
}

func checkField(field model.Field) error {
	switch field.Type {
	case model.FieldTypeString, model.FieldTypeInteger, model.FieldTypeNumber, model.FieldTypeBoolean:
	case model.FieldTypeArray:
		if field.Items == nil && len(field.Enum) == 0 {
			return errors.New("array field requires items")
		}
	case model.FieldTypeObject:
		return errors.New("nested object fields are not supported")
	default:
		return fmt.Errorf("unknown field type %q", field.Type)
	}

	if len(field.Enum) > 0 && field.Type != model.FieldTypeString && field.Type != model.FieldTypeArray {
		return fmt.Errorf("enum is not supported on %s fields", field.Type)
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMin, model.ValidationRuleMax:
			if _, err := strconv.ParseFloat(rule.Params["value"], 64); err != nil {
				return fmt.Errorf("rule %s: numeric value required", rule.Kind)
			}
		case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
			if n, err := strconv.Atoi(rule.Params["value"]); err != nil || n < 0 {
				return fmt.Errorf("rule %s: non-negative integer value required", rule.Kind)
			}
		case model.ValidationRulePattern:
			if _, err := regexp.Compile(rule.Params["pattern"]); err != nil {
				return fmt.Errorf("rule pattern: %v", err)
			}
		default:
			return fmt.Errorf("unknown rule kind %q", rule.Kind)
		}
	}
	return nil
}
