package openapi

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formintake/pkg/model"
)

// PayloadSchema describes the JSON body delivered for form. Every declared
// field is listed; Required mirrors the form definition.
func PayloadSchema(form model.FormModel) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = form.Title
	schema.Description = form.Description

	var required []string
	for _, field := range form.Fields {
		schema.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			required = append(required, field.Name)
		}
	}
	schema.Required = required
	return schema
}

func fieldSchema(field model.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Type {
	case model.FieldTypeString:
		schema = stringSchema(field)
	case model.FieldTypeInteger:
		schema = numberSchema(field, openapi3.NewIntegerSchema())
	case model.FieldTypeNumber:
		schema = numberSchema(field, openapi3.NewFloat64Schema())
	case model.FieldTypeBoolean:
		schema = openapi3.NewBoolSchema()
	case model.FieldTypeArray:
		schema = arraySchema(field)
	default:
		schema = openapi3.NewSchema()
	}

	schema.Title = field.DisplayLabel()
	schema.Description = field.Description
	if field.Format == model.FormatPassword && field.Type == model.FieldTypeString {
		schema.Format = "password"
	}
	if field.Default != nil && field.Default != "" {
		schema.Default = model.CloneValue(field.Default)
	}
	if !field.Required {
		// Optional fields without a default are sent as null.
		schema.Nullable = true
	}
	return schema
}

func stringSchema(field model.Field) *openapi3.Schema {
	schema := openapi3.NewStringSchema()

	if len(field.Enum) > 0 {
		options := append([]any(nil), field.Enum...)
		if !field.Required {
			options = append(options, "")
		}
		return schema.WithEnum(options...)
	}

	min := 0
	if rule, ok := field.Rule(model.ValidationRuleMinLength); ok {
		min = atoi(rule.Params["value"])
	}
	if field.Required && min < 1 {
		min = 1
	}
	if rule, ok := field.Rule(model.ValidationRuleMaxLength); ok {
		schema.WithMaxLength(int64(atoi(rule.Params["value"])))
	}
	if rule, ok := field.Rule(model.ValidationRulePattern); ok {
		if pattern := rule.Params["pattern"]; pattern != "" {
			schema.WithPattern(pattern)
		}
	}
	if min == 0 {
		return schema
	}
	schema.WithMinLength(int64(min))
	if field.Required {
		return schema
	}

	// Optional strings may be left empty even when a minimum length applies.
	return openapi3.NewAnyOfSchema(openapi3.NewStringSchema().WithMaxLength(0), schema)
}

func numberSchema(field model.Field, schema *openapi3.Schema) *openapi3.Schema {
	if rule, ok := field.Rule(model.ValidationRuleMin); ok {
		if v, err := strconv.ParseFloat(rule.Params["value"], 64); err == nil {
			schema.WithMin(v)
		}
	}
	if rule, ok := field.Rule(model.ValidationRuleMax); ok {
		if v, err := strconv.ParseFloat(rule.Params["value"], 64); err == nil {
			schema.WithMax(v)
		}
	}
	return schema
}

func arraySchema(field model.Field) *openapi3.Schema {
	items := openapi3.NewSchema()
	options := field.Enum
	if len(options) == 0 && field.Items != nil {
		options = field.Items.Enum
	}
	if len(options) > 0 {
		items = openapi3.NewStringSchema().WithEnum(options...)
	}

	schema := openapi3.NewArraySchema().WithItems(items)
	min := 0
	if rule, ok := field.Rule(model.ValidationRuleMinLength); ok {
		min = atoi(rule.Params["value"])
	}
	if field.Required && min < 1 {
		min = 1
	}
	if min > 0 {
		schema.WithMinItems(int64(min))
	}
	if rule, ok := field.Rule(model.ValidationRuleMaxLength); ok {
		schema.WithMaxItems(int64(atoi(rule.Params["value"])))
	}
	return schema
}

func atoi(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
