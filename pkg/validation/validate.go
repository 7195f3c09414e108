package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formintake/pkg/model"
)

// Result captures the outcome of validating a full value set. Errors maps each
// failing field name to a single human-readable message.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Validate checks every declared field of form against values. It has no side
// effects; values is never mutated.
func Validate(form model.FormModel, values map[string]any) Result {
	errs := make(map[string]string)
	for _, field := range form.Fields {
		if msg := Field(field, values[field.Name]); msg != "" {
			errs[field.Name] = msg
		}
	}
	if len(errs) == 0 {
		return Result{Valid: true}
	}
	return Result{Errors: errs}
}

// Field validates a single value against its field declaration and returns the
// first failing rule's message, or "" when the value is acceptable.
func Field(field model.Field, value any) string {
	switch field.Type {
	case model.FieldTypeInteger, model.FieldTypeNumber:
		return validateNumber(field, value)
	case model.FieldTypeBoolean:
		return validateBool(field, value)
	case model.FieldTypeArray:
		return validateArray(field, value)
	case model.FieldTypeObject:
		return ""
	default:
		return validateString(field, value)
	}
}

func validateString(field model.Field, value any) string {
	var s string
	switch v := value.(type) {
	case nil:
	case string:
		s = v
	default:
		return fmt.Sprintf("%s must be text", field.DisplayLabel())
	}

	if strings.TrimSpace(s) == "" && field.Required {
		if rule, ok := field.Rule(model.ValidationRuleMinLength); ok && rule.Message() != "" {
			return rule.Message()
		}
		return requiredMessage(field)
	}
	// Only the empty string skips an optional field's rules; "  " is checked
	// as sent so it still has to be an enum member.
	if s == "" {
		return ""
	}

	if len(field.Enum) > 0 && !inEnum(field.Enum, s) {
		return enumMessage(field, s)
	}

	length := utf8.RuneCountInString(s)
	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMinLength:
			if n, ok := intParam(rule); ok && length < n {
				return messageOr(rule, "%s must be at least %d characters", field.DisplayLabel(), n)
			}
		case model.ValidationRuleMaxLength:
			if n, ok := intParam(rule); ok && length > n {
				return messageOr(rule, "%s must be at most %d characters", field.DisplayLabel(), n)
			}
		case model.ValidationRulePattern:
			if re := compilePattern(rule.Params["pattern"]); re != nil && !re.MatchString(s) {
				return messageOr(rule, "%s does not match the required pattern", field.DisplayLabel())
			}
		}
	}
	return ""
}

func validateNumber(field model.Field, value any) string {
	if value == nil {
		if field.Required {
			return requiredMessage(field)
		}
		return ""
	}

	n, ok := toFloat(value)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Sprintf("%s must be a number", field.DisplayLabel())
	}
	if field.Type == model.FieldTypeInteger && n != math.Trunc(n) {
		return fmt.Sprintf("%s must be a whole number", field.DisplayLabel())
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMin:
			if bound, ok := floatParam(rule); ok && n < bound {
				return messageOr(rule, "%s must be at least %v", field.DisplayLabel(), bound)
			}
		case model.ValidationRuleMax:
			if bound, ok := floatParam(rule); ok && n > bound {
				return messageOr(rule, "%s must be at most %v", field.DisplayLabel(), bound)
			}
		}
	}
	return ""
}

func validateBool(field model.Field, value any) string {
	if value == nil {
		if field.Required {
			return requiredMessage(field)
		}
		return ""
	}
	if _, ok := value.(bool); !ok {
		return fmt.Sprintf("%s must be true or false", field.DisplayLabel())
	}
	return ""
}

func validateArray(field model.Field, value any) string {
	items, ok := toSlice(value)
	if !ok {
		return fmt.Sprintf("%s must be a list", field.DisplayLabel())
	}
	if len(items) == 0 {
		if field.Required {
			return requiredMessage(field)
		}
		return ""
	}

	options := field.Enum
	if len(options) == 0 && field.Items != nil {
		options = field.Items.Enum
	}
	if len(options) > 0 {
		for _, item := range items {
			if !inEnum(options, item) {
				return enumMessage(field, item)
			}
		}
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMinLength:
			if n, ok := intParam(rule); ok && len(items) < n {
				return messageOr(rule, "%s needs at least %d entries", field.DisplayLabel(), n)
			}
		case model.ValidationRuleMaxLength:
			if n, ok := intParam(rule); ok && len(items) > n {
				return messageOr(rule, "%s allows at most %d entries", field.DisplayLabel(), n)
			}
		}
	}
	return ""
}

func requiredMessage(field model.Field) string {
	if msg := field.Metadata[model.MetadataRequiredMessage]; msg != "" {
		return msg
	}
	return field.DisplayLabel() + " is required"
}

func enumMessage(field model.Field, value any) string {
	return fmt.Sprintf("%s has an unknown option %q", field.DisplayLabel(), fmt.Sprint(value))
}

func messageOr(rule model.ValidationRule, format string, args ...any) string {
	if msg := rule.Message(); msg != "" {
		return msg
	}
	return fmt.Sprintf(format, args...)
}

func inEnum(options []any, value any) bool {
	want := fmt.Sprint(value)
	for _, option := range options {
		if fmt.Sprint(option) == want {
			return true
		}
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func intParam(rule model.ValidationRule) (int, bool) {
	raw := strings.TrimSpace(rule.Params["value"])
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

func floatParam(rule model.ValidationRule) (float64, bool) {
	raw := strings.TrimSpace(rule.Params["value"])
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	return n, err == nil
}

var patternCache sync.Map

func compilePattern(expr string) *regexp.Regexp {
	if expr == "" {
		return nil
	}
	if cached, ok := patternCache.Load(expr); ok {
		return cached.(*regexp.Regexp)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	patternCache.Store(expr, re)
	return re
}
