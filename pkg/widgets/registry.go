package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formintake/pkg/model"
)

// Built-in widget identifiers exposed by the registry. Each names the prompt a
// terminal session uses to collect the field.
const (
	WidgetConfirm     = "confirm"
	WidgetMultiSelect = "multi-select"
	WidgetList        = "list"
	WidgetSelect      = "select"
	WidgetPassword    = "password"
	WidgetTextArea    = "textarea"
	WidgetNumber      = "number"
	WidgetInput       = "input"
)

// MetadataWidget forces a widget for a field, bypassing the matchers.
const MetadataWidget = "widget"

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit metadata or registered
// matchers. Higher priority wins; ties fall back to registration order. Fields
// no matcher claims resolve to WidgetInput.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. Metadata["widget"] is honoured
// before matcher evaluation.
func (r *Registry) Resolve(field model.Field) string {
	if explicit := strings.TrimSpace(field.Metadata[MetadataWidget]); explicit != "" {
		return explicit
	}
	if r == nil {
		return WidgetInput
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name
		}
	}
	return WidgetInput
}

// Options returns the choices offered for a field: its own enum, or the item
// enum for arrays.
func Options(field model.Field) []any {
	if len(field.Enum) > 0 {
		return field.Enum
	}
	if field.Type == model.FieldTypeArray && field.Items != nil {
		return field.Items.Enum
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetConfirm, 90, func(field model.Field) bool {
		return field.Type == model.FieldTypeBoolean
	})

	r.Register(WidgetMultiSelect, 80, func(field model.Field) bool {
		return field.Type == model.FieldTypeArray && len(Options(field)) > 0
	})

	r.Register(WidgetList, 75, func(field model.Field) bool {
		return field.Type == model.FieldTypeArray
	})

	r.Register(WidgetSelect, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeString && len(field.Enum) > 0
	})

	r.Register(WidgetNumber, 65, func(field model.Field) bool {
		return field.Type == model.FieldTypeNumber || field.Type == model.FieldTypeInteger
	})

	r.Register(WidgetPassword, 60, func(field model.Field) bool {
		return field.Type == model.FieldTypeString &&
			(field.Format == model.FormatPassword || strings.EqualFold(field.Metadata["cli.secret"], "true"))
	})

	r.Register(WidgetTextArea, 50, func(field model.Field) bool {
		return field.Type == model.FieldTypeString && field.Format == model.FormatTextArea
	})
}
