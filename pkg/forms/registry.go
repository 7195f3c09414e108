package forms

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formintake/pkg/model"
)

// Registry stores form definitions by ID, providing discovery and duplication
// safeguards.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]model.FormModel
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		forms: make(map[string]model.FormModel),
	}
}

// Builtin returns a registry holding the ICP and agent forms.
func Builtin() *Registry {
	r := NewRegistry()
	r.MustRegister(ICP())
	r.MustRegister(Agent())
	return r
}

// Register adds a form by its ID. Duplicate IDs and structurally invalid
// definitions return an error.
func (r *Registry) Register(form model.FormModel) error {
	id := strings.TrimSpace(form.ID)
	if id == "" {
		return fmt.Errorf("forms: form id is required")
	}
	if err := CheckDefinition(form); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.forms[id]; exists {
		return fmt.Errorf("forms: form %q already registered", id)
	}
	r.forms[id] = form
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(form model.FormModel) {
	if err := r.Register(form); err != nil {
		panic(err)
	}
}

// Get retrieves a form by ID.
func (r *Registry) Get(id string) (model.FormModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	form, ok := r.forms[id]
	if !ok {
		return model.FormModel{}, fmt.Errorf("forms: %w: %q", ErrUnknownForm, id)
	}
	return form, nil
}

// List returns the registered form IDs in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether a form is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.forms[id]
	return ok
}
