package forms

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formintake/pkg/model"
)

// LoadFS walks the provided filesystem and parses JSON/YAML form definitions
// into reg. Each file holds a single form. When fsys is nil nothing is loaded.
// It returns the IDs that were registered, in walk order.
func LoadFS(fsys fs.FS, reg *Registry) ([]string, error) {
	if fsys == nil {
		return nil, nil
	}
	if reg == nil {
		return nil, fmt.Errorf("forms: registry is required")
	}

	var loaded []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("forms: read %s: %w", path, err)
		}

		form, err := parseDefinition(data, path)
		if err != nil {
			return err
		}
		if err := reg.Register(form); err != nil {
			return fmt.Errorf("%w (file %s)", err, path)
		}
		loaded = append(loaded, form.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func parseDefinition(data []byte, path string) (model.FormModel, error) {
	var form model.FormModel
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &form); err != nil {
			return model.FormModel{}, fmt.Errorf("forms: parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &form); err != nil {
			return model.FormModel{}, fmt.Errorf("forms: parse %s: %w", path, err)
		}
	}
	form.ID = strings.TrimSpace(form.ID)
	if form.ID == "" {
		return model.FormModel{}, fmt.Errorf("forms: file %s defines an empty form id", path)
	}
	if form.Endpoint == "" {
		form.Endpoint = form.ID
	}
	if form.Method == "" {
		form.Method = "POST"
	}
	return form, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
