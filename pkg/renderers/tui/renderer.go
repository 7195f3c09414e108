package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-formintake/pkg/intake"
	"github.com/goliatone/go-formintake/pkg/model"
	"github.com/goliatone/go-formintake/pkg/validation"
	"github.com/goliatone/go-formintake/pkg/widgets"
)

const (
	// MetadataSuccessNotice is the form metadata key shown after delivery.
	MetadataSuccessNotice = "notice.success"
	// MetadataFailureNotice is the form metadata key shown after a failure.
	MetadataFailureNotice = "notice.failure"

	defaultSuccessNotice = "Submission delivered."
	defaultFailureNotice = "Failed to trigger workflow. Please try again."
	defaultRetryPrompt   = "Retry with the same values?"

	noneOption = "(none)"
)

// Renderer runs terminal sessions for intake forms.
type Renderer struct {
	driver      PromptDriver
	widgets     *widgets.Registry
	out         io.Writer
	theme       Theme
	retryPrompt string
}

// New constructs a TUI renderer backed by survey prompts unless a driver is
// supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		widgets:     widgets.NewRegistry(),
		out:         os.Stdout,
		retryPrompt: defaultRetryPrompt,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Collect prompts every field of form in order. prefill seeds the prompt
// defaults; a field is asked again until it passes validation.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, prefill map[string]any) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := form.Project(prefill)
	for _, field := range form.Fields {
		value, err := r.promptField(ctx, field, values[field.Name])
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return values, nil
}

// Run collects the form, submits it through pipeline and reports the outcome.
// After a failure the user may retry with the retained values; declining
// returns the failed state.
func (r *Renderer) Run(ctx context.Context, pipeline *intake.Pipeline, state intake.State) (intake.State, intake.Result, error) {
	if pipeline == nil {
		return state, intake.Result{}, ErrNoPipeline
	}
	form := state.Form
	if form.Title != "" {
		r.info(ctx, form.Title)
	}

	values, err := r.Collect(ctx, form, state.Values)
	if err != nil {
		return state, intake.Result{}, err
	}
	current, err := state.SetAll(values)
	if err != nil {
		return state, intake.Result{}, err
	}

	for {
		next, result, err := pipeline.Attempt(ctx, current)

		var invalid *intake.ValidationError
		if errors.As(err, &invalid) {
			for _, field := range form.Fields {
				if msg := invalid.Fields[field.Name]; msg != "" {
					r.fail(ctx, msg)
				}
			}
			values, err := r.Collect(ctx, form, next.Values)
			if err != nil {
				return next, intake.Result{}, err
			}
			if current, err = next.SetAll(values); err != nil {
				return next, intake.Result{}, err
			}
			continue
		}
		if err != nil {
			return next, result, err
		}

		if result.Success {
			r.info(ctx, notice(form, MetadataSuccessNotice, defaultSuccessNotice))
			return next, result, nil
		}

		r.fail(ctx, notice(form, MetadataFailureNotice, defaultFailureNotice))
		retry, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: r.retryPrompt,
			Default: true,
		})
		if err != nil {
			return next, result, err
		}
		if !retry {
			return next, result, nil
		}
		current = next
	}
}

// promptField asks for one field. The driver repeats the question until the
// answer passes validation.Field, so the returned value is always valid.
func (r *Renderer) promptField(ctx context.Context, field model.Field, current any) (any, error) {
	label := displayLabel(field)
	help := displayHelp(field)
	widget := r.widgets.Resolve(field)

	switch widget {
	case widgets.WidgetConfirm:
		def, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: help})

	case widgets.WidgetNumber:
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: numberText(current),
			Help:    help,
			Validator: func(answer string) error {
				n, problem := parseNumber(field, answer)
				if problem != "" {
					return errors.New(problem)
				}
				return fieldError(field, n)
			},
		})
		if err != nil {
			return nil, err
		}
		n, _ := parseNumber(field, raw)
		return n, nil

	case widgets.WidgetList:
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: strings.Join(stringifySlice(current), ", "),
			Help:    help,
			Validator: func(answer string) error {
				return fieldError(field, splitList(answer))
			},
		})
		if err != nil {
			return nil, err
		}
		return splitList(raw), nil

	case widgets.WidgetSelect, widgets.WidgetMultiSelect:
		return r.askChoice(ctx, field, current, widget == widgets.WidgetMultiSelect, label, help)

	default:
		def, _ := current.(string)
		return r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   def,
			Help:      help,
			Secret:    widget == widgets.WidgetPassword,
			Multiline: widget == widgets.WidgetTextArea,
			Validator: func(answer string) error {
				return fieldError(field, answer)
			},
		})
	}
}

// askChoice offers the field's options. Optional single choices get a
// "(none)" entry that maps to the empty string.
func (r *Renderer) askChoice(ctx context.Context, field model.Field, current any, multiple bool, label, help string) (any, error) {
	values := stringifyEnum(widgets.Options(field))
	selected := indicesOf(values, stringifySlice(current))
	if !multiple {
		if !field.Required {
			values = append([]string{""}, values...)
		}
		def, _ := current.(string)
		selected = nil
		if idx := indexOf(values, def); idx >= 0 {
			selected = []int{idx}
		}
	}

	pick := func(indices []int) any {
		if multiple {
			out := make([]any, 0, len(indices))
			for _, idx := range indices {
				if idx >= 0 && idx < len(values) {
					out = append(out, values[idx])
				}
			}
			return out
		}
		if len(indices) == 0 || indices[0] < 0 || indices[0] >= len(values) {
			return nil
		}
		return values[indices[0]]
	}

	indices, err := r.driver.Select(ctx, SelectConfig{
		Message:  label,
		Options:  optionLabels(field, values),
		Selected: selected,
		Multiple: multiple,
		Help:     help,
		PageSize: 10,
		Validator: func(indices []int) error {
			return fieldError(field, pick(indices))
		},
	})
	if err != nil {
		return nil, err
	}
	return pick(indices), nil
}

func fieldError(field model.Field, value any) error {
	if problem := validation.Field(field, value); problem != "" {
		return errors.New(problem)
	}
	return nil
}

// parseNumber reads a numeric answer; blank means no value.
func parseNumber(field model.Field, raw string) (any, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Sprintf("%s must be a number", field.DisplayLabel())
	}
	return n, ""
}

func (r *Renderer) info(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) fail(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func notice(form model.FormModel, key, fallback string) string {
	if msg := form.Metadata[key]; msg != "" {
		return msg
	}
	return fallback
}

func displayLabel(field model.Field) string {
	label := field.DisplayLabel()
	if field.Required {
		return label + " *"
	}
	return label
}

func displayHelp(field model.Field) string {
	if h := field.Metadata["cli.help"]; h != "" {
		return h
	}
	if field.Description != "" {
		return field.Description
	}
	return field.Placeholder
}

// optionLabels maps option values to their "option.<value>" display labels.
func optionLabels(field model.Field, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch {
		case v == "":
			out[i] = noneOption
		case field.Metadata["option."+v] != "":
			out[i] = field.Metadata["option."+v]
		default:
			out[i] = v
		}
	}
	return out
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func indicesOf(options, values []string) []int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := seen[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

func stringifyEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func stringifySlice(value any) []string {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, v := range typed {
			out = append(out, fmt.Sprint(v))
		}
		return out
	default:
		return nil
	}
}

func splitList(raw string) []any {
	out := []any{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func numberText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
