package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/core"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes one free-text answer. Secret hides the typed text and
// an empty secret answer keeps Default. Multiline opens an editor-style prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Secret    bool
	Multiline bool
	// Validator rejects an answer; the driver shows the error and asks again.
	Validator func(answer string) error
}

// SelectConfig describes a choice among Options. Selected holds the indices
// preselected; a single choice uses only the first one.
type SelectConfig struct {
	Message   string
	Options   []string
	Selected  []int
	Multiple  bool
	Help      string
	PageSize  int
	Validator func(indices []int) error
}

// ConfirmConfig describes a yes/no question.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// PromptDriver abstracts the terminal so sessions can be scripted in tests.
// Input and Select return only answers that passed cfg.Validator.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Select(ctx context.Context, cfg SelectConfig) ([]int, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

func newSurveyDriver(out io.Writer) PromptDriver {
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var prompt survey.Prompt
	switch {
	case cfg.Secret:
		prompt = &survey.Password{Message: cfg.Message, Help: cfg.Help}
	case cfg.Multiline:
		prompt = &survey.Multiline{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	default:
		prompt = &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	}

	keep := func(answer string) string {
		if cfg.Secret && answer == "" {
			return cfg.Default
		}
		return answer
	}

	var check survey.Validator
	if cfg.Validator != nil {
		check = func(ans any) error {
			s, _ := ans.(string)
			return cfg.Validator(keep(s))
		}
	}

	var answer string
	if err := d.ask(ctx, prompt, &answer, check); err != nil {
		return "", err
	}
	return keep(answer), nil
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) ([]int, error) {
	var check survey.Validator
	if cfg.Validator != nil {
		check = func(ans any) error {
			return cfg.Validator(answerIndices(ans))
		}
	}

	if cfg.Multiple {
		prompt := &survey.MultiSelect{
			Message:  cfg.Message,
			Options:  cfg.Options,
			Help:     cfg.Help,
			PageSize: cfg.PageSize,
			Default:  optionsAt(cfg.Options, cfg.Selected),
		}
		var picked []int
		if err := d.ask(ctx, prompt, &picked, check); err != nil {
			return nil, err
		}
		return picked, nil
	}

	prompt := &survey.Select{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: cfg.PageSize,
	}
	if defaults := optionsAt(cfg.Options, cfg.Selected); len(defaults) > 0 {
		prompt.Default = defaults[0]
	}
	var picked int
	if err := d.ask(ctx, prompt, &picked, check); err != nil {
		return nil, err
	}
	return []int{picked}, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	if err := d.ask(ctx, prompt, &answer, nil); err != nil {
		return false, err
	}
	return answer, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, answer any, check survey.Validator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var opts []survey.AskOpt
	if check != nil {
		opts = append(opts, survey.WithValidator(check))
	}
	if err := survey.AskOne(prompt, answer, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// answerIndices reads the raw answer survey hands to validators for select
// prompts.
func answerIndices(ans any) []int {
	switch v := ans.(type) {
	case core.OptionAnswer:
		return []int{v.Index}
	case []core.OptionAnswer:
		out := make([]int, 0, len(v))
		for _, option := range v {
			out = append(out, option.Index)
		}
		return out
	default:
		return nil
	}
}

func optionsAt(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
