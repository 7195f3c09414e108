package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formintake/pkg/forms"
	"github.com/goliatone/go-formintake/pkg/intake"
	"github.com/goliatone/go-formintake/pkg/model"
	"github.com/goliatone/go-formintake/pkg/webhook"
	"github.com/goliatone/go-formintake/pkg/widgets"
)

// stubDriver replays scripted answers. Like survey, it asks again while the
// validator rejects an answer and records each rejection.
type stubDriver struct {
	inputs       []string
	passwords    []string
	textAreas    []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	infoMessages []string
	rejected     []string
	asked        map[string]int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	queue, kind := &s.inputs, "input"
	switch {
	case cfg.Secret:
		queue, kind = &s.passwords, "password"
	case cfg.Multiline:
		queue, kind = &s.textAreas, "textarea"
	}
	for {
		if len(*queue) == 0 {
			return "", fmt.Errorf("no %s scripted for %q", kind, cfg.Message)
		}
		answer := (*queue)[0]
		*queue = (*queue)[1:]
		s.count(kind)
		if cfg.Secret && answer == "" {
			answer = cfg.Default
		}
		if s.accept(cfg.Validator == nil, func() error { return cfg.Validator(answer) }) {
			return answer, nil
		}
	}
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) ([]int, error) {
	for {
		var picked []int
		if cfg.Multiple {
			if len(s.multiIdx) == 0 {
				return nil, fmt.Errorf("no multiselect scripted for %q", cfg.Message)
			}
			picked = s.multiIdx[0]
			s.multiIdx = s.multiIdx[1:]
			s.count("multiselect")
		} else {
			if len(s.selectIdx) == 0 {
				return nil, fmt.Errorf("no select scripted for %q", cfg.Message)
			}
			picked = []int{s.selectIdx[0]}
			s.selectIdx = s.selectIdx[1:]
			s.count("select")
		}
		if s.accept(cfg.Validator == nil, func() error { return cfg.Validator(picked) }) {
			return picked, nil
		}
	}
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if len(s.confirm) == 0 {
		return false, fmt.Errorf("no confirm scripted for %q", cfg.Message)
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	s.count("confirm")
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) accept(skip bool, check func() error) bool {
	if skip {
		return true
	}
	if err := check(); err != nil {
		s.rejected = append(s.rejected, err.Error())
		return false
	}
	return true
}

func (s *stubDriver) count(kind string) {
	if s.asked == nil {
		s.asked = map[string]int{}
	}
	s.asked[kind]++
}

type scriptedTransport struct {
	errs  []error
	calls int
}

func (s *scriptedTransport) Deliver(_ context.Context, _ webhook.Delivery) error {
	s.calls++
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func newTestRenderer(t *testing.T, driver *stubDriver) *Renderer {
	t.Helper()
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func containsMessage(messages []string, want string) bool {
	for _, msg := range messages {
		if msg == want {
			return true
		}
	}
	return false
}

func TestCollect_RepromptsUntilValid(t *testing.T) {
	driver := &stubDriver{inputs: []string{"ab", "abc"}}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:     "title",
				Type:     model.FieldTypeString,
				Label:    "Title",
				Required: true,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "3", "message": "Title too short"}},
				},
			},
		},
	}

	values, err := r.Collect(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values["title"] != "abc" {
		t.Fatalf("unexpected value %v", values["title"])
	}
	if diff := cmp.Diff([]string{"Title too short"}, driver.rejected); diff != "" {
		t.Fatalf("rejections mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_NumberAndEnum(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"abc", "150", "70"},
		selectIdx: []int{1, 0},
	}
	r := newTestRenderer(t, driver)

	bound := map[string]string{"message": "Score must be between 0 and 100"}
	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:     "score",
				Type:     model.FieldTypeNumber,
				Label:    "Score",
				Required: true,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0", "message": bound["message"]}},
					{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "100", "message": bound["message"]}},
				},
			},
			{
				Name:     "status",
				Type:     model.FieldTypeString,
				Required: true,
				Enum:     []any{"draft", "published"},
			},
			{
				Name: "channel",
				Type: model.FieldTypeString,
				Enum: []any{"email", "sms"},
			},
		},
	}

	values, err := r.Collect(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := map[string]any{"score": float64(70), "status": "published", "channel": ""}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantRejected := []string{"Score must be a number", "Score must be between 0 and 100"}
	if diff := cmp.Diff(wantRejected, driver.rejected); diff != "" {
		t.Fatalf("rejections mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_AgentForm(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Sales Outreach Bot"},
		textAreas: []string{"Books meetings"},
		selectIdx: []int{0, 2},
		passwords: []string{"secret"},
		multiIdx:  [][]int{{0, 1}},
	}
	r := newTestRenderer(t, driver)

	values, err := r.Collect(context.Background(), forms.Agent(), forms.Agent().Defaults())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := map[string]any{
		"name":        "Sales Outreach Bot",
		"description": "Books meetings",
		"type":        "sales",
		"database":    "leads",
		"apiKey":      "secret",
		"modules":     []any{"guardrails", "rag"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantAsked := map[string]int{"input": 1, "textarea": 1, "select": 2, "password": 1, "multiselect": 1}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}

// icpDriver scripts one pass through the ICP form.
func icpDriver(confirm ...bool) *stubDriver {
	return &stubDriver{
		inputs:    []string{"50-500", "1000000", "SF", "70"},
		selectIdx: []int{0, 0, 1},
		textAreas: []string{
			"Manual reporting is slow and error-prone",
			"Jane Doe, VP Eng",
			"Automates reporting end to end",
			"Mid-size SaaS company in logistics",
		},
		confirm: confirm,
	}
}

func newICPPipeline(transport intake.Transport) *intake.Pipeline {
	return intake.NewPipeline(transport, intake.WithEndpoints(map[string]string{
		forms.ICPFormID: "https://hooks.example.com/icp",
	}))
}

func TestRun_SuccessResetsForm(t *testing.T) {
	driver := icpDriver()
	transport := &scriptedTransport{}
	r := newTestRenderer(t, driver)

	state, result, err := r.Run(context.Background(), newICPPipeline(transport), intake.NewState(forms.ICP()))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Success || state.Status != intake.StatusSucceeded {
		t.Fatalf("expected success, got %+v %s", result, state.Status)
	}
	if diff := cmp.Diff(forms.ICP().Defaults(), state.Values); diff != "" {
		t.Fatalf("values not reset (-want +got):\n%s", diff)
	}
	if transport.calls != 1 {
		t.Fatalf("expected one delivery, got %d", transport.calls)
	}
	if !containsMessage(driver.infoMessages, "ICP Analysis Workflow Triggered Successfully!") {
		t.Fatalf("expected success notice, got %v", driver.infoMessages)
	}
}

func TestRun_RetryAfterFailure(t *testing.T) {
	driver := icpDriver(true)
	transport := &scriptedTransport{errs: []error{&webhook.TransportError{StatusCode: 503}}}
	r := newTestRenderer(t, driver)

	state, result, err := r.Run(context.Background(), newICPPipeline(transport), intake.NewState(forms.ICP()))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Success || state.Status != intake.StatusSucceeded {
		t.Fatalf("expected success after retry, got %+v %s", result, state.Status)
	}
	if transport.calls != 2 {
		t.Fatalf("expected two deliveries, got %d", transport.calls)
	}
	if !containsMessage(driver.infoMessages, "! Failed to trigger ICP workflow. Please try again.") {
		t.Fatalf("expected failure notice, got %v", driver.infoMessages)
	}
}

func TestRun_DeclinedRetryKeepsValues(t *testing.T) {
	driver := icpDriver(false)
	transport := &scriptedTransport{errs: []error{errors.New("connection refused")}}
	r := newTestRenderer(t, driver)

	state, result, err := r.Run(context.Background(), newICPPipeline(transport), intake.NewState(forms.ICP()))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Success || result.Reason != intake.ReasonTransport {
		t.Fatalf("expected transport failure, got %+v", result)
	}
	if state.Status != intake.StatusFailed {
		t.Fatalf("expected failed status, got %s", state.Status)
	}
	if state.Values["location"] != "SF" || state.Values["adoptionReadiness"] != float64(70) {
		t.Fatalf("expected retained values, got %v", state.Values)
	}
}

func TestRun_RequiresPipeline(t *testing.T) {
	r := newTestRenderer(t, &stubDriver{})
	if _, _, err := r.Run(context.Background(), nil, intake.NewState(forms.ICP())); !errors.Is(err, ErrNoPipeline) {
		t.Fatalf("expected ErrNoPipeline, got %v", err)
	}
}

func TestCollect_WidgetRegistryDecidesPrompt(t *testing.T) {
	driver := &stubDriver{inputs: []string{"alpha, beta", "plain text"}}
	reg := widgets.NewRegistry()
	r, err := New(WithPromptDriver(driver), WithWidgets(reg))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := model.FormModel{
		Fields: []model.Field{
			{Name: "tags", Type: model.FieldTypeArray, Items: &model.Field{Type: model.FieldTypeString}},
			{
				Name:     "notes",
				Type:     model.FieldTypeString,
				Format:   model.FormatTextArea,
				Metadata: map[string]string{widgets.MetadataWidget: widgets.WidgetInput},
			},
		},
	}

	values, err := r.Collect(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := map[string]any{"tags": []any{"alpha", "beta"}, "notes": "plain text"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if driver.asked["textarea"] != 0 {
		t.Fatalf("explicit widget should bypass the textarea prompt")
	}
}

func TestCollect_RequiredChoicesAndSecrets(t *testing.T) {
	driver := &stubDriver{
		multiIdx:  [][]int{{}, {1}},
		passwords: []string{""},
	}
	r := newTestRenderer(t, driver)

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name:     "channels",
				Type:     model.FieldTypeArray,
				Label:    "Channels",
				Required: true,
				Items:    &model.Field{Type: model.FieldTypeString, Enum: []any{"email", "sms"}},
			},
			{Name: "token", Type: model.FieldTypeString, Format: model.FormatPassword},
		},
	}

	values, err := r.Collect(context.Background(), form, map[string]any{"token": "kept"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := map[string]any{"channels": []any{"sms"}, "token": "kept"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.rejected) != 1 {
		t.Fatalf("expected the empty selection to be rejected once, got %v", driver.rejected)
	}
}
