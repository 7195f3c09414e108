package validation_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formintake/pkg/forms"
	"github.com/goliatone/go-formintake/pkg/model"
	"github.com/goliatone/go-formintake/pkg/validation"
)

func validICP() map[string]any {
	return map[string]any{
		"industry":          "IT",
		"companySize":       "50-500",
		"annualRevenue":     "1000000",
		"currency":          "USD",
		"location":          "SF",
		"projectMaturity":   "Medium",
		"painPoints":        "Manual reporting is slow and error-prone",
		"decisionMakers":    "Jane Doe, VP Eng",
		"adoptionReadiness": 70,
		"valueProposition":  "Automates reporting end to end",
		"companyOverview":   "Mid-size SaaS company in logistics",
	}
}

func TestValidate_ICPScenarioIsValid(t *testing.T) {
	result := validation.Validate(forms.ICP(), validICP())
	if !result.Valid {
		t.Fatalf("expected valid, got errors %v", result.Errors)
	}
	if result.Errors != nil {
		t.Fatalf("expected nil errors, got %v", result.Errors)
	}
}

func TestValidate_EmptyRequiredFieldsAreAllFlagged(t *testing.T) {
	values := validICP()
	for _, name := range []string{
		"industry", "companySize", "annualRevenue", "currency", "location",
		"projectMaturity", "painPoints", "decisionMakers", "valueProposition", "companyOverview",
	} {
		values[name] = ""
	}

	result := validation.Validate(forms.ICP(), values)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}

	want := map[string]string{
		"industry":         "Industry is required",
		"companySize":      "Company size is required",
		"annualRevenue":    "Annual revenue is required",
		"currency":         "Currency is required",
		"location":         "Location is required",
		"projectMaturity":  "Project management maturity is required",
		"painPoints":       "Please describe pain points (minimum 10 characters)",
		"decisionMakers":   "Please list decision makers",
		"valueProposition": "Please describe value proposition (minimum 10 characters)",
		"companyOverview":  "Please provide company overview (minimum 10 characters)",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_DefaultsAreInvalid(t *testing.T) {
	result := validation.Validate(forms.ICP(), forms.ICP().Defaults())
	if result.Valid {
		t.Fatalf("expected defaults to fail validation")
	}
	if _, flagged := result.Errors["currency"]; flagged {
		t.Fatalf("currency default USD should pass")
	}
	if _, flagged := result.Errors["adoptionReadiness"]; flagged {
		t.Fatalf("adoption readiness default should pass")
	}
}

func TestValidate_AdoptionReadinessBounds(t *testing.T) {
	cases := []struct {
		value   any
		flagged bool
	}{
		{value: -1, flagged: true},
		{value: -0.5, flagged: true},
		{value: 0, flagged: false},
		{value: 100, flagged: false},
		{value: 100.01, flagged: true},
		{value: int64(250), flagged: true},
		{value: json.Number("55"), flagged: false},
		{value: "70", flagged: true},
		{value: nil, flagged: true},
	}
	for _, tc := range cases {
		values := validICP()
		values["adoptionReadiness"] = tc.value
		result := validation.Validate(forms.ICP(), values)
		_, flagged := result.Errors["adoptionReadiness"]
		if flagged != tc.flagged {
			t.Fatalf("value %#v: flagged=%v want %v (errors %v)", tc.value, flagged, tc.flagged, result.Errors)
		}
		if len(result.Errors) > 1 {
			t.Fatalf("value %#v: only adoptionReadiness should fail, got %v", tc.value, result.Errors)
		}
	}

	values := validICP()
	values["adoptionReadiness"] = 101
	if got := validation.Validate(forms.ICP(), values).Errors["adoptionReadiness"]; got != "Adoption readiness must be between 0 and 100" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestValidate_MinLengthAndEnum(t *testing.T) {
	values := validICP()
	values["painPoints"] = "too short"
	values["decisionMakers"] = "Jane"
	values["industry"] = "Aerospace"
	values["location"] = "   "

	result := validation.Validate(forms.ICP(), values)
	want := map[string]string{
		"painPoints":     "Please describe pain points (minimum 10 characters)",
		"decisionMakers": "Please list decision makers",
		"industry":       `Industry has an unknown option "Aerospace"`,
		"location":       "Location is required",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_DoesNotMutateValues(t *testing.T) {
	values := validICP()
	values["extra"] = "kept"
	before := model.CloneValues(values)
	validation.Validate(forms.ICP(), values)
	if diff := cmp.Diff(before, values); diff != "" {
		t.Fatalf("values mutated (-want +got):\n%s", diff)
	}
}

func TestValidate_AgentForm(t *testing.T) {
	form := forms.Agent()

	result := validation.Validate(form, form.Defaults())
	want := map[string]string{
		"name": "Agent name is required",
		"type": "Agent type is required",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	ok := validation.Validate(form, map[string]any{
		"name":    "Sales Outreach Bot",
		"type":    "sales",
		"modules": []any{"rag", "guardrails"},
	})
	if !ok.Valid {
		t.Fatalf("expected valid agent, got %v", ok.Errors)
	}

	bad := validation.Validate(form, map[string]any{
		"name":    "Bot",
		"type":    "sales",
		"modules": []string{"rag", "teleport"},
	})
	if got := bad.Errors["modules"]; got != `Attach Existing Modules has an unknown option "teleport"` {
		t.Fatalf("unexpected modules error %q", got)
	}

	blank := validation.Validate(form, map[string]any{
		"name":        "Bot",
		"type":        "sales",
		"database":    "  ",
		"description": "  ",
	})
	want = map[string]string{"database": `Database Connection has an unknown option "  "`}
	if diff := cmp.Diff(want, blank.Errors); diff != "" {
		t.Fatalf("whitespace errors mismatch (-want +got):\n%s", diff)
	}
}

func TestField_GenericMessages(t *testing.T) {
	cases := []struct {
		name  string
		field model.Field
		value any
		want  string
	}{
		{
			name:  "integer rejects fractions",
			field: model.Field{Name: "count", Type: model.FieldTypeInteger},
			value: 1.5,
			want:  "count must be a whole number",
		},
		{
			name: "max length",
			field: model.Field{Name: "code", Label: "Code", Type: model.FieldTypeString, Validations: []model.ValidationRule{
				{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "3"}},
			}},
			value: "ABCD",
			want:  "Code must be at most 3 characters",
		},
		{
			name: "pattern",
			field: model.Field{Name: "zip", Type: model.FieldTypeString, Validations: []model.ValidationRule{
				{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": `^\d{5}$`}},
			}},
			value: "12a45",
			want:  "zip does not match the required pattern",
		},
		{
			name:  "optional empty string passes",
			field: model.Field{Name: "note", Type: model.FieldTypeString, Validations: []model.ValidationRule{{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "5"}}}},
			value: "",
			want:  "",
		},
		{
			name:  "wrong type",
			field: model.Field{Name: "title", Label: "Title", Type: model.FieldTypeString},
			value: 12,
			want:  "Title must be text",
		},
		{
			name:  "multibyte length counts runes",
			field: model.Field{Name: "city", Type: model.FieldTypeString, Validations: []model.ValidationRule{{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "5"}}}},
			value: "Zürich",
			want:  "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validation.Field(tc.field, tc.value); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
