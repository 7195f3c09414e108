package forms

import "github.com/goliatone/go-formintake/pkg/model"

// ICPFormID identifies the Ideal Customer Profile intake form.
const ICPFormID = "icp"

// ICP returns the Ideal Customer Profile form. Every field is required; the
// adoption readiness score is bounded to [0, 100].
func ICP() model.FormModel {
	return model.FormModel{
		ID:          ICPFormID,
		Title:       "ICP Criteria",
		Description: "Define your Ideal Customer Profile to trigger automated data scraping and enrichment",
		Endpoint:    ICPFormID,
		Method:      "POST",
		Fields: []model.Field{
			{
				Name:        "industry",
				Type:        model.FieldTypeString,
				Label:       "Industry",
				Placeholder: "Select industry",
				Required:    true,
				Enum:        []any{"IT", "Healthcare", "Manufacturing", "Finance", "Retail", "Education", "Other"},
				Default:     "",
			},
			{
				Name:        "companySize",
				Type:        model.FieldTypeString,
				Label:       "Company Size (Employees)",
				Placeholder: "e.g., 50-500",
				Required:    true,
				Default:     "",
				Validations: []model.ValidationRule{minLength(1, "Company size is required")},
			},
			{
				Name:        "annualRevenue",
				Type:        model.FieldTypeString,
				Label:       "Annual Revenue",
				Placeholder: "e.g., 1000000",
				Required:    true,
				Default:     "",
				Validations: []model.ValidationRule{minLength(1, "Annual revenue is required")},
			},
			{
				Name:     "currency",
				Type:     model.FieldTypeString,
				Label:    "Currency",
				Required: true,
				Enum:     []any{"USD", "INR", "EUR", "GBP"},
				Default:  "USD",
			},
			{
				Name:        "location",
				Type:        model.FieldTypeString,
				Label:       "Location",
				Placeholder: "e.g., San Francisco, CA",
				Required:    true,
				Default:     "",
				Validations: []model.ValidationRule{minLength(1, "Location is required")},
			},
			{
				Name:        "projectMaturity",
				Type:        model.FieldTypeString,
				Label:       "Project Management Maturity",
				Placeholder: "Select maturity level",
				Description: "Current level of project management processes",
				Required:    true,
				Enum:        []any{"Low", "Medium", "High"},
				Default:     "",
				Metadata: map[string]string{
					model.MetadataRequiredMessage: "Project management maturity is required",
				},
			},
			{
				Name:        "painPoints",
				Type:        model.FieldTypeString,
				Format:      model.FormatTextArea,
				Label:       "Pain Points",
				Placeholder: "Describe the key business challenges and pain points...",
				Required:    true,
				Default:     "",
				Validations: []model.ValidationRule{minLength(10, "Please describe pain points (minimum 10 characters)")},
			},
			{
				Name:        "decisionMakers",
				Type:        model.FieldTypeString,
				Format:      model.FormatTextArea,
				Label:       "Decision Makers",
				Placeholder: "List key decision makers (Name, Role, LinkedIn URL)",
				Description: "Enter one per line or separated by commas",
				Required:    true,
				Default:     "",
				Validations: []model.ValidationRule{minLength(5, "Please list decision makers")},
			},
			{
				Name:        "adoptionReadiness",
				Type:        model.FieldTypeNumber,
				Label:       "Adoption Readiness",
				Description: "Likelihood of adopting new solutions (0-100)",
				Required:    true,
				Default:     50,
				Validations: []model.ValidationRule{
					bound(model.ValidationRuleMin, "0", adoptionReadinessMessage),
					bound(model.ValidationRuleMax, "100", adoptionReadinessMessage),
				},
				Metadata: map[string]string{"ui.step": "10"},
			},
			{
				Name:        "valueProposition",
				Type:        model.FieldTypeString,
				Format:      model.FormatTextArea,
				Label:       "Value Proposition (Services and Products)",
				Placeholder: "Describe the services and products that address their needs...",
				Required:    true,
				Default:     "",
				Validations: []model.ValidationRule{minLength(10, "Please describe value proposition (minimum 10 characters)")},
			},
			{
				Name:        "companyOverview",
				Type:        model.FieldTypeString,
				Format:      model.FormatTextArea,
				Label:       "Customer Company Overview",
				Placeholder: "Provide a comprehensive overview of the target company...",
				Required:    true,
				Default:     "",
				Validations: []model.ValidationRule{minLength(10, "Please provide company overview (minimum 10 characters)")},
			},
		},
		Metadata: map[string]string{
			"notice.success": "ICP Analysis Workflow Triggered Successfully!",
			"notice.failure": "Failed to trigger ICP workflow. Please try again.",
		},
	}
}

const adoptionReadinessMessage = "Adoption readiness must be between 0 and 100"

func minLength(n int, message string) model.ValidationRule {
	return model.ValidationRule{
		Kind: model.ValidationRuleMinLength,
		Params: map[string]string{
			"value":   itoa(n),
			"message": message,
		},
	}
}

func bound(kind, value, message string) model.ValidationRule {
	return model.ValidationRule{
		Kind: kind,
		Params: map[string]string{
			"value":   value,
			"message": message,
		},
	}
}
