package forms

import (
	"strconv"

	"github.com/goliatone/go-formintake/pkg/model"
)

// AgentFormID identifies the agent configuration form.
const AgentFormID = "agent"

// Agent returns the agent configuration form. Only the name and the agent type
// are mandatory; modules is a multi-select over the pre-built module catalog.
func Agent() model.FormModel {
	return model.FormModel{
		ID:          AgentFormID,
		Title:       "Create New Agent",
		Description: "Set up a new AI agent with custom configuration",
		Endpoint:    AgentFormID,
		Method:      "POST",
		Fields: []model.Field{
			{
				Name:        "name",
				Type:        model.FieldTypeString,
				Label:       "Agent Name",
				Placeholder: "e.g., Sales Outreach Bot",
				Required:    true,
				Default:     "",
				Metadata:    map[string]string{model.MetadataRequiredMessage: "Agent name is required"},
			},
			{
				Name:        "description",
				Type:        model.FieldTypeString,
				Format:      model.FormatTextArea,
				Label:       "Description",
				Placeholder: "Describe what this agent will do...",
				Default:     "",
			},
			{
				Name:     "type",
				Type:     model.FieldTypeString,
				Label:    "Agent Type",
				Required: true,
				Enum:     []any{"sales", "support", "analytics", "marketing", "lead-gen"},
				Default:  "",
				Metadata: map[string]string{
					model.MetadataRequiredMessage: "Agent type is required",
					"option.sales":                "Sales Agent",
					"option.support":              "Customer Support",
					"option.analytics":            "Data Analytics",
					"option.marketing":            "Marketing Automation",
					"option.lead-gen":             "Lead Generation",
				},
			},
			{
				Name:    "database",
				Type:    model.FieldTypeString,
				Label:   "Database Connection",
				Enum:    []any{"crm", "leads", "customers", "analytics"},
				Default: "",
				Metadata: map[string]string{
					"option.crm":       "CRM Database",
					"option.leads":     "Leads Database",
					"option.customers": "Customer Database",
					"option.analytics": "Analytics Database",
				},
			},
			{
				Name:        "apiKey",
				Type:        model.FieldTypeString,
				Format:      model.FormatPassword,
				Label:       "API Key / Authentication",
				Placeholder: "Enter API key or authentication token",
				Default:     "",
			},
			{
				Name:  "modules",
				Type:  model.FieldTypeArray,
				Label: "Attach Existing Modules",
				Items: &model.Field{
					Name: "module",
					Type: model.FieldTypeString,
					Enum: []any{"guardrails", "rag", "evaluation", "email-validator", "sentiment", "scheduler"},
				},
				Default: []any{},
				Metadata: map[string]string{
					"option.guardrails":      "Guardrails",
					"option.rag":             "RAG Chatbot",
					"option.evaluation":      "Evaluation Agent",
					"option.email-validator": "Email Validator",
					"option.sentiment":       "Sentiment Analysis",
					"option.scheduler":       "Task Scheduler",
				},
			},
		},
		Metadata: map[string]string{
			"notice.success": "Agent created successfully!",
			"notice.failure": "Failed to create agent. Please try again.",
		},
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
