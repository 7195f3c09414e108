package openapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formintake/pkg/intake"
	"github.com/goliatone/go-formintake/pkg/model"
)

// Version is the OpenAPI version emitted by Document.
const Version = "3.0.3"

const (
	succeededName = "SubmissionSucceeded"
	failedName    = "SubmissionFailed"
	invalidName   = "SubmissionInvalid"
)

// SubmissionPath returns the HTTP path accepting submissions for formID.
func SubmissionPath(formID string) string {
	return "/forms/" + formID + "/submissions"
}

// PayloadSchemaName returns the component name of a form's payload schema.
func PayloadSchemaName(formID string) string {
	return formID + "Payload"
}

// Document builds an OpenAPI document with one submission operation per form.
func Document(forms ...model.FormModel) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:   "Form intake",
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				succeededName: openapi3.NewSchemaRef("", succeededSchema()),
				failedName:    openapi3.NewSchemaRef("", failedSchema()),
				invalidName:   openapi3.NewSchemaRef("", invalidSchema()),
			},
		},
	}
	if len(forms) == 1 {
		doc.Info.Title = forms[0].Title
		doc.Info.Description = forms[0].Description
	}

	for _, form := range forms {
		name := PayloadSchemaName(form.ID)
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", PayloadSchema(form))
		doc.Paths.Set(SubmissionPath(form.ID), &openapi3.PathItem{
			Post: submitOperation(form, name, doc.Components.Schemas),
		})
	}
	return doc
}

// Validate checks doc against the OpenAPI 3 rules.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx,
		openapi3.DisableExamplesValidation(),
		openapi3.DisableSchemaDefaultsValidation(),
	); err != nil {
		return fmt.Errorf("openapi: validate: %w", err)
	}
	return nil
}

func submitOperation(form model.FormModel, payloadName string, schemas openapi3.Schemas) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "submit_" + form.ID
	op.Summary = "Submit " + form.Title
	op.Description = form.Description
	op.Tags = []string{form.ID}
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(componentRef(schemas, payloadName)),
	}

	responses := openapi3.NewResponsesWithCapacity(3)
	responses.Set(strconv.Itoa(http.StatusOK), jsonResponse("Submission delivered", componentRef(schemas, succeededName)))
	responses.Set(strconv.Itoa(http.StatusUnprocessableEntity), jsonResponse("Submission failed validation", componentRef(schemas, invalidName)))
	responses.Set(strconv.Itoa(http.StatusBadGateway), jsonResponse("Webhook could not be reached", componentRef(schemas, failedName)))
	op.Responses = responses
	return op
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	response := openapi3.NewResponse().WithDescription(description)
	response.Content = openapi3.NewContentWithJSONSchemaRef(schema)
	return &openapi3.ResponseRef{Value: response}
}

// componentRef points at a registered component, carrying its value so the
// document validates without a loader pass.
func componentRef(schemas openapi3.Schemas, name string) *openapi3.SchemaRef {
	var value *openapi3.Schema
	if ref := schemas[name]; ref != nil {
		value = ref.Value
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, value)
}

func succeededSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum(string(intake.StatusSucceeded))).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("values", openapi3.NewObjectSchema()).
		WithRequired([]string{"status", "values"})
}

func failedSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum(string(intake.StatusFailed))).
		WithProperty("reason", openapi3.NewStringSchema().WithEnum(intake.ReasonTransport)).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("values", openapi3.NewObjectSchema()).
		WithRequired([]string{"status", "reason", "values"})
}

func invalidSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("invalid")).
		WithProperty("errors", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewStringSchema())).
		WithRequired([]string{"status", "errors"})
}
