package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formintake/pkg/forms"
	"github.com/goliatone/go-formintake/pkg/intake"
	"github.com/goliatone/go-formintake/pkg/model"
	"github.com/goliatone/go-formintake/pkg/openapi"
	"github.com/goliatone/go-formintake/pkg/validation"
)

const (
	defaultSuccessMessage = "Submission delivered."
	defaultFailureMessage = "Failed to trigger workflow. Please try again."
)

type formSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type formResponse struct {
	Form     model.FormModel `json:"form"`
	Defaults map[string]any  `json:"defaults"`
}

type validateResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

type submitResponse struct {
	Status  intake.Status     `json:"status"`
	Reason  string            `json:"reason,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Values  map[string]any    `json:"values,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListForms(w http.ResponseWriter, _ *http.Request) {
	ids := s.registry.List()
	out := make([]formSummary, 0, len(ids))
	for _, id := range ids {
		form, err := s.registry.Get(id)
		if err != nil {
			continue
		}
		out = append(out, formSummary{ID: form.ID, Title: form.Title})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, formResponse{Form: form, Defaults: form.Defaults()})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, openapi.Document(form))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookup(w, r)
	if !ok {
		return
	}
	state, ok := s.decodeState(w, r, form)
	if !ok {
		return
	}
	result := validation.Validate(form, state.Values)
	errs := result.Errors
	if errs == nil {
		errs = map[string]string{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: result.Valid, Errors: errs})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookup(w, r)
	if !ok {
		return
	}
	state, ok := s.decodeState(w, r, form)
	if !ok {
		return
	}

	next, result, err := s.pipeline.Attempt(r.Context(), state)
	var invalid *intake.ValidationError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, submitResponse{
			Status: "invalid",
			Errors: invalid.Fields,
		})
		return
	case err != nil:
		s.logger.Error("submission attempt failed", slog.String("form_id", form.ID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if result.Success {
		writeJSON(w, http.StatusOK, submitResponse{
			Status:  intake.StatusSucceeded,
			Message: notice(form, "notice.success", defaultSuccessMessage),
			Values:  next.Values,
		})
		return
	}
	writeJSON(w, http.StatusBadGateway, submitResponse{
		Status:  intake.StatusFailed,
		Reason:  result.Reason,
		Message: notice(form, "notice.failure", defaultFailureMessage),
		Values:  next.Values,
	})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (model.FormModel, bool) {
	form, err := s.registry.Get(chi.URLParam(r, "formID"))
	if err != nil {
		if errors.Is(err, forms.ErrUnknownForm) {
			writeError(w, http.StatusNotFound, "unknown form")
			return model.FormModel{}, false
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return model.FormModel{}, false
	}
	return form, true
}

// decodeState reads a JSON object of field values into a fresh form state.
func (s *Server) decodeState(w http.ResponseWriter, r *http.Request, form model.FormModel) (intake.State, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var values map[string]any
	err := dec.Decode(&values)
	if err == nil {
		// The body must hold exactly one JSON value.
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = extra
			if err == nil {
				err = errors.New("trailing data after JSON body")
			}
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return intake.State{}, false
		}
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return intake.State{}, false
	}

	state, err := intake.NewState(form).SetAll(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return intake.State{}, false
	}
	return state, true
}

func notice(form model.FormModel, key, fallback string) string {
	if msg := form.Metadata[key]; msg != "" {
		return msg
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
