package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/sqltable"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/tableclient"
)

// maxBody limits request bodies.
const maxBody = 4 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Err: err}
	}
	return nil
}

// statusFor maps an operation error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	var remoteErr *domain.RemoteCallError
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "task_not_found"
	case errors.Is(err, domain.ErrRowNotFound):
		return http.StatusNotFound, tableclient.CodeRowNotFound
	case errors.Is(err, sqltable.ErrSheetNotFound):
		return http.StatusNotFound, tableclient.CodeSheetNotFound
	case domain.IsCapacityRejected(err):
		return http.StatusConflict, "capacity_rejected"
	case errors.Is(err, domain.ErrAlreadyAssigned), errors.Is(err, domain.ErrNotAssigned):
		return http.StatusConflict, "slot_conflict"
	case errors.Is(err, domain.ErrConfirmRequired):
		return http.StatusConflict, "confirm_required"
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidDay),
		errors.Is(err, domain.ErrUnknownBlock),
		errors.Is(err, domain.ErrUnknownFormat),
		errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrNoTasksInFile):
		return http.StatusBadRequest, tableclient.CodeBadRequest
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable, "remote_unavailable"
	case errors.As(err, &remoteErr):
		return http.StatusBadGateway, "remote_call_failed"
	}
	return http.StatusInternalServerError, tableclient.CodeInternal
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("internal server error", "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, tableclient.ErrorBody{Error: msg, Code: code})
}
