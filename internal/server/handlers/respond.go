package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/eventz/internal/validation"
	"github.com/iudanet/eventz/pkg/api"
)

// WriteJSON пишет JSON ответ с указанным статусом
func WriteJSON(w http.ResponseWriter, data any, statusCode int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError пишет ошибку в едином формате
func WriteError(w http.ResponseWriter, statusCode int, resp api.ErrorResponse) {
	_ = WriteJSON(w, resp, statusCode)
}

// responder общие методы ответа для всех handlers
type responder struct {
	logger *slog.Logger
}

// sendJSON отправляет JSON ответ
func (h responder) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	if err := WriteJSON(w, data, statusCode); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// sendError отправляет ошибку указанного типа
func (h responder) sendError(w http.ResponseWriter, statusCode int, kind api.Kind, message string) {
	WriteError(w, statusCode, api.ErrorResponse{Kind: kind, Message: message})
}

// sendValidation отправляет 400 с ошибками по полям
func (h responder) sendValidation(w http.ResponseWriter, fields validation.FieldErrors) {
	WriteError(w, http.StatusBadRequest, api.ErrorResponse{
		Kind:    api.KindValidation,
		Message: "validation failed",
		Fields:  fields,
	})
}

// sendInternal отправляет 500 без деталей
func (h responder) sendInternal(w http.ResponseWriter) {
	h.sendError(w, http.StatusInternalServerError, api.KindServerError, "internal server error")
}

// decode разбирает JSON тело запроса; при ошибке отвечает 400
func (h responder) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request body", slog.Any("error", err))
		h.sendError(w, http.StatusBadRequest, api.KindValidation, "invalid request body")
		return false
	}
	return true
}
