package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/storage"
	"github.com/iudanet/eventz/internal/validation"
	"github.com/iudanet/eventz/pkg/api"
)

// EventHandler обрабатывает CRUD запросы мероприятий
type EventHandler struct {
	responder
	events storage.EventStorage
	now    func() time.Time
}

// NewEventHandler создает handler мероприятий
func NewEventHandler(logger *slog.Logger, events storage.EventStorage) *EventHandler {
	return &EventHandler{
		responder: responder{logger: logger},
		events:    events,
		now:       time.Now,
	}
}

// Create обрабатывает POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, http.StatusUnauthorized, api.KindUnauthenticated, "authentication required")
		return
	}

	var req api.EventRequest
	if !h.decode(w, r, &req) {
		return
	}

	data, err := validation.ValidateEvent(toEventInput(req), h.now(), true)
	if err != nil {
		h.handleValidation(ctx, w, err)
		return
	}

	event := &models.Event{
		UserID:      userID,
		Title:       data.Title,
		Description: data.Description,
		Location:    data.Location,
		StartDate:   data.StartDate,
		EndDate:     data.EndDate,
		Status:      data.Status,
	}

	if err := h.events.CreateEvent(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to create event", slog.Any("error", err))
		h.sendInternal(w)
		return
	}

	h.logger.InfoContext(ctx, "event created",
		slog.String("event_id", event.ID),
		slog.String("user_id", userID))

	h.sendJSON(w, api.EventResponse{Message: "Event created successfully", Event: toAPIEvent(event)}, http.StatusCreated)
}

// ListMine обрабатывает GET /api/events
func (h *EventHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, api.KindUnauthenticated, "authentication required")
		return
	}
	h.list(w, r, userID)
}

// ListByUser обрабатывает GET /api/events/user/{userID}.
// Чужой список запрещен.
func (h *EventHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, api.KindUnauthenticated, "authentication required")
		return
	}

	if chi.URLParam(r, "userID") != userID {
		h.sendError(w, http.StatusForbidden, api.KindForbidden, "Unauthorized")
		return
	}
	h.list(w, r, userID)
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()

	events, err := h.events.ListEventsByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list events", slog.Any("error", err))
		h.sendInternal(w)
		return
	}

	resp := api.EventsResponse{Events: make([]api.Event, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, toAPIEvent(e))
	}
	h.sendJSON(w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}
	h.sendJSON(w, api.EventResponse{Event: toAPIEvent(event)}, http.StatusOK)
}

// Update обрабатывает PUT /api/events/{id}.
// Проверка "начало не в прошлом" при изменении не выполняется.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.EventRequest
	if !h.decode(w, r, &req) {
		return
	}

	data, err := validation.ValidateEvent(toEventInput(req), h.now(), false)
	if err != nil {
		h.handleValidation(ctx, w, err)
		return
	}

	event, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	event.Title = data.Title
	event.Description = data.Description
	event.Location = data.Location
	event.StartDate = data.StartDate
	event.EndDate = data.EndDate
	if data.Status != "" {
		event.Status = data.Status
	}

	updated, err := h.events.UpdateEvent(ctx, event)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			h.sendError(w, http.StatusNotFound, api.KindNotFound, "Event not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to update event", slog.Any("error", err))
		h.sendInternal(w)
		return
	}

	h.sendJSON(w, api.EventResponse{Message: "Event updated successfully", Event: toAPIEvent(updated)}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/events/{id}. Гости удаляются вместе с мероприятием.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	event, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	deleted, err := h.events.DeleteEvent(ctx, event.ID)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			h.sendError(w, http.StatusNotFound, api.KindNotFound, "Event not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete event", slog.Any("error", err))
		h.sendInternal(w)
		return
	}

	h.logger.InfoContext(ctx, "event deleted", slog.String("event_id", deleted.ID))
	h.sendJSON(w, api.EventResponse{Message: "Event deleted successfully", Event: toAPIEvent(deleted)}, http.StatusOK)
}

// ownedEvent загружает мероприятие из пути и проверяет владельца.
// При ошибке ответ уже отправлен.
func (h *EventHandler) ownedEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	ctx := r.Context()
	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, http.StatusUnauthorized, api.KindUnauthenticated, "authentication required")
		return nil, false
	}

	event, err := loadOwnedEvent(ctx, h.events, chi.URLParam(r, "id"), userID)
	if err != nil {
		h.sendOwnershipError(ctx, w, err, "Event not found")
		return nil, false
	}
	return event, true
}

func (h *EventHandler) handleValidation(ctx context.Context, w http.ResponseWriter, err error) {
	if fields, ok := validation.AsFieldErrors(err); ok {
		h.sendValidation(w, fields)
		return
	}
	h.logger.ErrorContext(ctx, "event validation failed", slog.Any("error", err))
	h.sendInternal(w)
}

// loadOwnedEvent возвращает мероприятие, если оно существует и принадлежит userID
func loadOwnedEvent(ctx context.Context, events storage.EventStorage, eventID, userID string) (*models.Event, error) {
	event, err := events.GetEvent(ctx, eventID)
	if err != nil && !errors.Is(err, storage.ErrEventNotFound) {
		return nil, err
	}

	var owner string
	if event != nil {
		owner = event.UserID
	}
	if err := CheckOwnership(event != nil, owner, userID); err != nil {
		return nil, err
	}
	return event, nil
}

// sendOwnershipError отвечает 404, 403 или 500
func (h responder) sendOwnershipError(ctx context.Context, w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		h.sendError(w, http.StatusNotFound, api.KindNotFound, notFoundMsg)
	case errors.Is(err, ErrForbidden):
		h.logger.WarnContext(ctx, "ownership check failed")
		h.sendError(w, http.StatusForbidden, api.KindForbidden, "Unauthorized")
	default:
		h.logger.ErrorContext(ctx, "failed to load resource", slog.Any("error", err))
		h.sendInternal(w)
	}
}

func toEventInput(req api.EventRequest) validation.EventInput {
	return validation.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
	}
}

func toAPIEvent(e *models.Event) api.Event {
	return api.Event{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
