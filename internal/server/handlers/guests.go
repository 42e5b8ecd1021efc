package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/eventz/internal/models"
	"github.com/iudanet/eventz/internal/server/mail"
	"github.com/iudanet/eventz/internal/server/storage"
	"github.com/iudanet/eventz/internal/validation"
	"github.com/iudanet/eventz/pkg/api"
)

// DomainChecker проверяет, что домен email принимает почту
type DomainChecker interface {
	Check(ctx context.Context, email string) error
}

// GuestHandler обрабатывает запросы гостей. Доступ определяется владельцем мероприятия.
type GuestHandler struct {
	responder
	events  storage.EventStorage
	guests  storage.GuestStorage
	mailer  mail.Sender
	domains DomainChecker // nil отключает DNS проверку
}

// NewGuestHandler создает handler гостей
func NewGuestHandler(
	logger *slog.Logger,
	events storage.EventStorage,
	guests storage.GuestStorage,
	mailer mail.Sender,
	domains DomainChecker,
) *GuestHandler {
	return &GuestHandler{
		responder: responder{logger: logger},
		events:    events,
		guests:    guests,
		mailer:    mailer,
		domains:   domains,
	}
}

// Create обрабатывает POST /api/guests
func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, http.StatusUnauthorized, api.KindUnauthenticated, "authentication required")
		return
	}

	var req api.GuestRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateGuest(toGuestInput(req), true); err != nil {
		h.handleValidation(ctx, w, err)
		return
	}

	event, err := loadOwnedEvent(ctx, h.events, req.EventID, userID)
	if err != nil {
		h.sendOwnershipError(ctx, w, err, "Event not found")
		return
	}

	if req.Email != "" && h.domains != nil {
		if err := h.domains.Check(ctx, req.Email); err != nil {
			h.logger.WarnContext(ctx, "guest email domain check failed", slog.Any("error", err))
			h.sendValidation(w, validation.FieldErrors{"email": "email domain does not exist"})
			return
		}
	}

	guest := &models.Guest{
		EventID:    event.ID,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		RSVPStatus: models.RSVPPending,
	}

	if err := h.guests.CreateGuest(ctx, guest); err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			h.sendError(w, http.StatusNotFound, api.KindNotFound, "Event not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to create guest", slog.Any("error", err))
		h.sendInternal(w)
		return
	}

	if guest.Email != "" {
		inv := mail.Invitation{
			GuestName:   guest.Name,
			EventTitle:  event.Title,
			Description: event.Description,
			Location:    event.Location,
			StartDate:   event.StartDate,
			EndDate:     event.EndDate,
		}
		if err := h.mailer.SendGuestInvitation(ctx, guest.Email, inv); err != nil {
			h.logger.ErrorContext(ctx, "failed to send invitation email",
				slog.String("guest_id", guest.ID),
				slog.Any("error", err))
		}
	}

	h.sendJSON(w, api.GuestResponse{Message: "Guest added successfully", Guest: toAPIGuest(guest)}, http.StatusCreated)
}

// ListByEvent обрабатывает GET /api/guests/event/{eventID}
func (h *GuestHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, http.StatusUnauthorized, api.KindUnauthenticated, "authentication required")
		return
	}

	event, err := loadOwnedEvent(ctx, h.events, chi.URLParam(r, "eventID"), userID)
	if err != nil {
		h.sendOwnershipError(ctx, w, err, "Event not found")
		return
	}

	guests, err := h.guests.ListGuestsByEvent(ctx, event.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list guests", slog.Any("error", err))
		h.sendInternal(w)
		return
	}

	resp := api.GuestsResponse{Guests: make([]api.Guest, 0, len(guests))}
	for _, g := range guests {
		resp.Guests = append(resp.Guests, toAPIGuest(g))
	}
	h.sendJSON(w, resp, http.StatusOK)
}

// Update обрабатывает PUT /api/guests/{id}
func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.GuestRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateGuest(toGuestInput(req), false); err != nil {
		h.handleValidation(ctx, w, err)
		return
	}

	guest, ok := h.ownedGuest(w, r)
	if !ok {
		return
	}

	guest.Name = strings.TrimSpace(req.Name)
	guest.Email = req.Email
	if req.RSVPStatus != "" {
		guest.RSVPStatus = models.RSVPStatus(req.RSVPStatus)
	}

	updated, err := h.guests.UpdateGuest(ctx, guest)
	if err != nil {
		if errors.Is(err, storage.ErrGuestNotFound) {
			h.sendError(w, http.StatusNotFound, api.KindNotFound, "Guest not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to update guest", slog.Any("error", err))
		h.sendInternal(w)
		return
	}

	h.sendJSON(w, api.GuestResponse{Message: "Guest updated successfully", Guest: toAPIGuest(updated)}, http.StatusOK)
}

// Delete обрабатывает DELETE /api/guests/{id}
func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	guest, ok := h.ownedGuest(w, r)
	if !ok {
		return
	}

	deleted, err := h.guests.DeleteGuest(ctx, guest.ID)
	if err != nil {
		if errors.Is(err, storage.ErrGuestNotFound) {
			h.sendError(w, http.StatusNotFound, api.KindNotFound, "Guest not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete guest", slog.Any("error", err))
		h.sendInternal(w)
		return
	}

	h.sendJSON(w, api.GuestResponse{Message: "Guest deleted successfully", Guest: toAPIGuest(deleted)}, http.StatusOK)
}

// ownedGuest загружает гостя из пути и проверяет владельца его мероприятия
func (h *GuestHandler) ownedGuest(w http.ResponseWriter, r *http.Request) (*models.Guest, bool) {
	ctx := r.Context()
	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, http.StatusUnauthorized, api.KindUnauthenticated, "authentication required")
		return nil, false
	}

	guest, err := h.guests.GetGuest(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, storage.ErrGuestNotFound) {
			h.sendError(w, http.StatusNotFound, api.KindNotFound, "Guest not found")
			return nil, false
		}
		h.logger.ErrorContext(ctx, "failed to get guest", slog.Any("error", err))
		h.sendInternal(w)
		return nil, false
	}

	if _, err := loadOwnedEvent(ctx, h.events, guest.EventID, userID); err != nil {
		h.sendOwnershipError(ctx, w, err, "Guest not found")
		return nil, false
	}

	return guest, true
}

func (h *GuestHandler) handleValidation(ctx context.Context, w http.ResponseWriter, err error) {
	if fields, ok := validation.AsFieldErrors(err); ok {
		h.sendValidation(w, fields)
		return
	}
	h.logger.ErrorContext(ctx, "guest validation failed", slog.Any("error", err))
	h.sendInternal(w)
}

func toGuestInput(req api.GuestRequest) validation.GuestInput {
	return validation.GuestInput{
		EventID:    req.EventID,
		Name:       req.Name,
		Email:      req.Email,
		RSVPStatus: req.RSVPStatus,
	}
}

func toAPIGuest(g *models.Guest) api.Guest {
	return api.Guest{
		ID:         g.ID,
		EventID:    g.EventID,
		Name:       g.Name,
		Email:      g.Email,
		RSVPStatus: string(g.RSVPStatus),
		CreatedAt:  g.CreatedAt,
	}
}
