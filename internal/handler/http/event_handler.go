package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vasiliy-maslov/eventhub/internal/event"
)

const msgEventNotFound = "Event not found"

type EventResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	UserID      *int64    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.StartTime.UTC(),
		EndTime:     e.EndTime.UTC(),
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

type EventHandler struct {
	service event.Service
}

func NewEventHandler(service event.Service) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(router chi.Router) {
	router.Get("/events", h.handleListEvents)
	router.Post("/events", h.handleCreateEvent)
	router.Get("/events/{id}", h.handleGetEventByID)
	router.Put("/events/{id}", h.handleUpdateEvent)
	router.Patch("/events/{id}", h.handleUpdateEvent)
	router.Delete("/events/{id}", h.handleDeleteEvent)
}

func (h *EventHandler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, msgEventNotFound)
		return
	}

	responsePayload := make([]EventResponse, 0, len(events))
	for i := range events {
		responsePayload = append(responsePayload, newEventResponse(&events[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *EventHandler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var requestPayload event.CreateInput
	if !decodeJSON(w, r, &requestPayload) {
		return
	}

	createdEvent, err := h.service.CreateEvent(r.Context(), requestPayload)
	if err != nil {
		respondWithServiceError(w, r, err, msgEventNotFound)
		return
	}

	respondWithJSON(w, http.StatusCreated, newEventResponse(createdEvent))
}

func (h *EventHandler) handleGetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, msgEventNotFound)
	if !ok {
		return
	}

	foundEvent, err := h.service.GetEventByID(r.Context(), eventID)
	if err != nil {
		respondWithServiceError(w, r, err, msgEventNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, newEventResponse(foundEvent))
}

func (h *EventHandler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, msgEventNotFound)
	if !ok {
		return
	}

	var requestPayload event.UpdateInput
	if !decodeJSON(w, r, &requestPayload) {
		return
	}

	updatedEvent, err := h.service.UpdateEvent(r.Context(), eventID, requestPayload)
	if err != nil {
		respondWithServiceError(w, r, err, msgEventNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, newEventResponse(updatedEvent))
}

func (h *EventHandler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, msgEventNotFound)
	if !ok {
		return
	}

	if err := h.service.DeleteEvent(r.Context(), eventID); err != nil {
		respondWithServiceError(w, r, err, msgEventNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
