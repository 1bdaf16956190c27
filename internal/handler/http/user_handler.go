package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vasiliy-maslov/eventhub/internal/user"
)

const msgUserNotFound = "User not found"

type UserResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Phone           *string    `json:"phone"`
	Gender          *string    `json:"gender"`
	DateOfBirth     *string    `json:"date_of_birth"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func newUserResponse(u *user.User) UserResponse {
	resp := UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		CreatedAt:       u.CreatedAt.UTC(),
		UpdatedAt:       u.UpdatedAt.UTC(),
	}
	if u.EmailVerifiedAt != nil {
		verifiedAt := u.EmailVerifiedAt.UTC()
		resp.EmailVerifiedAt = &verifiedAt
	}
	if u.Gender != nil {
		gender := string(*u.Gender)
		resp.Gender = &gender
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format(time.DateOnly)
		resp.DateOfBirth = &dob
	}
	return resp
}

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Get("/users", h.handleListUsers)
	router.Post("/users", h.handleCreateUser)
	router.Get("/users/{id}", h.handleGetUserByID)
	router.Put("/users/{id}", h.handleUpdateUser)
	router.Patch("/users/{id}", h.handleUpdateUser)
	router.Delete("/users/{id}", h.handleDeleteUser)
}

func (h *UserHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, msgUserNotFound)
		return
	}

	responsePayload := make([]UserResponse, 0, len(users))
	for i := range users {
		responsePayload = append(responsePayload, newUserResponse(&users[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *UserHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var requestPayload user.CreateInput
	if !decodeJSON(w, r, &requestPayload) {
		return
	}

	createdUser, err := h.service.CreateUser(r.Context(), requestPayload)
	if err != nil {
		respondWithServiceError(w, r, err, msgUserNotFound)
		return
	}

	respondWithJSON(w, http.StatusCreated, newUserResponse(createdUser))
}

func (h *UserHandler) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, msgUserNotFound)
	if !ok {
		return
	}

	foundUser, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err, msgUserNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, newUserResponse(foundUser))
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, msgUserNotFound)
	if !ok {
		return
	}

	var requestPayload user.UpdateInput
	if !decodeJSON(w, r, &requestPayload) {
		return
	}

	updatedUser, err := h.service.UpdateUser(r.Context(), userID, requestPayload)
	if err != nil {
		respondWithServiceError(w, r, err, msgUserNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, newUserResponse(updatedUser))
}

func (h *UserHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, msgUserNotFound)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		respondWithServiceError(w, r, err, msgUserNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
