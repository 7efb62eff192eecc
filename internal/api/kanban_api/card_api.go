package kanban_api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pipecode66/kanban-api/internal/api/middlewares"
	"github.com/pipecode66/kanban-api/internal/model/kanban_model"
	"github.com/pipecode66/kanban-api/internal/repository/kanban_repository"
	"github.com/pipecode66/kanban-api/internal/services/auth_services"
	"github.com/pipecode66/kanban-api/internal/services/kanban_services"
)

type CardHandler struct {
	Service     *kanban_services.CardService
	AuthService *auth_services.AuthService
}

func NewCardHandler(s *kanban_services.CardService, a *auth_services.AuthService) *CardHandler {
	return &CardHandler{Service: s, AuthService: a}
}

func (h *CardHandler) CardRoutes(r *mux.Router) {
	r.Handle("/cards",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.listCards)),
	).Methods("GET")

	r.Handle("/cards",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.createCard)),
	).Methods("POST")

	r.Handle("/cards/reorder",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.reorderCards)),
	).Methods("POST")

	cardRouter := r.PathPrefix("/cards/{id:[0-9]+}").Subrouter()

	cardRouter.Handle("",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.getCard)),
	).Methods("GET")

	cardRouter.Handle("",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.updateCard)),
	).Methods("PUT")

	cardRouter.Handle("",
		middlewares.AuthMiddleware(h.AuthService, http.HandlerFunc(h.deleteCard)),
	).Methods("DELETE")
}

func ownerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication context error", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

func cardID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func handleCardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, kanban_repository.ErrCardNotFound):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Card not found"})
	case errors.Is(err, kanban_services.ErrTitleRequired):
		http.Error(w, "Card title is required", http.StatusBadRequest)
	case errors.Is(err, kanban_services.ErrEmptyReorderBatch):
		http.Error(w, "Reorder batch is empty", http.StatusBadRequest)
	default:
		log.Printf("ERROR: card operation failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *CardHandler) listCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	cards, err := h.Service.ListCards(r.Context(), userID)
	if err != nil {
		handleCardError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (h *CardHandler) getCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	card, err := h.Service.GetCard(r.Context(), userID, cardID(r))
	if err != nil {
		handleCardError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card)
}

func (h *CardHandler) createCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Status      string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	card, err := h.Service.CreateCard(r.Context(), userID, req.Title, req.Description, req.Status)
	if err != nil {
		handleCardError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(card)
}

func (h *CardHandler) updateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Status      string  `json:"status"`
		Position    int     `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	card, err := h.Service.UpdateCard(r.Context(), userID, cardID(r), req.Title, req.Description, req.Status, req.Position)
	if err != nil {
		handleCardError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card)
}

func (h *CardHandler) reorderCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	var items []kanban_model.ReorderItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Service.Reorder(r.Context(), userID, items); err != nil {
		handleCardError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CardHandler) deleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteCard(r.Context(), userID, cardID(r)); err != nil {
		handleCardError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
