package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/krishanu7/battleship-ai/internal/auth"
	"github.com/krishanu7/battleship-ai/internal/game"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

type AttackRequest struct {
	Coordinate string `json:"coordinate"`
}

type PlacementRequest struct {
	Layout game.Layout `json:"layout"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrNotYourGame):
		code = http.StatusForbidden
	case errors.Is(err, ErrGameOver), errors.Is(err, ErrAlreadyAttacked):
		code = http.StatusConflict
	case IsClientError(err):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (h *Handler) Routes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("POST /api/v1/games", protect(http.HandlerFunc(h.NewGame)))
	mux.Handle("GET /api/v1/games/{id}", protect(http.HandlerFunc(h.GetGame)))
	mux.Handle("POST /api/v1/games/{id}/attack", protect(http.HandlerFunc(h.Attack)))
	mux.Handle("DELETE /api/v1/games/{id}", protect(http.HandlerFunc(h.Abandon)))
	mux.Handle("POST /api/v1/placement", protect(http.HandlerFunc(h.ValidatePlacement)))
}

func (h *Handler) NewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	sess, err := h.service.NewGame(r.Context(), auth.PlayerID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), r.PathValue("id"), auth.PlayerID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) Attack(w http.ResponseWriter, r *http.Request) {
	var req AttackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Coordinate == "" {
		http.Error(w, "Missing coordinate", http.StatusBadRequest)
		return
	}
	res, err := h.service.Attack(r.Context(), r.PathValue("id"), auth.PlayerID(r.Context()), req.Coordinate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Abandon(r.Context(), r.PathValue("id"), auth.PlayerID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Game abandoned"})
}

func (h *Handler) ValidatePlacement(w http.ResponseWriter, r *http.Request) {
	var req PlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Layout) == 0 {
		http.Error(w, "Invalid layout", http.StatusBadRequest)
		return
	}
	if err := h.service.ValidateLayout(req.Layout); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Layout is valid"})
}
