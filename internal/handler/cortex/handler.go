package cortex

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
	chatService "github.com/wanjiku/cortex-avatar/backend/internal/service/chat"
	"github.com/wanjiku/cortex-avatar/backend/internal/store"
	"github.com/wanjiku/cortex-avatar/backend/pkg/utils"
)

// Handler exposes the conversational turn pipeline and the per-chat
// history surface over HTTP.
type Handler struct {
	turns *chatService.Service
	store store.Store
}

// New creates the cortex handler.
func New(turns *chatService.Service, st store.Store) *Handler {
	return &Handler{turns: turns, store: st}
}

// RegisterRoutes mounts the conversational routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/cortex", h.handleTurn)
	r.Get("/cortex/chat/history/{chatID}", h.handleGetHistory)
	r.Delete("/cortex/chat/history/{chatID}", h.handleDeleteHistory)
	r.Post("/chat/history", h.handleAppendHistory)
}

// handleTurn runs one full conversational turn.
func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var payload chatService.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.turns.ProcessTurn(r.Context(), payload)
	switch {
	case errors.Is(err, chatService.ErrMissingFields) || errors.Is(err, chatService.ErrMessageTooLong):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chatService.ErrModelUnavailable):
		// resp carries the degraded envelope so the client still
		// receives a speakable reply.
		utils.RespondJSON(w, http.StatusInternalServerError, resp)
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	default:
		utils.RespondJSON(w, http.StatusOK, resp)
	}
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	session, err := h.store.FindSession(r.Context(), chatID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": session.Messages})
}

func (h *Handler) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	err := h.store.DeleteSession(r.Context(), chatID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete chat history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAppendHistory saves a turn recorded elsewhere, without running
// the model pipeline.
func (h *Handler) handleAppendHistory(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID string `json:"chatId"`
		You    string `json:"You"`
		Cortex string `json:"Cortex"`
		Sender string `json:"sender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ChatID == "" || payload.You == "" || payload.Cortex == "" {
		utils.RespondError(w, http.StatusBadRequest, "'chatId', 'You' and 'Cortex' are required")
		return
	}

	turn := chatModel.Turn{You: payload.You, Cortex: payload.Cortex, Timestamp: time.Now().UTC()}
	if err := h.store.AppendTurn(r.Context(), payload.ChatID, payload.Sender, turn); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to save chat history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
