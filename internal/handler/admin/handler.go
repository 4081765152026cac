package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
	"github.com/wanjiku/cortex-avatar/backend/internal/store"
	"github.com/wanjiku/cortex-avatar/backend/pkg/utils"
)

// Handler serves the diagnostic listings. The routes are unauthenticated
// and meant to sit behind a private network boundary.
type Handler struct {
	store store.Store
}

// New creates the admin handler.
func New(st store.Store) *Handler {
	return &Handler{store: st}
}

// RegisterRoutes mounts the diagnostic routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/chats", h.handleListChats)
	r.Get("/debug/collections", h.handleListCollections)
}

// handleListChats returns sessions sorted by last interaction, newest
// first. Optional query params: owner narrows to one owner, limit caps
// the result size.
func (h *Handler) handleListChats(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	var (
		sessions []chat.Session
		err      error
	)
	if owner != "" {
		sessions, err = h.store.RecentSessions(r.Context(), owner, limit)
	} else {
		sessions, err = h.store.AllSessions(r.Context())
		if err == nil && limit > 0 && len(sessions) > limit {
			sessions = sessions[:limit]
		}
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list chats")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"total": len(sessions),
		"chats": sessions,
	})
}

func (h *Handler) handleListCollections(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.Collections(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list collections")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"collections": names})
}
