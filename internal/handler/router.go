package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wanjiku/cortex-avatar/backend/internal/config"
	"github.com/wanjiku/cortex-avatar/backend/internal/handler/admin"
	"github.com/wanjiku/cortex-avatar/backend/internal/handler/cortex"
	middlewarePkg "github.com/wanjiku/cortex-avatar/backend/internal/middleware"
	chatService "github.com/wanjiku/cortex-avatar/backend/internal/service/chat"
	"github.com/wanjiku/cortex-avatar/backend/internal/store"
	"github.com/wanjiku/cortex-avatar/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg config.ServerConfig, turns *chatService.Service, st store.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.AllowedOrigins))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"service": "cortex-avatar",
			"status":  "ok",
		})
	})

	cortex.New(turns, st).RegisterRoutes(r)
	admin.New(st).RegisterRoutes(r)

	return r
}
