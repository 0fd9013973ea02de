package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/handler/chat"
	"github.com/zhouzirui/medchat/internal/handler/health"
	middlewarePkg "github.com/zhouzirui/medchat/internal/middleware"
	"github.com/zhouzirui/medchat/internal/model/medical"
	chatService "github.com/zhouzirui/medchat/internal/service/chat"
)

// Options 控制可选路由。
type Options struct {
	// FrontendDir, when set, is served as static files at the root.
	FrontendDir string
}

// NewRouter wires HTTP routes to core services. The API is mounted both at
// the root (local development) and under /api (same-origin deployments).
func NewRouter(store medical.Store, chatSvc *chatService.Service, logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	healthHandler := health.New(store, chatSvc.GeneratorName())
	chatHandler := chat.New(chatSvc, logger)

	register := func(api chi.Router) {
		healthHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/", healthHandler.HandleRoot)
		register(api)
	})

	r.Group(register)

	if opts.FrontendDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.FrontendDir)))
	} else {
		r.Get("/", healthHandler.HandleRoot)
	}

	return r
}
