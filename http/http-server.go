package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/submit-bridge/backend/conf"
	"github.com/submit-bridge/backend/notify"
	"github.com/submit-bridge/backend/relaysrvc"
)

type HttpServer struct {
	relay    *relaysrvc.RelaySrvc
	notifier notify.Notifier
	cfg      conf.Config
	router   *chi.Mux
}

func NewHttpServer(
	relay *relaysrvc.RelaySrvc,
	notifier notify.Notifier,
	cfg conf.Config,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("submit-bridge", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	server := &HttpServer{
		relay:    relay,
		notifier: notifier,
		cfg:      cfg,
		router:   router,
	}

	server.routes()

	return server
}

func (httpserver *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, httpserver.router)
}

// Handler exposes the router for tests.
func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router
	r.Get("/ws", httpserver.wsConnect)
	r.Post("/submit", httpserver.submitCode)
	r.Post("/submission-report", httpserver.submissionReport)
	r.Get("/submission-result/{requestID}", httpserver.submissionResult)
	r.Get("/contest", httpserver.contestInfo)
	r.Post("/score-report", httpserver.scoreReport)
}
