// Package keepalive exposes the tiny HTTP surface uptime monitors poll.
package keepalive

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

const statusPage = `<html>
    <head>
        <title>Couple Bot Status</title>
        <style>
            body {
                font-family: Arial, sans-serif;
                text-align: center;
                background: linear-gradient(135deg, #ff69b4, #ff1493);
                color: white;
                margin: 0;
                padding: 50px;
            }
            .container {
                background: rgba(255, 255, 255, 0.1);
                padding: 30px;
                border-radius: 20px;
                max-width: 500px;
                margin: 0 auto;
            }
            .status {
                background: rgba(0, 255, 0, 0.2);
                padding: 10px;
                border-radius: 10px;
                margin: 20px 0;
            }
        </style>
    </head>
    <body>
        <div class="container">
            <h1>Couple Bot is Running!</h1>
            <div class="status">
                <strong>Status:</strong> Online and ready for love! 💖
            </div>
            <p>Your personal Discord bot for couples is active and monitoring for commands.</p>
            <p><em>Spreading love, one command at a time! 💌</em></p>
        </div>
    </body>
</html>`

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Server is the keep-alive HTTP server.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

// New builds the server with its two routes.
func New(addr string, log *slog.Logger) *Server {
	r := mux.NewRouter()
	r.HandleFunc("/", home).Methods(http.MethodGet)
	r.HandleFunc("/health", health).Methods(http.MethodGet)

	return &Server{
		srv: &http.Server{Addr: addr, Handler: r},
		log: log,
	}
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		s.log.Info("keep-alive server started", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("keep-alive server failed", "error", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(statusPage))
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:  "healthy",
		Message: "Bot is running! 💕",
	})
}
