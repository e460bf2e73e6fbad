// internal/handlers/routes.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/lucky21/internal/middleware"
)

// Routes builds the API router. allowedOrigins feeds both CORS and the
// websocket origin check; empty means any origin.
func (gs *GameServer) Routes(allowedOrigins []string) http.Handler {
	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LogMiddleware(gs.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Heartbeat("/ping"))

	r.Get("/status", gs.StatusHandler)
	r.Get("/stats", gs.StatsHandler)

	r.Group(func(r chi.Router) {
		r.Use(gs.SessionMiddleware)
		r.Use(chimw.Timeout(10 * time.Second))

		r.Post("/start", gs.StartHandler)
		r.Get("/state", gs.StateHandler)
		r.Post("/guess21OrUnder", gs.GuessHandler(Guess21OrUnder))
		r.Post("/guessOver21", gs.GuessHandler(GuessOver21))
	})

	r.Group(func(r chi.Router) {
		r.Use(gs.SessionMiddleware)
		r.Get("/ws", gs.GameWSHandler(wsOriginPatterns(origins)))
	})

	return r
}

// wsOriginPatterns turns CORS origins ("https://app.example", "https://*") into
// the host patterns the websocket origin check matches against.
func wsOriginPatterns(origins []string) []string {
	seen := make(map[string]bool, len(origins))
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		host := strings.TrimSpace(o)
		if i := strings.Index(host, "://"); i >= 0 {
			host = host[i+3:]
		}
		host = strings.TrimRight(host, "/")
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		patterns = append(patterns, host)
	}
	return patterns
}
