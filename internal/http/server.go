package http

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/fortytwohn/kickerboard/internal/config"
	"github.com/fortytwohn/kickerboard/internal/intra"
	"github.com/fortytwohn/kickerboard/internal/leaderboard"
	"github.com/fortytwohn/kickerboard/internal/match"
	"github.com/fortytwohn/kickerboard/internal/metrics"
	"github.com/fortytwohn/kickerboard/internal/notifier"
	"github.com/fortytwohn/kickerboard/internal/players"
	"github.com/fortytwohn/kickerboard/internal/pubsub"
)

func NewServer(playerStore players.PlayerStore, workflow match.Workflow, projector leaderboard.Projector, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, intraClient intra.IntraClient, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Players:        playerStore,
		Matches:        workflow,
		Leaderboard:    projector,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		IntraClient:    intraClient,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	server.handler = c.Handler(server.Router)

	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Routes that act on behalf of a player additionally go through
	// s.authMiddleware, which resolves the bearer token to a player record.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/matches/submit", Chain(s.SubmitMatchHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("PUT /api/matches/{id}/confirm", Chain(s.ConfirmMatchHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("GET /api/matches/pending", Chain(s.PendingMatchesHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("GET /api/matches/history", Chain(s.MatchHistoryHandler(), paramsMiddleware, s.authMiddleware))

	s.Router.Handle("GET /api/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/players/search", Chain(s.SearchPlayersHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("GET /api/players/{login}/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/profile", Chain(s.ProfileHandler(), paramsMiddleware, s.authMiddleware))

	// Push endpoints for pubsub subscriptions.
	s.Router.Handle("POST /pubsub/notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/post-leaderboard", Chain(s.PostLeaderboardHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
