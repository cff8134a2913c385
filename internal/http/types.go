package http

import (
	"net/http"

	"github.com/fortytwohn/kickerboard/internal/config"
	"github.com/fortytwohn/kickerboard/internal/intra"
	"github.com/fortytwohn/kickerboard/internal/leaderboard"
	"github.com/fortytwohn/kickerboard/internal/match"
	"github.com/fortytwohn/kickerboard/internal/metrics"
	"github.com/fortytwohn/kickerboard/internal/notifier"
	"github.com/fortytwohn/kickerboard/internal/players"
	"github.com/fortytwohn/kickerboard/internal/pubsub"
)

type Server struct {
	Players        players.PlayerStore
	Matches        match.Workflow
	Leaderboard    leaderboard.Projector
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	IntraClient    intra.IntraClient
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	handler        http.Handler
}
