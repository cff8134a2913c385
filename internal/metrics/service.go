package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kicker_matches_submitted_total",
			Help: "The total number of matches submitted.",
		}),
		MatchesConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kicker_matches_confirmed_total",
			Help: "The total number of matches confirmed by the opponent.",
		}),
		MatchesDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kicker_matches_denied_total",
			Help: "The total number of matches denied by the opponent.",
		}),
		ConfirmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kicker_match_confirm_duration_seconds",
			Help:    "The duration of individual match confirmations, including the rating update.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kicker_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kicker_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kicker_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesSubmitted,
		s.MatchesConfirmed,
		s.MatchesDenied,
		s.ConfirmDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesSubmitted() {
	s.MatchesSubmitted.Inc()
}

func (s *Service) IncMatchesConfirmed() {
	s.MatchesConfirmed.Inc()
}

func (s *Service) IncMatchesDenied() {
	s.MatchesDenied.Inc()
}

func (s *Service) ObserveConfirmDuration(duration float64) {
	s.ConfirmDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
