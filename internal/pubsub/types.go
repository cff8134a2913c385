package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventNotifyResult    EventType = "notify-result"
	EventPostLeaderboard EventType = "post-leaderboard"
)

// ResultEvent is the payload published when a match is confirmed. The push
// handler reloads the match by id so the notification always reflects the
// committed state.
type ResultEvent struct {
	MatchID string `msgpack:"match_id"`
}

// LeaderboardEvent is the payload published to request a leaderboard post.
type LeaderboardEvent struct {
	Sport string `msgpack:"sport"`
}
