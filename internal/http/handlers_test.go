package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fortytwohn/kickerboard/internal/config"
	"github.com/fortytwohn/kickerboard/internal/database"
	"github.com/fortytwohn/kickerboard/internal/elo"
	"github.com/fortytwohn/kickerboard/internal/intra"
	"github.com/fortytwohn/kickerboard/internal/leaderboard"
	"github.com/fortytwohn/kickerboard/internal/match"
	"github.com/fortytwohn/kickerboard/internal/metrics"
	"github.com/fortytwohn/kickerboard/internal/notifier"
	"github.com/fortytwohn/kickerboard/internal/players"
	"github.com/fortytwohn/kickerboard/internal/pubsub"
)

// knownUsers maps bearer tokens to intra profiles for the mock identity
// boundary. alice and bob are on the allowed campus, mallory is not.
var knownUsers = map[string]*intra.User{
	"alice-token":   intraUser(1, "alice", "Alice", "Heilbronn"),
	"bob-token":     intraUser(2, "bob", "Bob", "Heilbronn"),
	"mallory-token": intraUser(3, "mallory", "Mallory", "Paris"),
}

func intraUser(id int, login, firstName, campus string) *intra.User {
	u := &intra.User{
		ID:        id,
		Login:     login,
		FirstName: firstName,
		Email:     login + "@student.42heilbronn.de",
	}
	u.Campus = append(u.Campus, struct {
		Name string `json:"name"`
	}{Name: campus})
	return u
}

type testEnv struct {
	server   *Server
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
}

// setupTestServer initializes a server with a test database and mock clients.
func setupTestServer(t *testing.T) (*testEnv, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	playerStore := players.New(db, elo.DefaultBaseRating)
	engine := elo.NewEngine(elo.DefaultKFactor, elo.DefaultFloor)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)

	workflow := match.New(db, playerStore, engine, metricsSvc)
	projector := leaderboard.New(db, playerStore)

	intraMock := intra.NewMockClient()
	intraMock.GetCurrentUserFunc = func(ctx context.Context, token string) (*intra.User, error) {
		if user, ok := knownUsers[token]; ok {
			return user, nil
		}
		return nil, intra.ErrInvalidToken
	}

	notifierMock := notifier.NewMock()
	pubsubMock := pubsub.NewMock("TEST")

	cfg := config.Config{
		Intra:         config.IntraConfig{RequiredCampus: "Heilbronn"},
		AllowedOrigin: "*",
	}

	server := NewServer(playerStore, workflow, projector, metricsSvc, metricsHandler, cfg, intraMock, notifierMock, pubsubMock)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return &testEnv{server: server, notifier: notifierMock, pubsub: pubsubMock}, teardown
}

// doRequest serves a request through the full middleware stack and returns
// the recorder.
func (e *testEnv) doRequest(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.server.Router.ServeHTTP(rr, req)
	return rr
}

// submitMatch is a helper that submits a match as alice against bob and
// returns its id.
func (e *testEnv) submitMatch(t *testing.T, sport string, submitterWon bool) string {
	t.Helper()

	rr := e.doRequest(t, "POST", "/api/matches/submit", "alice-token", map[string]any{
		"opponent_login": "bob",
		"sport":          sport,
		"score":          "10:8",
		"i_won":          submitterWon,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var m match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m.ID
}

// provision makes sure a user has hit an authenticated endpoint at least
// once so their player record exists.
func (e *testEnv) provision(t *testing.T, tokens ...string) {
	t.Helper()
	for _, token := range tokens {
		rr := e.doRequest(t, "GET", "/api/profile", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestHealthCheckHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rr := env.doRequest(t, "GET", "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	t.Run("missing token", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/profile", "nope", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("foreign campus", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/profile", "mallory-token", nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestProfileHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rr := env.doRequest(t, "GET", "/api/profile", "alice-token", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var player players.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
	assert.Equal(t, "alice", player.Login)
	assert.Equal(t, elo.DefaultBaseRating, player.TableSoccerElo)
	assert.Equal(t, elo.DefaultBaseRating, player.TableFootballElo)
}

func TestSubmitMatchHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	t.Run("creates pending match", func(t *testing.T) {
		rr := env.doRequest(t, "POST", "/api/matches/submit", "alice-token", map[string]any{
			"opponent_login": "bob",
			"sport":          "table_soccer",
			"score":          "10:8",
			"i_won":          true,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var m match.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
		assert.Equal(t, match.StatusPending, m.Status)
		assert.Nil(t, m.Player1EloBefore)
	})

	t.Run("unknown opponent", func(t *testing.T) {
		rr := env.doRequest(t, "POST", "/api/matches/submit", "alice-token", map[string]any{
			"opponent_login": "ghost",
			"sport":          "table_soccer",
			"score":          "10:8",
			"i_won":          true,
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid sport", func(t *testing.T) {
		rr := env.doRequest(t, "POST", "/api/matches/submit", "alice-token", map[string]any{
			"opponent_login": "bob",
			"sport":          "chess",
			"score":          "1:0",
			"i_won":          true,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/matches/submit", bytes.NewReader([]byte("{")))
		req.Header.Set("Authorization", "Bearer alice-token")
		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	// The frontend sends exactly these field names; i_won decides which
	// side is recorded as the winner.
	t.Run("i_won binds to the declared winner", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/profile", "alice-token", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var alice players.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alice))

		for _, tc := range []struct {
			body    string
			wantOwn bool
		}{
			{`{"opponent_login":"bob","sport":"table_soccer","score":"10:8","i_won":true}`, true},
			{`{"opponent_login":"bob","sport":"table_soccer","score":"8:10","i_won":false}`, false},
		} {
			req := httptest.NewRequest("POST", "/api/matches/submit", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Authorization", "Bearer alice-token")
			rec := httptest.NewRecorder()
			env.server.Router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var m match.Match
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
			if tc.wantOwn {
				assert.Equal(t, alice.ID, m.WinnerID)
			} else {
				assert.Equal(t, m.Player2ID, m.WinnerID)
			}
		}
	})
}

func TestConfirmMatchHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	matchID := env.submitMatch(t, "table_soccer", true)

	t.Run("submitter cannot confirm", func(t *testing.T) {
		rr := env.doRequest(t, "PUT", "/api/matches/"+matchID+"/confirm", "alice-token", map[string]any{"confirmed": true})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("opponent confirms", func(t *testing.T) {
		rr := env.doRequest(t, "PUT", "/api/matches/"+matchID+"/confirm", "bob-token", map[string]any{"confirmed": true})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var m match.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
		assert.Equal(t, match.StatusConfirmed, m.Status)
		require.NotNil(t, m.Player1EloAfter)
		require.NotNil(t, m.Player2EloAfter)
		assert.Equal(t, 1216, *m.Player1EloAfter)
		assert.Equal(t, 1184, *m.Player2EloAfter)

		// The confirmation publishes a result event for the notifier.
		require.Len(t, env.pubsub.SendMessageCalls, 1)
		assert.Equal(t, string(pubsub.EventNotifyResult), env.pubsub.SendMessageCalls[0].Topic)
	})

	t.Run("second confirm conflicts", func(t *testing.T) {
		rr := env.doRequest(t, "PUT", "/api/matches/"+matchID+"/confirm", "bob-token", map[string]any{"confirmed": true})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown match", func(t *testing.T) {
		rr := env.doRequest(t, "PUT", "/api/matches/no-such-id/confirm", "bob-token", map[string]any{"confirmed": true})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("deny publishes nothing", func(t *testing.T) {
		env.pubsub.Reset()
		deniedID := env.submitMatch(t, "table_soccer", true)

		rr := env.doRequest(t, "PUT", "/api/matches/"+deniedID+"/confirm", "bob-token", map[string]any{"confirmed": false})
		require.Equal(t, http.StatusOK, rr.Code)

		var m match.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
		assert.Equal(t, match.StatusDenied, m.Status)
		assert.Empty(t, env.pubsub.SendMessageCalls)
	})
}

func TestPendingMatchesHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	env.submitMatch(t, "table_soccer", true)

	rr := env.doRequest(t, "GET", "/api/matches/pending", "bob-token", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var pending []match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending, 1)

	// The submitter has nothing to decide.
	rr = env.doRequest(t, "GET", "/api/matches/pending", "alice-token", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var alicePending []match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alicePending))
	assert.Empty(t, alicePending)
}

func TestMatchHistoryHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	matchID := env.submitMatch(t, "table_soccer", true)
	env.doRequest(t, "PUT", "/api/matches/"+matchID+"/confirm", "bob-token", map[string]any{"confirmed": true})
	env.submitMatch(t, "table_football", false)

	rr := env.doRequest(t, "GET", "/api/matches/history", "alice-token", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var history []match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	assert.Len(t, history, 2)
}

func TestLeaderboardHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	matchID := env.submitMatch(t, "table_soccer", true)
	env.doRequest(t, "PUT", "/api/matches/"+matchID+"/confirm", "bob-token", map[string]any{"confirmed": true})

	t.Run("ranked standings", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/leaderboard?sport=table_soccer", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var entries []leaderboard.Entry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "alice", entries[0].Player.Login)
		assert.Equal(t, 1216, entries[0].Elo)
		assert.Equal(t, 1, entries[0].Rank)
	})

	t.Run("missing sport", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/leaderboard", "", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSearchPlayersHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	t.Run("query too short", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/players/search?q=a", "alice-token", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("matches by login", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/players/search?q=ali", "bob-token", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var results []players.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "alice", results[0].Login)
	})
}

func TestPlayerStatsHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	matchID := env.submitMatch(t, "table_soccer", true)
	env.doRequest(t, "PUT", "/api/matches/"+matchID+"/confirm", "bob-token", map[string]any{"confirmed": true})

	t.Run("known player", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/players/alice/stats", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var stats leaderboard.PlayerStats
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
		assert.Equal(t, 1, stats.Stats[players.TableSoccer].Wins)
		assert.Equal(t, 1216, stats.Stats[players.TableSoccer].Elo)
	})

	t.Run("unknown player", func(t *testing.T) {
		rr := env.doRequest(t, "GET", "/api/players/ghost/stats", "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

// pushRequest wraps a msgpack payload the way a pubsub push subscription
// delivers it.
func pushRequest(t *testing.T, target string, payload any) *http.Request {
	t.Helper()

	raw, err := msgpack.Marshal(payload)
	require.NoError(t, err)

	wrapper := map[string]any{
		"subscription": "test-subscription",
		"message": map[string]any{
			"data": base64.StdEncoding.EncodeToString(raw),
		},
	}
	body, err := json.Marshal(wrapper)
	require.NoError(t, err)

	return httptest.NewRequest("POST", target, bytes.NewReader(body))
}

func TestNotifyResultHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	matchID := env.submitMatch(t, "table_soccer", true)
	env.doRequest(t, "PUT", "/api/matches/"+matchID+"/confirm", "bob-token", map[string]any{"confirmed": true})

	req := pushRequest(t, "/pubsub/notify-result", pubsub.ResultEvent{MatchID: matchID})
	rr := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, env.notifier.ResultNotifications, 1)
	assert.Equal(t, matchID, env.notifier.ResultNotifications[0].ID)
}

func TestNotifyResultHandler_BadPayload(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	req := httptest.NewRequest("POST", "/pubsub/notify-result", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, env.notifier.ResultNotifications)
}

func TestPostLeaderboardHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()
	env.provision(t, "alice-token", "bob-token")

	matchID := env.submitMatch(t, "table_soccer", true)
	env.doRequest(t, "PUT", "/api/matches/"+matchID+"/confirm", "bob-token", map[string]any{"confirmed": true})

	req := pushRequest(t, "/pubsub/post-leaderboard", pubsub.LeaderboardEvent{Sport: "table_soccer"})
	rr := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, env.notifier.LeaderboardPosts, 1)
	assert.Equal(t, players.TableSoccer, env.notifier.LeaderboardPosts[0])
}
