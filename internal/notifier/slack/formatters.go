package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/fortytwohn/kickerboard/internal/leaderboard"
	"github.com/fortytwohn/kickerboard/internal/match"
	"github.com/fortytwohn/kickerboard/internal/players"
)

func sportLabel(sport players.Sport) string {
	if sport == players.TableSoccer {
		return "Table Soccer"
	}
	return "Table Football"
}

func displayName(p players.Player) string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Login
	}
	return name
}

// formatResultNotification creates the Slack message for a confirmed match using Block Kit.
func (s *Notifier) formatResultNotification(m *match.Match, player1, player2 players.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", "⚽ Match confirmed! ⚽", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	winner, loser := player1, player2
	if m.WinnerID == player2.ID {
		winner, loser = player2, player1
	}

	detailsText := fmt.Sprintf("%s\n%s beat %s (%s)", sportLabel(m.Sport), displayName(winner), displayName(loser), m.Score)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	// Rating movement, one line per player.
	if m.Player1EloBefore != nil && m.Player1EloAfter != nil {
		ratingsText := fmt.Sprintf("• %s: %d → %d\n• %s: %d → %d",
			displayName(player1), *m.Player1EloBefore, *m.Player1EloAfter,
			displayName(player2), *m.Player2EloBefore, *m.Player2EloAfter)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", ratingsText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates the Slack message for the current standings using Block Kit.
func (s *Notifier) formatLeaderboard(sport players.Sport, entries []leaderboard.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s Leaderboard 🏆", sportLabel(sport)), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for _, e := range entries {
		medal := fmt.Sprintf("%d.", e.Rank)
		switch e.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		lines = append(lines, fmt.Sprintf("%s %s — %d (%dW/%dL, %.0f%%)",
			medal, displayName(e.Player), e.Elo, e.Wins, e.Losses, e.WinRate))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
