// Package notify publishes completed-match results to external channels.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/debatearena/internal/types"
)

// Telegram announces completed matches to a fixed chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a Telegram announcer.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// MatchCompleted posts a short result summary. Announcements are
// best-effort; the caller logs and ignores failures.
func (t *Telegram) MatchCompleted(_ context.Context, m *types.Match, agentA, agentB *types.Agent) error {
	outcome := "It's a tie."
	switch m.WinnerAgentID {
	case agentA.ID:
		outcome = fmt.Sprintf("%s wins!", agentA.Name)
	case agentB.ID:
		outcome = fmt.Sprintf("%s wins!", agentB.Name)
	}
	text := fmt.Sprintf("Debate on %q\n%s (%d) vs %s (%d)\n%s",
		m.Topic, agentA.Name, agentA.Rating, agentB.Name, agentB.Rating, outcome)

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
