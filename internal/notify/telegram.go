// Package notify pushes wager outcomes to a Telegram chat. Optional: the
// server runs fine without a configured bot.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/luiso2/betbridge/internal/play23"
)

// Min interval between messages to the same chat to stay clear of the
// Telegram rate limit (~30/min).
const sendInterval = 2 * time.Second

type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier builds the notifier, verifying the token against the
// Bot API. Returns nil on failure so callers can treat it as disabled.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("telegram bot connection test failed", "error", err)
		return nil
	}

	slog.Info("telegram notifier enabled", "chat_id", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// NotifyOutcome announces one placement attempt's result.
func (n *TelegramNotifier) NotifyOutcome(username string, outcome play23.Outcome) {
	if n == nil {
		return
	}
	var text string
	if outcome.Placed {
		text = fmt.Sprintf("✅ Wager placed by %s\n%s\nTicket %s: risk %d to win %d",
			username, outcome.Description, outcome.Ticket, outcome.Risk, outcome.Win)
	} else {
		text = fmt.Sprintf("❌ Wager rejected for %s\n%s: %s", username, outcome.Kind, outcome.Detail)
	}
	n.send(text)
}

func (n *TelegramNotifier) send(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if wait := sendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Warn("failed to send telegram notification", "error", err)
		return
	}
	n.lastSend = time.Now()
}
