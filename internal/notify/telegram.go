// Package notify sends operator alerts over Telegram when the data provider
// becomes unreachable and when it recovers. The dashboard keeps rendering
// from the last applied slices during an outage; the alert exists so someone
// knows the data is going stale.
package notify

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier is the alerting surface consumed by the main loop.
type Notifier interface {
	SendError(err error) error
	SendRecovery(failedCycles int) error
}

// TelegramNotifier delivers alerts through the Telegram Bot API.
type TelegramNotifier struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(botToken, chatID string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	return &TelegramNotifier{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     3,
		retryDelayBase: time.Second,
	}, nil
}

// SendError notifies that a refresh cycle failed.
func (n *TelegramNotifier) SendError(err error) error {
	text := fmt.Sprintf("⚠️ brentlens: data provider refresh failed\n\n%v", err)
	return n.send(text)
}

// SendRecovery notifies that refreshes succeed again after failures.
func (n *TelegramNotifier) SendRecovery(failedCycles int) error {
	text := fmt.Sprintf("✅ brentlens: data provider recovered after %d failed cycle(s)", failedCycles)
	return n.send(text)
}

func (n *TelegramNotifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		_, err := n.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(n.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed to send message after %d retries: %w", n.maxRetries, lastErr)
}
