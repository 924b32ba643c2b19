// Package telegram pushes chat alerts to the club admin's Telegram account:
// a notification whenever a visitor writes while no admin console is
// connected, and a /status command reporting live hub numbers.
package telegram

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/chathub"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/config"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/localization"
)

// Notifier implements chathub.OfflineNotifier over the Telegram Bot API.
type Notifier struct {
	BotAPI    *tgbotapi.BotAPI
	ChatID    int64
	Hub       *chathub.Hub
	Localizer *localization.Localizer
	Lang      string
}

func NewNotifier(token string, chatID int64, hub *chathub.Hub, loc *localization.Localizer, lang string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("Authorized on Telegram account %s", bot.Self.UserName)

	return &Notifier{
		BotAPI:    bot,
		ChatID:    chatID,
		Hub:       hub,
		Localizer: loc,
		Lang:      lang,
	}, nil
}

// NotifyOfflineMessage sends the offline alert. Called from the hub in its
// own goroutine, so a slow Telegram API never stalls routing.
func (n *Notifier) NotifyOfflineMessage(displayName, text string) {
	alert := n.Localizer.Getf(n.Lang, "offline_alert", displayName, truncate(text, config.AlertPreviewLimit))
	msg := tgbotapi.NewMessage(n.ChatID, alert)
	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("failed to send Telegram alert: %v", err)
	}
}

// Run polls Telegram for commands. Only /status from the configured admin
// chat is answered; hub numbers come from the snapshot channel, so the bot
// never reads hub state directly.
func (n *Notifier) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	for update := range n.BotAPI.GetUpdatesChan(u) {
		if update.Message == nil || update.Message.Chat.ID != n.ChatID {
			continue
		}
		if update.Message.Command() != "status" {
			continue
		}

		stats := n.Hub.Stats()
		adminKey := "status_admin_offline"
		if stats.AdminOnline {
			adminKey = "status_admin_online"
		}
		report := n.Localizer.Getf(n.Lang, "status_report",
			stats.Visitors, stats.Conversations, stats.Unread,
			n.Localizer.Get(n.Lang, adminKey))

		reply := tgbotapi.NewMessage(n.ChatID, report)
		if _, err := n.BotAPI.Send(reply); err != nil {
			log.Printf("failed to send Telegram status reply: %v", err)
		}
	}
}

// truncate limits s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
