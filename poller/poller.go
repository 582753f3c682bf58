package poller

import (
	"log"

	"github.com/IT-Nick/compliance-bot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// NewPoller создаёт Poller в зависимости от режима
func NewPoller(cfg *config.Config) telebot.Poller {
	bot := cfg.TelegramBot
	if bot.Mode == "webhook" {
		log.Printf("Telegram webhook listening on %s", bot.ListenAddr)
		return &telebot.Webhook{
			Listen: bot.ListenAddr,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: bot.WebhookURL,
			},
		}
	}
	return &telebot.LongPoller{Timeout: bot.PollInterval}
}
