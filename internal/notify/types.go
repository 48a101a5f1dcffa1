package notify

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BotConfig configuration of the notification bot
type BotConfig struct {
	Token  string
	ChatID string
	Debug  bool
}

// Telegram delivers alert notifications to a telegram channel
type Telegram struct {
	Bot    *tgbotapi.BotAPI
	Config BotConfig
}
