package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"tcw-alerts/internal/alert"
	"tcw-alerts/lib/helpers"
)

// NewTelegram creates the telegram notification channel
func NewTelegram(c BotConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Telegram{
		Bot:    bot,
		Config: c,
	}, nil
}

// Notify sends the formatted trigger message to the configured channel.
func (t *Telegram) Notify(a alert.Alert, matchedPrice float64) error {
	return t.Send(FormatTrigger(a, matchedPrice))
}

// Send delivers one HTML-formatted message.
func (t *Telegram) Send(text string) error {
	msg := tgbotapi.NewMessageToChannel(t.Config.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.Bot.Send(msg)
	if err != nil {
		return errors.Wrap(err, "could not send telegram message")
	}
	log.Debugf("Telegram alert sent: %s", text)
	return nil
}

// FormatTrigger renders the notification for a triggered alert: side color,
// symbol, entry price, current market price, tag and a chart deep link.
func FormatTrigger(a alert.Alert, matchedPrice float64) string {
	color := "🟥"
	typeText := "Short"
	if a.IsLong() {
		color = "🟩"
		typeText = "Long"
	}

	tagText := a.Tag
	if tagText == "" {
		tagText = alert.DefaultTag
	}

	return fmt.Sprintf(
		"%s <b><u>ALERT</u></b>\n\n"+
			"<b>Coin:</b> <code>%s</code>\n"+
			"<b>Type:</b> <b>%s</b>\n"+
			"<b>Entry price:</b> <code>%s</code>\n"+
			"<b>CMP:</b> <code>%s</code>\n"+
			"<b>Tag:</b> <i>%s</i>\n"+
			"\n<a href='https://www.tradingview.com/chart/?symbol=BINANCE:%s'>📈 View Chart</a>",
		color,
		a.Symbol,
		typeText,
		helpers.FormatPriceUS(a.EntryPrice),
		helpers.FormatPriceUS(matchedPrice),
		helpers.EscapeHTML(tagText),
		a.Symbol,
	)
}
