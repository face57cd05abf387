package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"
)

// TelegramSender adapts the bot for the notify and remind packages, which
// only know chat IDs and user IDs.
type TelegramSender struct {
	Bot *tele.Bot
}

// Send delivers plain text to one chat. Implements notify.Sender.
func (t *TelegramSender) Send(chatID int64, text string) error {
	_, err := t.Bot.Send(tele.ChatID(chatID), text)
	return err
}

// SendReminder delivers a dose reminder with Taken/Snooze buttons to the
// user's own chat. Implements remind.Messenger.
func (t *TelegramSender) SendReminder(userID, medKey, text string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("bad user id %q: %w", userID, err)
	}
	markup := &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "✅ Taken", Data: tokTakenPrefix + medKey}},
		{{Text: "⏰ Snooze", Data: tokSnoozePrefix + medKey}},
	}}
	_, err = t.Bot.Send(tele.ChatID(chatID), text, markup)
	return err
}
