package telegram

import (
	"strconv"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"TenantPilot/bot/chat"
	"TenantPilot/entity"
)

// TelegramAPI defines the Telegram bot methods needed by the messenger.
// This avoids importing the concrete bot type and prevents circular imports.
type TelegramAPI interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
	SendChatAction(chatId int64, action string, opts *tgbotapi.SendChatActionOpts) (bool, error)
	GetFile(fileId string, opts *tgbotapi.GetFileOpts) (*tgbotapi.File, error)
}

// Messenger implements chat.Messenger for Telegram. Menus render both as a
// numbered list (the dispatcher accepts the number) and a reply keyboard.
type Messenger struct {
	api TelegramAPI
}

func NewMessenger(api TelegramAPI) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) SendText(chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return err
	}
	_, err = m.api.SendMessage(id, text, &tgbotapi.SendMessageOpts{
		ReplyMarkup: tgbotapi.ReplyKeyboardRemove{RemoveKeyboard: true},
	})
	return err
}

func (m *Messenger) SendMenu(chatID, text string, options []entity.ChatOption) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return err
	}

	keyboard := make([][]tgbotapi.KeyboardButton, len(options))
	for i, opt := range options {
		keyboard[i] = []tgbotapi.KeyboardButton{{Text: opt.Label}}
	}

	_, err = m.api.SendMessage(id, chat.FormatNumberedMenu(text, options), &tgbotapi.SendMessageOpts{
		ReplyMarkup: tgbotapi.ReplyKeyboardMarkup{
			Keyboard:       keyboard,
			ResizeKeyboard: true,
		},
	})
	return err
}

func (m *Messenger) SendTyping(chatID string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return err
	}
	_, err = m.api.SendChatAction(id, "typing", nil)
	return err
}
