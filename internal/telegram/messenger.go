package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/nexabot/internal/onboarding"
)

// Messenger is the outbound surface handlers use to talk to a chat.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	ReplyText(ctx context.Context, chatID int64, replyTo int, text string) error
	SendPhoto(ctx context.Context, chatID int64, url string) error
	SendMenu(ctx context.Context, chatID int64, text string, menu onboarding.Menu) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Client implements Messenger on top of a go-telegram bot.
type Client struct {
	b *bot.Bot
}

var _ Messenger = (*Client)(nil)

// NewClient wraps b.
func NewClient(b *bot.Bot) *Client {
	return &Client{b: b}
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := c.b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// ReplyText sends text as a reply to message replyTo.
func (c *Client) ReplyText(ctx context.Context, chatID int64, replyTo int, text string) error {
	_, err := c.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                replyTo,
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to reply in chat %d: %w", chatID, err)
	}
	return nil
}

// SendPhoto sends the image at url.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, url string) error {
	_, err := c.b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileString{Data: url},
	})
	if err != nil {
		return fmt.Errorf("failed to send photo to chat %d: %w", chatID, err)
	}
	return nil
}

// SendMenu sends text with an inline keyboard.
func (c *Client) SendMenu(ctx context.Context, chatID int64, text string, menu onboarding.Menu) error {
	_, err := c.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: InlineKeyboard(menu),
	})
	if err != nil {
		return fmt.Errorf("failed to send menu to chat %d: %w", chatID, err)
	}
	return nil
}

// DeleteMessage deletes a message.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if _, err := c.b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID}); err != nil {
		return fmt.Errorf("failed to delete message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query so the client stops its spinner.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if _, err := c.b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callbackID}); err != nil {
		return fmt.Errorf("failed to answer callback query %s: %w", callbackID, err)
	}
	return nil
}

// InlineKeyboard converts a menu into Telegram's markup.
func InlineKeyboard(menu onboarding.Menu) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(menu))
	for _, row := range menu {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{Text: b.Label, CallbackData: b.Data})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
