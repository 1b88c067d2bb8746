// Package telegram delivers the daily report and the rendered chart through
// the Telegram Bot API.
//
// Report tables are sent as a MarkdownV2 preformatted block so the column
// alignment survives; the chart is uploaded as a photo. Each send is retried
// with a linear backoff.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/covidtrend/internal/report"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendReport sends the report tables as one message
func (c *Client) SendReport(tables []*report.Table) error {
	msg := tgbotapi.NewMessage(c.chatID, formatMessage(tables))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return c.send(msg)
}

// SendChart uploads the chart image at path with a caption
func (c *Client) SendChart(path, caption string) error {
	photo := tgbotapi.NewPhoto(c.chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	return c.send(photo)
}

func (c *Client) send(msg tgbotapi.Chattable) error {
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage renders tables inside a MarkdownV2 pre block
func formatMessage(tables []*report.Table) string {
	var b strings.Builder
	b.WriteString("*Daily New Cases*\n")
	b.WriteString("```\n")
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(escapePre(t.String()))
	}
	b.WriteString("```")
	return b.String()
}

// escapePre escapes the characters MarkdownV2 reserves inside pre blocks
func escapePre(text string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`")
	return r.Replace(text)
}
