// Package notify pushes order events to drivers.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"grocery-delivery-service/internal/domain/driver"
	"grocery-delivery-service/internal/domain/order"
)

// TelegramNotifier messages drivers through a Telegram bot. Drivers without a
// chat id are skipped.
type TelegramNotifier struct {
	bot *tele.Bot
	log *zap.Logger
}

// NewTelegramNotifier creates a send-only bot. apiURL may be empty to use the
// public Bot API endpoint.
func NewTelegramNotifier(token, apiURL string, log *zap.Logger) (*TelegramNotifier, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:   token,
		URL:     apiURL,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: b, log: log}, nil
}

// OrderAssigned sends the assignment summary to the driver.
func (n *TelegramNotifier) OrderAssigned(_ context.Context, d *driver.Driver, o *order.Order) error {
	if d.TelegramChatID == nil {
		n.log.Debug("driver has no telegram chat, skipping", zap.Int64("driver_id", d.ID))
		return nil
	}

	if _, err := n.bot.Send(tele.ChatID(*d.TelegramChatID), assignmentText(o), tele.ModeHTML); err != nil {
		return fmt.Errorf("failed to notify driver %d: %w", d.ID, err)
	}
	n.log.Info("driver notified", zap.Int64("driver_id", d.ID), zap.String("order", o.Number))
	return nil
}

func assignmentText(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>New delivery %s</b>\n\n", html.EscapeString(o.Number))
	fmt.Fprintf(&b, "Address: %s\n", html.EscapeString(o.DeliveryAddress))
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %s × %d\n", html.EscapeString(it.Name), it.Quantity)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f (%s)", o.Total, o.PaymentMethod)
	if o.PaymentMethod == order.PaymentCash {
		b.WriteString("\nCollect cash on delivery.")
	}
	if o.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", html.EscapeString(o.Notes))
	}
	return b.String()
}

// Noop drops every notification.
type Noop struct{}

func (Noop) OrderAssigned(context.Context, *driver.Driver, *order.Order) error { return nil }
