package notify

import (
	"encoding/json"
	"fmt"

	"parkdash/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the part of the Telegram bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier pushes operational notifications to the configured Telegram
// chats when dashboard events fire.
type Notifier struct {
	sender  Sender
	chatIDs []int64
	logger  *zerolog.Logger
}

func NewNotifier(sender Sender, chatIDs []int64, logger *zerolog.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		chatIDs: chatIDs,
		logger:  logger,
	}
}

// Subscribe wires the notifier to the event bus.
func (n *Notifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventRecordDeleted, n.onRecordDeleted)
	bus.Subscribe(events.EventExportCreated, n.onExportCreated)
	bus.Subscribe(events.EventLoginFailed, n.onLoginFailed)
}

func (n *Notifier) onRecordDeleted(event *events.Event) error {
	var payload events.RecordDeletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	text := fmt.Sprintf("🗑 Booking deleted\nID: %s", payload.RecordID)
	if payload.ParkingName != "" {
		text += fmt.Sprintf("\nParking: %s", payload.ParkingName)
	}
	if payload.Name != "" {
		text += fmt.Sprintf("\nCustomer: %s", payload.Name)
	}
	if payload.DeletedBy != "" {
		text += fmt.Sprintf("\nBy: %s", payload.DeletedBy)
	}

	n.broadcast(text)
	return nil
}

func (n *Notifier) onExportCreated(event *events.Event) error {
	var payload events.ExportCreatedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	text := fmt.Sprintf("📊 Export generated\nFormat: %s\nRows: %d\nFile: %s",
		payload.Format, payload.Rows, payload.Filename)
	n.broadcast(text)
	return nil
}

func (n *Notifier) onLoginFailed(event *events.Event) error {
	var payload events.LoginFailedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	text := fmt.Sprintf("⚠️ Failed login attempt\nEmail: %s", payload.Email)
	if payload.RemoteAddr != "" {
		text += fmt.Sprintf("\nFrom: %s", payload.RemoteAddr)
	}
	n.broadcast(text)
	return nil
}

func (n *Notifier) broadcast(text string) {
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.sender.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send notification")
		}
	}
}
