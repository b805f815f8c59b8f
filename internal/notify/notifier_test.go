package notify

import (
	"io"
	"testing"

	"parkdash/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestNotifierBroadcastsDeleteEvent(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	bus := events.NewEventBus()

	n := NewNotifier(sender, []int64{100, 200}, &logger)
	n.Subscribe(bus)

	err := bus.PublishJSON(events.EventRecordDeleted, events.RecordDeletedPayload{
		RecordID:    "BK-1",
		ParkingName: "Central Plaza",
		Name:        "Ravi Sharma",
		DeletedBy:   "admin@example.com",
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2, "one message per configured chat")
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Contains(t, msg.Text, "BK-1")
	assert.Contains(t, msg.Text, "Central Plaza")
	assert.Contains(t, msg.Text, "admin@example.com")
}

func TestNotifierExportAndLoginEvents(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	bus := events.NewEventBus()

	n := NewNotifier(sender, []int64{1}, &logger)
	n.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventExportCreated, events.ExportCreatedPayload{
		Format: "xlsx", Rows: 42, Filename: "parking_bookings_export_2026-08-28.xlsx",
	}))
	require.NoError(t, bus.PublishJSON(events.EventLoginFailed, events.LoginFailedPayload{
		Email: "intruder@example.com", RemoteAddr: "10.0.0.5",
	}))

	require.Len(t, sender.sent, 2)
	exportMsg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, exportMsg.Text, "xlsx")
	assert.Contains(t, exportMsg.Text, "42")

	loginMsg := sender.sent[1].(tgbotapi.MessageConfig)
	assert.Contains(t, loginMsg.Text, "intruder@example.com")
	assert.Contains(t, loginMsg.Text, "10.0.0.5")
}
