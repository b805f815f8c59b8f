package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ErrNoDeliverers every strategy in the chain failed or none configured
var ErrNoDeliverers = errors.New("no export deliverer succeeded")

// Deliverer hands a finished export to the operator through some channel.
// Strategies are pluggable so a blocked download path can degrade to
// another mechanism instead of failing silently.
type Deliverer interface {
	Deliver(ctx context.Context, filename, mimeType string, data []byte) error
}

// DirectoryDeliverer drops the file into the configured exports
// directory.
type DirectoryDeliverer struct {
	Path string
}

func (d *DirectoryDeliverer) Deliver(_ context.Context, filename, _ string, data []byte) error {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("error creating export directory: %w", err)
	}
	path := filepath.Join(d.Path, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

// DocumentSender is the part of the Telegram bot API the deliverer needs.
type DocumentSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramDeliverer sends the export file as a document to the ops chat.
type TelegramDeliverer struct {
	Sender DocumentSender
	ChatID int64
}

func (d *TelegramDeliverer) Deliver(_ context.Context, filename, _ string, data []byte) error {
	doc := tgbotapi.NewDocument(d.ChatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = "📊 Booking export"
	if _, err := d.Sender.Send(doc); err != nil {
		return fmt.Errorf("error sending document: %w", err)
	}
	return nil
}

// FallbackDeliverer tries each strategy in order and stops at the first
// success.
type FallbackDeliverer struct {
	Chain  []Deliverer
	Logger *zerolog.Logger
}

func (d *FallbackDeliverer) Deliver(ctx context.Context, filename, mimeType string, data []byte) error {
	for _, next := range d.Chain {
		err := next.Deliver(ctx, filename, mimeType, data)
		if err == nil {
			return nil
		}
		if d.Logger != nil {
			d.Logger.Error().Err(err).Str("filename", filename).Msg("export delivery failed, trying next strategy")
		}
	}
	return ErrNoDeliverers
}
