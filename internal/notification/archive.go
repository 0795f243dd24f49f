package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
)

// ArchiveRecord is the object stored for every accepted message. It holds
// delivery metadata only; the body carries a live one-time code.
type ArchiveRecord struct {
	ReceiptID  string    `json:"receiptId"`
	Driver     string    `json:"driver"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// Archive decorates a Driver and records each accepted message in object
// storage. Archive failures are logged and never fail the send.
type Archive struct {
	next    Driver
	storage model.Storage
	log     *logger.Logger
}

var _ Driver = (*Archive)(nil)

func NewArchive(next Driver, storage model.Storage, l *logger.Logger) *Archive {
	return &Archive{next: next, storage: storage, log: l}
}

func (a *Archive) Send(ctx context.Context, msg model.Message) (model.Receipt, error) {
	receipt, err := a.next.Send(ctx, msg)
	if err != nil {
		return receipt, err
	}

	if err := a.store(ctx, msg, receipt); err != nil {
		a.log.Warn("Mail gateway: failed to archive message", "receipt_id", receipt.ID, "error", err)
	}

	return receipt, nil
}

func (a *Archive) Close() error {
	return a.next.Close()
}

// ArchiveKey is the object key of a receipt.
func ArchiveKey(r model.Receipt) string {
	return fmt.Sprintf("mail/%s/%s/%s.json", r.AcceptedAt.UTC().Format("2006/01/02"), r.Driver, r.ID)
}

func (a *Archive) store(ctx context.Context, msg model.Message, receipt model.Receipt) error {
	key := ArchiveKey(receipt)

	exists, err := a.storage.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	data, err := json.Marshal(ArchiveRecord{
		ReceiptID:  receipt.ID,
		Driver:     receipt.Driver,
		To:         msg.To,
		Subject:    msg.Subject,
		AcceptedAt: receipt.AcceptedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode archive record: %w", err)
	}

	return a.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json")
}
