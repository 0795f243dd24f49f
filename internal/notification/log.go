package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
)

// LogMailer writes dispatch records to the log instead of sending mail.
// The body is never logged.
type LogMailer struct {
	log *logger.Logger
	now func() time.Time
}

var _ Driver = (*LogMailer)(nil)

func NewLogMailer(l *logger.Logger) *LogMailer {
	return &LogMailer{log: l, now: time.Now}
}

func (m *LogMailer) Send(_ context.Context, msg model.Message) (model.Receipt, error) {
	receipt := model.Receipt{
		ID:         uuid.NewString(),
		Driver:     "log",
		AcceptedAt: m.now(),
	}

	m.log.Info("Mail gateway: message dispatched", "to", msg.To, "subject", msg.Subject, "receipt_id", receipt.ID)

	return receipt, nil
}

func (m *LogMailer) Close() error {
	return nil
}
