// Package notification renders account emails and hands them to a delivery
// driver.
package notification

import (
	"context"
	"fmt"
	"io"

	"github.com/certzilla/auth-server/internal/config"
	"github.com/certzilla/auth-server/internal/logger"
	"github.com/certzilla/auth-server/internal/model"
)

// Driver is a Mailer that owns a connection.
type Driver interface {
	model.Mailer
	io.Closer
}

// New builds the driver selected by cfg.Driver.
func New(ctx context.Context, cfg config.Mail, l *logger.Logger) (Driver, error) {
	switch cfg.Driver {
	case config.MailDriverLog:
		return NewLogMailer(l), nil
	case config.MailDriverSES:
		return NewSES(ctx, cfg.SESRegion, cfg.From)
	case config.MailDriverKafka:
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.From), nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.Driver)
	}
}
