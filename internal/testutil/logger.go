package testutil

import (
	"go.uber.org/zap"

	"github.com/certzilla/auth-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.FromZap(zap.NewNop())
}
