package service_test

import (
	"log/slog"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
