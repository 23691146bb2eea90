package handlers

import (
	"log/slog"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/config"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/flow"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/publisher"
)

// HandlerDeps provides dependencies for Telegram command and dialogue
// handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Publisher *publisher.Publisher
	Sessions  *flow.Manager
}
