package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler describes one handler registration: what it matches
// and which middleware wrap it.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns the map of all command and
// callback handlers.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/new"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "new",
		Handler:     NewNewAdHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/my"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "my",
		Handler:     NewMyAdsHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/search"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "search",
		Handler:     NewSearchHandler(deps),
		MatchType:   tgbot.MatchTypeCommand,
	}
	handlers["/category"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "category",
		Handler:     NewCategoryHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/view"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "view",
		Handler:     NewViewHandler(deps),
		MatchType:   tgbot.MatchTypeCommand,
	}
	handlers["/delete"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "delete",
		Handler:     NewDeleteHandler(deps),
		MatchType:   tgbot.MatchTypeCommand,
	}
	handlers["/edit"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "edit",
		Handler:     NewEditHandler(deps),
		MatchType:   tgbot.MatchTypeCommand,
	}

	adminMiddleware := []tgbot.Middleware{AdminOnly(deps)}
	handlers["/admin"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "admin",
		Handler:     NewAdminPanelHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}

	handlers["cb:moderation"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "ad:",
		Handler:     NewModerationCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["cb:my_edit"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "myedit:",
		Handler:     NewEditCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["cb:my_delete"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "mydel:",
		Handler:     NewDeleteCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["cb:sub_check"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "sub:check",
		Handler:     NewSubscriptionCheckHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
	}

	return handlers
}
