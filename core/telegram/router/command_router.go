package router

import (
	"time"

	"github.com/eggcart/eggcart/core/logger"
	tg "github.com/eggcart/eggcart/core/telegram"
	"github.com/eggcart/eggcart/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		name := normalizeHandlerName(cmd)
		handler := def.Handler
		wrapped := func(c tele.Context) error {
			start := time.Now()
			return handleWithSummary(c, name, start, "", "", func() error {
				return handler(c)
			})
		}
		wrapped = middleware.RecoverMiddleware(middleware.LoggerMiddleware(wrapped))
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  wrapped,
		})
	}

	if logger.TWire != nil {
		logger.TWire.Info("tg.wire",
			slog.String("event", "complete"),
			slog.Int("commands", len(reg.Commands())),
			slog.Int("callbacks", len(reg.ListCallbacks())),
		)
	}

	return routes
}
