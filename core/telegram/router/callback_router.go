package router

import (
	"strings"
	"time"

	tg "github.com/eggcart/eggcart/core/telegram"
	"github.com/eggcart/eggcart/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises dispatch and fallback behaviour for callbacks.
// Resolve maps raw callback payload data to a registry action key; when nil,
// the payload itself is used as the key.
type CallbackOptions struct {
	Resolve  func(data string) (string, bool)
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callback queries through the registry.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		data := strings.TrimSpace(cb.Data)
		key := data
		known := true
		if opts.Resolve != nil {
			key, known = opts.Resolve(data)
		}
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		var cbHandler tele.HandlerFunc
		if known {
			cbHandler, known = reg.GetCallback(key)
		}
		if !known || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, name, start, "", "", func() error {
				if fallback != nil {
					return fallback(c)
				}
				return c.Respond()
			}, extras...)
		}

		return handleWithSummary(c, name, start, "", "", func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
