package bot

import (
	"context"
	"sync/atomic"
	"time"

	coreconfig "github.com/eggcart/eggcart/core/config"
	"github.com/eggcart/eggcart/core/logger"
	coretelegram "github.com/eggcart/eggcart/core/telegram"
	"github.com/eggcart/eggcart/core/telegram/commands"
	"github.com/eggcart/eggcart/core/telegram/router"
	tgsender "github.com/eggcart/eggcart/core/telegram/sender"
	"github.com/eggcart/eggcart/internal/service"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// App is the grocery bot: command handlers, dialog callbacks, and the
// registry wiring that binds them to the Telegram runtime.
type App struct {
	cfg     *coreconfig.Config
	lists   *service.Lists
	reg     *coretelegram.Registry
	botName atomic.Value
}

// NewApp builds the bot application and registers all handlers.
func NewApp(cfg *coreconfig.Config, lists *service.Lists) *App {
	a := &App{
		cfg:   cfg,
		lists: lists,
		reg:   coretelegram.NewRegistry(),
	}
	a.registerHandlers()
	return a
}

// BotName returns the bot username resolved at startup, without the @.
func (a *App) BotName() string {
	if v, ok := a.botName.Load().(string); ok {
		return v
	}
	return ""
}

// Registry exposes the command/callback registry, mainly for tests.
func (a *App) Registry() *coretelegram.Registry {
	return a.reg
}

func (a *App) registerHandlers() {
	a.reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Say hello and show the basics",
	})
	a.reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "Show available commands",
	})
	a.reg.RegisterCommand("/add", commands.Command{
		Handler:     a.handleAdd,
		Description: "Add items: /add eggs, milk",
	})
	a.reg.RegisterCommand("/remove", commands.Command{
		Handler:     a.handleRemove,
		Description: "Remove items: /remove eggs, milk",
	})
	a.reg.RegisterCommand("/list", commands.Command{
		Handler:     a.handleList,
		Description: "Show the shopping list",
	})
	a.reg.RegisterCommand("/clear", commands.Command{
		Handler:     a.handleClear,
		Description: "Clear the shopping list",
	})

	for key, h := range map[string]tele.HandlerFunc{
		CallbackCheckItem.Key():    a.cbCheckItem,
		CallbackDeleteItem.Key():   a.cbDeleteItem,
		CallbackPrevPage.Key():     a.cbPrevPage,
		CallbackNextPage.Key():     a.cbNextPage,
		CallbackGoBack.Key():       a.cbGoBack,
		CallbackOK.Key():           a.cbOK,
		CallbackClear.Key():        a.cbClear,
		CallbackConfirmClear.Key(): a.cbConfirmClear,
		CallbackCancelClear.Key():  a.cbCancelClear,
	} {
		_ = a.reg.RegisterCallback(key, h)
	}
}

// TelegramRunOptions assembles the runtime options: middleware chain,
// command/callback routes, dispatcher sizing, and the readiness gate that
// resolves the bot username before updates flow.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	routes := router.CommandRoutes(a.reg)
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{
		Resolve: ResolveAction,
	}))
	routes = append(routes, router.TextRoute(a.reg, router.TextOptions{}))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		DispatcherOptions: tgsender.Options{
			QueueSize:    256,
			Workers:      4,
			MaxRetries:   2,
			RetryBackoff: 2 * time.Second,
		},
		Routes: routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			if rt.Bot != nil && rt.Bot.Me != nil {
				a.botName.Store(rt.Bot.Me.Username)
				logger.TG.Info("bot identity resolved",
					slog.String("event", "identity"),
					slog.String("username", rt.Bot.Me.Username),
				)
			}
			return nil
		},
	}, nil
}
