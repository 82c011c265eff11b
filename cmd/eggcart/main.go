package main

import (
	"fmt"
	"log"

	"github.com/eggcart/eggcart/core/bootstrap"
	"github.com/eggcart/eggcart/core/buildinfo"
	corecmd "github.com/eggcart/eggcart/core/cmd"
	"github.com/eggcart/eggcart/internal/bot"
	appconfig "github.com/eggcart/eggcart/internal/config"
	"github.com/eggcart/eggcart/internal/service"
	"github.com/eggcart/eggcart/internal/storage"
)

func main() {
	log.Printf("eggcart %s (%s, built %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date)

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return appconfig.Load(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*appconfig.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}

			infra, err := bootstrap.Run(cfg.CoreConfig(), cfg.Database)
			if err != nil {
				return nil, err
			}

			lists := service.NewLists(storage.NewPostgres(infra.DB))
			return bot.NewApp(cfg.CoreConfig(), lists), nil
		},
	})
	if err != nil {
		log.Fatalf("eggcart: %v", err)
	}
}
