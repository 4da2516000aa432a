package main

import (
	"strconv"
	"strings"

	"github.com/Gunvolt24/techshop/config"
	"github.com/Gunvolt24/techshop/internal/app"
	"github.com/Gunvolt24/techshop/pkg/logger"
	"github.com/urfave/cli/v2"
)

const (
	flagProfile = "profile"
	flagJSON    = "json"
	flagVerbose = "verbose"

	defaultProfile = "shopctl"
)

// runWithServices — собирает сервисы по конфигурации окружения, вызывает fn
// и освобождает ресурсы. Драйвер memory в CLI бесполезен (корзина живёт
// один вызов), поэтому он заменяется на file.
func runWithServices(fn func(c *cli.Context, svc *app.Services) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return cli.Exit("config: "+err.Error(), 2)
		}
		if d := strings.TrimSpace(cfg.Storage.Driver); d == "" || strings.EqualFold(d, app.DriverMemory) {
			cfg.Storage.Driver = app.DriverFile
		}
		cfg.Kafka.ConsumerEnabled = false

		level := "warn"
		if c.Bool(flagVerbose) {
			level = "info"
		}
		logg, closeLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, level)
		if err != nil {
			return err
		}
		defer func() { _ = closeLogger() }()

		kv, closeStorage, err := app.OpenStorage(c.Context, &cfg, logg)
		if err != nil {
			return err
		}
		defer closeStorage()

		svc, err := app.NewServices(&cfg, kv, logg)
		if err != nil {
			return err
		}
		defer func() {
			if cErr := svc.Events.Close(); cErr != nil {
				logg.Warnf(c.Context, "publisher close: %v", cErr)
			}
		}()

		return fn(c, svc)
	}
}

// argID — положительный идентификатор из позиционного аргумента.
func argID(c *cli.Context, pos int, what string) (int64, error) {
	raw := strings.TrimSpace(c.Args().Get(pos))
	if raw == "" {
		return 0, cli.Exit(what+" is required", 2)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Exit("invalid "+what+": "+raw, 2)
	}
	return id, nil
}

func profileOf(c *cli.Context) string {
	if p := strings.TrimSpace(c.String(flagProfile)); p != "" {
		return p
	}
	return defaultProfile
}
