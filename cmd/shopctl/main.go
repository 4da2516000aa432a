// shopctl — консольный клиент витрины: каталог, корзина профиля, заказы
// и проверка файлов с черновиками заказов.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load(".env.local")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "shopctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "shopctl",
		Usage: "techshop storefront from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagProfile,
				Usage:   "cart owner id",
				Value:   defaultProfile,
				EnvVars: []string{"SHOPCTL_PROFILE"},
			},
			&cli.BoolFlag{
				Name:  flagJSON,
				Usage: "print raw JSON instead of tables",
			},
			&cli.BoolFlag{
				Name:  flagVerbose,
				Usage: "log at info level",
			},
		},
		Commands: []*cli.Command{
			catalogCommand(),
			cartCommand(),
			ordersCommand(),
			validateCommand(),
		},
	}
}
