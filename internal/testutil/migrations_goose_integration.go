//go:build integration

package testutil

import (
	"context"
	"log"
	"os"

	"github.com/Gunvolt24/techshop/internal/repo/postgres"
	"github.com/pressly/goose/v3"
)

// ApplyMigrationsGoose — применяет встроенные миграции (migrations/*.sql)
// с выводом goose в stdout.
func ApplyMigrationsGoose(ctx context.Context, dsn string) error {
	goose.SetLogger(log.New(os.Stdout, "[goose] ", 0))
	return postgres.Migrate(ctx, dsn)
}
