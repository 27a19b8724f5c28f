package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migration database driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/ayaocrm/crm/internal/config"
)

// Migrate applies pending schema migrations from the embedded filesystem
func Migrate(migrations fs.FS, cfg config.PostgresCfg) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations - %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", src, postgresURL(cfg))
	if err != nil {
		return fmt.Errorf("failed to init migrator - %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations - %w", err)
	}
	return nil
}

func postgresURL(cfg config.PostgresCfg) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.Database,
	}

	q := u.Query()
	q.Set("sslmode", cfg.SslMode)
	u.RawQuery = q.Encode()

	return u.String()
}
