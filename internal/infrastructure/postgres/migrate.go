package postgres

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jhoicas/lux-ventas/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateLogger adapta el logger de la app a migrate.Logger.
type migrateLogger struct {
	log *logger.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool { return false }

// Migrate aplica las migraciones embebidas pendientes. Sin cambios no es error.
func Migrate(connString string, log *logger.Logger) error {
	dbURL, err := migrateURL(connString)
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("leer migraciones: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return fmt.Errorf("crear migrate: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{log: log}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info().Msg("esquema al día")
	case err != nil:
		version, dirty, _ := m.Version()
		return fmt.Errorf("aplicar migraciones (versión %d, dirty=%t): %w", version, dirty, err)
	default:
		version, _, _ := m.Version()
		log.Info().Uint("version", version).Msg("migraciones aplicadas")
	}
	return nil
}

// migrateURL cambia el esquema postgres:// por pgx5://, que es el que registra el driver.
func migrateURL(connString string) (string, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return "", fmt.Errorf("parse DSN: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("esquema de DSN no soportado: %q", u.Scheme)
	}
	return u.String(), nil
}
