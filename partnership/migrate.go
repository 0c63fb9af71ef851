package partnership

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/palchukovsky/partnership-aws/partnership/migrations"
)

// ApplyMigrations applies pending schema migrations from the embedded set.
// It returns the schema version after the update.
func ApplyMigrations(config *Config) (uint, error) {
	handle, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return 0, fmt.Errorf(`failed to open DB object: "%w"`, err)
	}
	defer handle.Close()

	driver, err := postgres.WithInstance(handle, &postgres.Config{})
	if err != nil {
		return 0, fmt.Errorf(`failed to create migration driver: "%w"`, err)
	}
	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return 0, fmt.Errorf(`failed to open migration source: "%w"`, err)
	}
	instance, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf(`failed to create migration instance: "%w"`, err)
	}

	if err = instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf(`failed to apply migrations: "%w"`, err)
	}
	version, _, err := instance.Version()
	if err != nil {
		return 0, fmt.Errorf(`failed to read schema version: "%w"`, err)
	}
	return version, nil
}
