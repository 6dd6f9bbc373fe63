package store

import (
	"context"
	"embed"
	"log/slog"

	"github.com/pkg/errors"
)

//go:embed migration
var migrationFS embed.FS

// latestSchemaFileName is the full schema applied to fresh installations.
const latestSchemaFileName = "LATEST.sql"

// Migrate initializes the database schema when it does not exist yet.
// Incremental migrations are not needed while the schema is a single file
// per driver; the embedded LATEST.sql is the source of truth.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	buf, err := migrationFS.ReadFile("migration/" + s.profile.Driver + "/" + latestSchemaFileName)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema for driver %q", s.profile.Driver)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	slog.Info("database schema initialized", "driver", s.profile.Driver)
	return nil
}
