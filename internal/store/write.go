package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"binderscope/internal/catalog"
)

// ResetSchema drops the services and transactions tables if present and
// recreates them empty, then stamps catalog_meta with a fresh build id.
// Idempotent; always safe to call before a full rebuild.
func (s *Store) ResetSchema(ctx context.Context) error {
	// Transactions first: it carries the foreign key.
	drops := []string{
		"DROP TABLE IF EXISTS transactions",
		"DROP TABLE IF EXISTS services",
		"DROP TABLE IF EXISTS catalog_meta",
	}
	for _, stmt := range drops {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset schema: %w", err)
		}
	}

	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("reset schema: recreate: %w", err)
	}

	meta := catalog.BuildMeta{
		BuildID: uuid.Must(uuid.NewV7()).String(),
		BuiltAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_meta (build_id, built_at) VALUES (?, ?)
	`, meta.BuildID, meta.BuiltAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("reset schema: stamp build: %w", err)
	}

	return nil
}

// InsertServices bulk-inserts the enumerated services and returns them
// with their assigned ids, in insert order. A repeated name fails the
// whole insert with ErrDuplicateService.
func (s *Store) InsertServices(ctx context.Context, services []catalog.DeviceService) ([]catalog.Service, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("insert services: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO services (name, project) VALUES (?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("insert services: prepare: %w", err)
	}
	defer stmt.Close()

	inserted := make([]catalog.Service, 0, len(services))
	for _, svc := range services {
		var project sql.NullString
		if svc.Project != "" {
			project = sql.NullString{String: svc.Project, Valid: true}
		}

		result, err := stmt.ExecContext(ctx, svc.Name, project)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("insert services: %q: %w", svc.Name, ErrDuplicateService)
			}
			return nil, fmt.Errorf("insert services: %q: %w", svc.Name, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("insert services: last insert id: %w", err)
		}

		inserted = append(inserted, catalog.Service{
			ID:      id,
			Name:    svc.Name,
			Project: svc.Project,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("insert services: commit: %w", err)
	}

	return inserted, nil
}

// InsertTransactions bulk-inserts the extracted transactions for one
// service. No uniqueness is enforced beyond the foreign key existing;
// duplicate numbers within a service are preserved.
func (s *Store) InsertTransactions(ctx context.Context, serviceID int64, txns []catalog.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert transactions: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (number, method_name, arguments, returns, service_id)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("insert transactions: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		_, err := stmt.ExecContext(ctx, t.Number, t.MethodName, t.Arguments, t.Returns, serviceID)
		if err != nil {
			return fmt.Errorf("insert transactions: %q: %w", t.MethodName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert transactions: commit: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
