package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"binderscope/internal/catalog"
)

// ListServices returns all services in the catalog. When orderByName is
// set the result is ordered by name ascending; otherwise by insert order.
// Every call re-issues the query, so the result always reflects current
// state.
//
// Returns an empty slice (not nil) for an empty catalog.
func (s *Store) ListServices(ctx context.Context, orderByName bool) ([]catalog.Service, error) {
	query := `SELECT id, name, project FROM services ORDER BY id ASC`
	if orderByName {
		query = `SELECT id, name, project FROM services ORDER BY name ASC`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	services := []catalog.Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}

	return services, nil
}

// FindServiceByName returns the service with the given registration
// name, or ErrNotFound.
func (s *Store) FindServiceByName(ctx context.Context, name string) (catalog.Service, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, project FROM services WHERE name = ?
	`, name)

	var svc catalog.Service
	var project sql.NullString
	if err := row.Scan(&svc.ID, &svc.Name, &project); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Service{}, fmt.Errorf("service %q: %w", name, ErrNotFound)
		}
		return catalog.Service{}, fmt.Errorf("find service %q: %w", name, err)
	}
	svc.Project = project.String

	return svc, nil
}

// ListTransactionsForService returns all transactions owned by a
// service. When orderByNumber is set the result is ordered by number
// ascending; otherwise by insert (extraction file) order.
//
// Returns an empty slice (not nil) if the service has no transactions.
func (s *Store) ListTransactionsForService(ctx context.Context, serviceID int64, orderByNumber bool) ([]catalog.Transaction, error) {
	query := `
		SELECT id, number, method_name, arguments, returns, service_id
		FROM transactions
		WHERE service_id = ?
		ORDER BY id ASC`
	if orderByNumber {
		query = `
		SELECT id, number, method_name, arguments, returns, service_id
		FROM transactions
		WHERE service_id = ?
		ORDER BY number ASC, id ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txns := []catalog.Transaction{}
	for rows.Next() {
		var t catalog.Transaction
		err := rows.Scan(&t.ID, &t.Number, &t.MethodName, &t.Arguments, &t.Returns, &t.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txns, nil
}

// BuildMeta returns the build stamp written by the last ResetSchema, or
// ErrNotFound for a catalog that was never built.
func (s *Store) BuildMeta(ctx context.Context) (catalog.BuildMeta, error) {
	row := s.db.QueryRowContext(ctx, `SELECT build_id, built_at FROM catalog_meta LIMIT 1`)

	var meta catalog.BuildMeta
	var builtAt string
	if err := row.Scan(&meta.BuildID, &builtAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.BuildMeta{}, fmt.Errorf("catalog meta: %w", ErrNotFound)
		}
		return catalog.BuildMeta{}, fmt.Errorf("catalog meta: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339, builtAt)
	if err != nil {
		return catalog.BuildMeta{}, fmt.Errorf("catalog meta: parse built_at: %w", err)
	}
	meta.BuiltAt = parsed

	return meta, nil
}

// scanService reads one service row, mapping NULL project to the empty
// string.
func scanService(rows *sql.Rows) (catalog.Service, error) {
	var svc catalog.Service
	var project sql.NullString
	if err := rows.Scan(&svc.ID, &svc.Name, &project); err != nil {
		return catalog.Service{}, fmt.Errorf("scan service: %w", err)
	}
	svc.Project = project.String
	return svc, nil
}
