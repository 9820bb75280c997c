// Package diff compares two independently built catalogs and classifies
// each of the project catalog's transactions as unchanged, new, or
// modified relative to the baseline.
//
// The comparison is project-driven: the per-service loop walks only the
// project catalog's transaction names, so transactions present only in
// the baseline (removed ones) are never reported. That boundary is
// deliberate and pinned by tests.
package diff

import (
	"context"
	"errors"
	"fmt"

	"binderscope/internal/catalog"
	"binderscope/internal/store"
)

// Change classifies one reported transaction.
type Change string

const (
	ChangeNew      Change = "new"
	ChangeModified Change = "modified"
)

// TransactionChange is one reported difference. Old fields are set for
// modified entries only and carry the baseline's prior values.
type TransactionChange struct {
	Kind         Change `json:"kind"`
	Number       int64  `json:"number"`
	MethodName   string `json:"method_name"`
	Arguments    string `json:"arguments"`
	Returns      string `json:"returns"`
	OldArguments string `json:"old_arguments,omitempty"`
	OldReturns   string `json:"old_returns,omitempty"`
}

// ServiceReport is the diff result for one service. NewService marks a
// service absent from the baseline; all its transactions are reported
// as new. An empty Changes slice on an existing service means the
// interface is unchanged.
type ServiceReport struct {
	Service    string              `json:"service"`
	Project    string              `json:"project,omitempty"`
	NewService bool                `json:"new_service"`
	Changes    []TransactionChange `json:"changes"`
}

// Engine diffs a project catalog against a baseline catalog. Both
// handles are read-only for the lifetime of the engine and are owned by
// the caller.
type Engine struct {
	project  *store.Store
	baseline *store.Store
}

// New creates an Engine over the two catalogs.
func New(project, baseline *store.Store) *Engine {
	return &Engine{project: project, baseline: baseline}
}

// DiffService compares one service between the two catalogs.
//
// A service missing from the project catalog is an error: it is not
// tracked in the current catalog, which is distinct from being new. A
// service missing from the baseline is reported with NewService set and
// every transaction classified as new.
func (e *Engine) DiffService(ctx context.Context, name string) (*ServiceReport, error) {
	svc, err := e.project.FindServiceByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("service %q is not tracked in the project catalog: %w", name, err)
		}
		return nil, err
	}

	// Display order follows number ascending as persisted.
	txns, err := e.project.ListTransactionsForService(ctx, svc.ID, true)
	if err != nil {
		return nil, err
	}

	report := &ServiceReport{
		Service: svc.Name,
		Project: svc.Project,
		Changes: []TransactionChange{},
	}

	baseSvc, err := e.baseline.FindServiceByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			report.NewService = true
			for _, t := range txns {
				report.Changes = append(report.Changes, newChange(t))
			}
			return report, nil
		}
		return nil, err
	}

	baseTxns, err := e.baseline.ListTransactionsForService(ctx, baseSvc.ID, true)
	if err != nil {
		return nil, err
	}

	// Name matching is exact string equality on method_name; when a
	// service repeats a name, only the first occurrence is compared
	// against.
	baseByName := firstByName(baseTxns)

	for _, t := range txns {
		base, ok := baseByName[t.MethodName]
		if !ok {
			report.Changes = append(report.Changes, newChange(t))
			continue
		}
		if t.Arguments != base.Arguments || t.Returns != base.Returns {
			report.Changes = append(report.Changes, TransactionChange{
				Kind:         ChangeModified,
				Number:       t.Number,
				MethodName:   t.MethodName,
				Arguments:    t.Arguments,
				Returns:      t.Returns,
				OldArguments: base.Arguments,
				OldReturns:   base.Returns,
			})
		}
	}

	return report, nil
}

// DiffAll diffs every service in the project catalog in name-sorted
// order. A failing service does not halt the batch; its error is
// aggregated into the returned error alongside the reports that did
// succeed.
func (e *Engine) DiffAll(ctx context.Context) ([]*ServiceReport, error) {
	services, err := e.project.ListServices(ctx, true)
	if err != nil {
		return nil, err
	}

	var reports []*ServiceReport
	var errs []error
	for _, svc := range services {
		report, err := e.DiffService(ctx, svc.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("diff %s: %w", svc.Name, err))
			continue
		}
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}

func newChange(t catalog.Transaction) TransactionChange {
	return TransactionChange{
		Kind:       ChangeNew,
		Number:     t.Number,
		MethodName: t.MethodName,
		Arguments:  t.Arguments,
		Returns:    t.Returns,
	}
}

// firstByName indexes transactions by method name, keeping the first
// occurrence when a name repeats.
func firstByName(txns []catalog.Transaction) map[string]catalog.Transaction {
	byName := make(map[string]catalog.Transaction, len(txns))
	for _, t := range txns {
		if _, ok := byName[t.MethodName]; !ok {
			byName[t.MethodName] = t
		}
	}
	return byName
}
