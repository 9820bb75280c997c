// Package extract recovers the transaction list of one service from its
// disassembled Stub and Stub$Proxy classes.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"binderscope/internal/catalog"
	"binderscope/internal/corpus"
	"binderscope/internal/smali"
)

// Extractor parses transaction metadata out of disassembled interface
// classes located through a corpus resolver.
type Extractor struct {
	resolver corpus.Resolver
}

// New creates an Extractor over the given resolver.
func New(resolver corpus.Resolver) *Extractor {
	return &Extractor{resolver: resolver}
}

// Extract returns the ordered transaction list for one service, with
// ServiceID left zero for the caller to assign on insert.
//
// An unavailable artifact is not an error: when the resolver returns no
// path, or the derived Stub/Proxy files are absent, Extract logs a
// warning and returns an empty list. Individual transactions whose proxy
// method block cannot be found are skipped the same way without aborting
// the rest of the service. Only unexpected I/O failures return an error.
func (e *Extractor) Extract(serviceName, project string) ([]catalog.Transaction, error) {
	path, err := e.resolver.Resolve(project)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", project, err)
	}
	if path == "" {
		slog.Warn("no disassembled source for service, skipping",
			"service", serviceName, "project", project)
		return nil, nil
	}

	stubPath, proxyPath := corpus.StubPaths(path)

	stubData, err := os.ReadFile(stubPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("stub class missing, skipping service",
				"service", serviceName, "path", stubPath)
			return nil, nil
		}
		return nil, fmt.Errorf("read stub %s: %w", stubPath, err)
	}

	fields, err := smali.ScanTransactionFields(bytes.NewReader(stubData))
	if err != nil {
		return nil, fmt.Errorf("scan stub %s: %w", stubPath, err)
	}
	if len(fields) == 0 {
		slog.Warn("stub class declares no transactions",
			"service", serviceName, "path", stubPath)
		return nil, nil
	}

	proxyData, err := os.ReadFile(proxyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("proxy class missing, skipping service",
				"service", serviceName, "path", proxyPath)
			return nil, nil
		}
		return nil, fmt.Errorf("read proxy %s: %w", proxyPath, err)
	}
	proxyText := string(proxyData)

	txns := make([]catalog.Transaction, 0, len(fields))
	for _, field := range fields {
		block, ok := smali.FindMethodBlock(proxyText, field.Name)
		if !ok {
			slog.Warn("no proxy method block for transaction, skipping",
				"service", serviceName, "method", field.Name)
			continue
		}

		arguments, returns, err := smali.ParseSignature(block.Signature, field.Name)
		if err != nil {
			slog.Warn("unparseable proxy signature, skipping",
				"service", serviceName, "method", field.Name, "error", err)
			continue
		}

		if arguments != "" {
			names := smali.ScanParamNames(block.Body)
			slog.Debug("parameter names",
				"service", serviceName, "method", field.Name, "names", names)
		}

		txns = append(txns, catalog.Transaction{
			Number:     field.Number,
			MethodName: field.Name,
			Arguments:  arguments,
			Returns:    returns,
		})
	}

	return txns, nil
}
