// Package device parses captured device output into enumeration records.
// binderscope never talks to a device itself; it consumes a `service
// list` dump saved from one.
package device

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"binderscope/internal/catalog"
)

// Matches e.g.
//
//	12	activity: [android.app.IActivityManager]
//	15	SurfaceFlinger: []
//
// Empty brackets mean the registration carried no interface name, so no
// backing source artifact can be resolved for that service.
var serviceLineRe = regexp.MustCompile(`^\d+\s+(\S+):\s+\[(.*)\]\s*$`)

// ParseServiceList reads a captured `service list` dump and returns one
// record per service line. Header and malformed lines are skipped with a
// warning rather than failing the enumeration.
func ParseServiceList(r io.Reader) ([]catalog.DeviceService, error) {
	var entries []catalog.DeviceService

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		m := serviceLineRe.FindStringSubmatch(line)
		if m == nil {
			// First line is normally the "Found N services:" header.
			if lineNo > 1 {
				slog.Warn("skipping malformed service list line", "line", lineNo)
			}
			continue
		}

		entries = append(entries, catalog.DeviceService{Name: m[1], Project: m[2]})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read service list: %w", err)
	}

	return entries, nil
}

// LoadServiceList parses a `service list` dump from disk.
func LoadServiceList(path string) ([]catalog.DeviceService, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open service list: %w", err)
	}
	defer f.Close()

	return ParseServiceList(f)
}
