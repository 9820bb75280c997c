// Package secontext supplies optional security-context labels for
// service names, loaded from a YAML map file. Labels annotate display
// output only and never affect diff classification.
package secontext

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnknownLabel is rendered when a known service has no context entry.
// An unresolved lookup is always shown explicitly, never omitted.
const UnknownLabel = "unknown"

// Map holds service name -> security context label.
type Map map[string]string

// LoadFile reads a YAML map of service names to labels, e.g.
//
//	activity: u:object_r:activity_service:s0
//	mount: u:object_r:mount_service:s0
func LoadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load service contexts: %w", err)
	}

	m := Map{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse service contexts: %w", err)
	}

	return m, nil
}

// Lookup returns the label for a service name, or UnknownLabel when the
// map has no entry (including on a nil Map).
func (m Map) Lookup(name string) string {
	if label, ok := m[name]; ok && label != "" {
		return label
	}
	return UnknownLabel
}
