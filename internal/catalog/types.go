// Package catalog defines the record types shared by the store, the
// extractor, and the diff engine. A catalog is one SQLite file holding
// the services of a single platform image and the Binder transactions
// recovered for each of them.
package catalog

import "time"

// Service is one registered system service in a catalog.
type Service struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Project string `json:"project,omitempty"` // fully qualified interface name; empty when unresolved
}

// HasProject reports whether the service's backing source artifact was
// resolved during enumeration. Services without a project (typically
// native-only services) carry zero transactions.
func (s Service) HasProject() bool {
	return s.Project != ""
}

// Transaction is one numbered remote method exposed by a service
// interface. Arguments and Returns are the raw smali type descriptors as
// found in the proxy class; they are compared as opaque strings.
type Transaction struct {
	ID         int64  `json:"id"`
	Number     int64  `json:"number"`
	MethodName string `json:"method_name"`
	Arguments  string `json:"arguments"`
	Returns    string `json:"returns"`
	ServiceID  int64  `json:"service_id"`
}

// DeviceService is one entry from a device service enumeration, before
// it is persisted. Project is empty when the enumeration listed no
// interface for the service.
type DeviceService struct {
	Name    string
	Project string
}

// BuildMeta identifies one catalog build pass. A fresh BuildID is
// stamped every time the schema is reset.
type BuildMeta struct {
	BuildID string
	BuiltAt time.Time
}
