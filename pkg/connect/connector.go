package connect

import "sort"

// ConnectorDefinition describes a deployed connector as the worker reports
// it: the effective configuration and the tasks allocated for it.
type ConnectorDefinition struct {
	Name   string            `json:"name"`
	Type   string            `json:"type,omitempty"`
	Config map[string]string `json:"config"`
	Tasks  []TaskID          `json:"tasks"`
}

// NewConnectorDefinition is the document submitted when deploying a
// connector. Config must include the connector.class key; the worker
// rejects the request otherwise.
type NewConnectorDefinition struct {
	Name   string            `json:"name" validate:"required"`
	Config map[string]string `json:"config" validate:"required"`
}

// ConnectorState is the state of the connector instance itself, as opposed
// to the states of its tasks.
type ConnectorState struct {
	State    string `json:"state"`
	WorkerID string `json:"worker_id"`
	Trace    string `json:"trace,omitempty"`
}

// ConnectorStatus reports the current state of a connector and each of its
// tasks. Trace carries the worker's stack trace when a task has failed.
type ConnectorStatus struct {
	Name      string         `json:"name"`
	Type      string         `json:"type,omitempty"`
	Connector ConnectorState `json:"connector"`
	Tasks     []TaskStatus   `json:"tasks"`
}

// Connector and task states reported by workers.
const (
	StateRunning    = "RUNNING"
	StatePaused     = "PAUSED"
	StateUnassigned = "UNASSIGNED"
	StateFailed     = "FAILED"
)

// ExpandedMetadata is one entry of an expanded connector listing. Info and
// Status are nil when the listing did not request that expansion.
type ExpandedMetadata struct {
	Info   *ConnectorDefinition `json:"info,omitempty"`
	Status *ConnectorStatus     `json:"status,omitempty"`
}

// ConnectorsMetadata maps connector names to their expanded metadata, as
// returned by the expanded connector listings.
type ConnectorsMetadata map[string]ExpandedMetadata

// Names returns the connector names in the listing, sorted.
func (m ConnectorsMetadata) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition returns the expanded definition for name, or nil when the
// listing has none for it.
func (m ConnectorsMetadata) Definition(name string) *ConnectorDefinition {
	return m[name].Info
}

// Status returns the expanded status for name, or nil when the listing has
// none for it.
func (m ConnectorsMetadata) Status(name string) *ConnectorStatus {
	return m[name].Status
}
