package connect

import (
	"github.com/Masterminds/semver/v3"
)

// ServerVersion identifies the worker that answered the root endpoint.
type ServerVersion struct {
	Version        string `json:"version"`
	Commit         string `json:"commit,omitempty"`
	KafkaClusterID string `json:"kafka_cluster_id,omitempty"`
}

// Minimum worker versions for API features that newer brokers added.
// Expanded connector listings arrived in 2.3.0, topic tracking in 2.5.0.
var (
	expandedMetadataConstraint *semver.Constraints
	topicTrackingConstraint    *semver.Constraints
)

func init() {
	var err error
	expandedMetadataConstraint, err = semver.NewConstraint(">= 2.3.0")
	if err != nil {
		panic(err)
	}
	topicTrackingConstraint, err = semver.NewConstraint(">= 2.5.0")
	if err != nil {
		panic(err)
	}
}

// SupportsExpandedMetadata reports whether the worker accepts the
// expand=info and expand=status connector listings. Returns false for
// version strings that do not parse as semantic versions.
func (v ServerVersion) SupportsExpandedMetadata() bool {
	return v.checkConstraint(expandedMetadataConstraint)
}

// SupportsTopicTracking reports whether the worker serves the connector
// topic tracking endpoints. Returns false for version strings that do not
// parse as semantic versions.
func (v ServerVersion) SupportsTopicTracking() bool {
	return v.checkConstraint(topicTrackingConstraint)
}

func (v ServerVersion) checkConstraint(c *semver.Constraints) bool {
	parsed, err := semver.NewVersion(v.Version)
	if err != nil {
		return false
	}
	// Vendor builds report versions like 3.7.0-ccs; the gate cares about
	// the release line only.
	if parsed.Prerelease() != "" {
		stripped, err := parsed.SetPrerelease("")
		if err != nil {
			return false
		}
		parsed = &stripped
	}
	return c.Check(parsed)
}
