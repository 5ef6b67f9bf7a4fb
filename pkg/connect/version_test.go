package connect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerVersionFeatureGates(t *testing.T) {
	tests := []struct {
		version          string
		expandedMetadata bool
		topicTracking    bool
	}{
		{"3.7.0", true, true},
		{"2.5.0", true, true},
		{"2.4.1", true, false},
		{"2.3.0", true, false},
		{"2.2.2", false, false},
		{"1.0.0", false, false},
		// Vendor builds suffix the upstream version.
		{"3.7.0-ccs", true, true},
		{"2.4.0-cp1", true, false},
		// Unparseable versions gate everything off.
		{"unknown", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			v := ServerVersion{Version: tt.version}
			assert.Equal(t, tt.expandedMetadata, v.SupportsExpandedMetadata(), "expanded metadata gate")
			assert.Equal(t, tt.topicTracking, v.SupportsTopicTracking(), "topic tracking gate")
		})
	}
}
