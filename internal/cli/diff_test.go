package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigsEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		deployed map[string]string
		manifest map[string]string
		want     bool
	}{
		{
			name:     "identical",
			deployed: map[string]string{"connector.class": "FileStreamSinkConnector", "topics": "logs"},
			manifest: map[string]string{"topics": "logs", "connector.class": "FileStreamSinkConnector"},
			want:     true,
		},
		{
			name:     "worker injected name is ignored",
			deployed: map[string]string{"name": "sink-a", "connector.class": "FileStreamSinkConnector"},
			manifest: map[string]string{"connector.class": "FileStreamSinkConnector"},
			want:     true,
		},
		{
			name:     "name declared in both must match",
			deployed: map[string]string{"name": "sink-a", "connector.class": "FileStreamSinkConnector"},
			manifest: map[string]string{"name": "sink-b", "connector.class": "FileStreamSinkConnector"},
			want:     false,
		},
		{
			name:     "value drift",
			deployed: map[string]string{"connector.class": "FileStreamSinkConnector", "tasks.max": "1"},
			manifest: map[string]string{"connector.class": "FileStreamSinkConnector", "tasks.max": "2"},
			want:     false,
		},
		{
			name:     "missing key",
			deployed: map[string]string{"connector.class": "FileStreamSinkConnector"},
			manifest: map[string]string{"connector.class": "FileStreamSinkConnector", "topics": "logs"},
			want:     false,
		},
		{
			name:     "both empty",
			deployed: map[string]string{},
			manifest: map[string]string{},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := configsEquivalent(tt.deployed, tt.manifest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeKeyDiffs(t *testing.T) {
	deployed := map[string]string{
		"name":            "sink-a",
		"connector.class": "FileStreamSinkConnector",
		"tasks.max":       "1",
		"file":            "/tmp/out.txt",
	}
	manifest := map[string]string{
		"connector.class": "FileStreamSinkConnector",
		"tasks.max":       "2",
		"topics":          "logs",
	}

	changes := computeKeyDiffs(deployed, manifest)

	// Sorted by key; the injected name key does not show up as removed.
	require.Len(t, changes, 3)
	assert.Equal(t, keyDiff{Key: "file", Action: "removed", Deployed: "/tmp/out.txt"}, changes[0])
	assert.Equal(t, keyDiff{Key: "tasks.max", Action: "changed", Deployed: "1", Manifest: "2"}, changes[1])
	assert.Equal(t, keyDiff{Key: "topics", Action: "added", Manifest: "logs"}, changes[2])
}

func TestComputeKeyDiffsNameDeclaredInManifest(t *testing.T) {
	deployed := map[string]string{"name": "sink-a", "connector.class": "FileStreamSinkConnector"}
	manifest := map[string]string{"name": "sink-b", "connector.class": "FileStreamSinkConnector"}

	changes := computeKeyDiffs(deployed, manifest)

	require.Len(t, changes, 1)
	assert.Equal(t, keyDiff{Key: "name", Action: "changed", Deployed: "sink-a", Manifest: "sink-b"}, changes[0])
}

func TestComputeKeyDiffsInSync(t *testing.T) {
	config := map[string]string{"connector.class": "FileStreamSinkConnector"}
	assert.Empty(t, computeKeyDiffs(config, config))
}
