package connect

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NashTech-Labs/kafka-connect-client/internal/conntest"
)

func TestCreateAndInspectConnector(t *testing.T) {
	client, _, _ := newWorkerClient(t, conntest.Options{WorkerID: "10.1.2.3:8083"})
	ctx := context.Background()

	def, err := client.CreateConnector(ctx, NewConnectorDefinition{
		Name: "local-file-sink",
		Config: map[string]string{
			"connector.class": "FileStreamSinkConnector",
			"tasks.max":       "2",
			"topics":          "audit-events",
			"file":            "/tmp/sink.out",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "local-file-sink", def.Name)
	assert.Equal(t, "sink", def.Type)
	require.Len(t, def.Tasks, 2)
	assert.Equal(t, TaskID{Connector: "local-file-sink", Task: 0}, def.Tasks[0])

	names, err := client.Connectors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"local-file-sink"}, names)

	got, err := client.Connector(ctx, "local-file-sink")
	require.NoError(t, err)
	assert.Equal(t, def, got)

	config, err := client.ConnectorConfig(ctx, "local-file-sink")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sink.out", config["file"])

	status, err := client.ConnectorStatus(ctx, "local-file-sink")
	require.NoError(t, err)
	assert.Equal(t, "local-file-sink", status.Name)
	assert.Equal(t, StateRunning, status.Connector.State)
	assert.Equal(t, "10.1.2.3:8083", status.Connector.WorkerID)
	require.Len(t, status.Tasks, 2)
}

func TestCreateConnectorAlreadyExists(t *testing.T) {
	client, worker, _ := newWorkerClient(t, conntest.Options{})
	require.NoError(t, worker.Seed("taken", map[string]string{
		"connector.class": "FileStreamSourceConnector",
	}))

	_, err := client.CreateConnector(context.Background(), NewConnectorDefinition{
		Name:   "taken",
		Config: map[string]string{"connector.class": "FileStreamSourceConnector"},
	})
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Connector taken already exists", conflict.Message)
}

func TestUpdateConnectorConfigUpsert(t *testing.T) {
	client, _, _ := newWorkerClient(t, conntest.Options{})
	ctx := context.Background()

	// Updating a connector that does not exist deploys it.
	def, err := client.UpdateConnectorConfig(ctx, "fresh", map[string]string{
		"connector.class": "FileStreamSourceConnector",
		"file":            "/tmp/one.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", def.Name)

	def, err = client.UpdateConnectorConfig(ctx, "fresh", map[string]string{
		"connector.class": "FileStreamSourceConnector",
		"file":            "/tmp/two.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/two.txt", def.Config["file"])
}

func TestConnectorLifecycleOperations(t *testing.T) {
	client, worker, _ := newWorkerClient(t, conntest.Options{})
	ctx := context.Background()
	require.NoError(t, worker.Seed("cycle", map[string]string{
		"connector.class": "FileStreamSourceConnector",
		"tasks.max":       "3",
	}))

	ok, err := client.PauseConnector(ctx, "cycle")
	require.NoError(t, err)
	assert.True(t, ok)

	status, err := client.ConnectorStatus(ctx, "cycle")
	require.NoError(t, err)
	assert.Equal(t, StatePaused, status.Connector.State)

	ok, err = client.ResumeConnector(ctx, "cycle")
	require.NoError(t, err)
	assert.True(t, ok)

	status, err = client.ConnectorStatus(ctx, "cycle")
	require.NoError(t, err)
	assert.Equal(t, StateRunning, status.Connector.State)

	ok, err = client.RestartConnector(ctx, "cycle")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.DeleteConnector(ctx, "cycle")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = client.Connector(ctx, "cycle")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestConnectorTaskOperations(t *testing.T) {
	client, worker, _ := newWorkerClient(t, conntest.Options{})
	ctx := context.Background()
	require.NoError(t, worker.Seed("tasked", map[string]string{
		"connector.class": "FileStreamSourceConnector",
		"tasks.max":       "2",
	}))

	tasks, err := client.ConnectorTasks(ctx, "tasked")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, TaskID{Connector: "tasked", Task: 0}, tasks[0].ID)
	assert.Equal(t, "FileStreamSourceConnector", tasks[0].Config["task.class"])

	require.True(t, worker.FailTask("tasked", 1, "boom"))

	taskStatus, err := client.ConnectorTaskStatus(ctx, "tasked", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, taskStatus.ID)
	assert.Equal(t, StateFailed, taskStatus.State)
	assert.Equal(t, "boom", taskStatus.Trace)

	ok, err := client.RestartConnectorTask(ctx, "tasked", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	taskStatus, err = client.ConnectorTaskStatus(ctx, "tasked", 1)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, taskStatus.State)

	// Out-of-range task ids resolve to the worker's 404 document.
	_, err = client.ConnectorTaskStatus(ctx, "tasked", 9)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestConnectorTopicsRoundTrip(t *testing.T) {
	client, worker, _ := newWorkerClient(t, conntest.Options{})
	ctx := context.Background()
	require.NoError(t, worker.Seed("topic-sink", map[string]string{
		"connector.class": "FileStreamSinkConnector",
		"topics":          "alpha,beta",
	}))

	topics, err := client.ConnectorTopics(ctx, "topic-sink")
	require.NoError(t, err)
	assert.Equal(t, "topic-sink", topics.Name)
	assert.Equal(t, []string{"alpha", "beta"}, topics.Topics)

	ok, err := client.ResetConnectorTopics(ctx, "topic-sink")
	require.NoError(t, err)
	assert.True(t, ok)

	topics, err = client.ConnectorTopics(ctx, "topic-sink")
	require.NoError(t, err)
	assert.Empty(t, topics.Topics)
}

func TestConnectorsExpandedAccessors(t *testing.T) {
	client, worker, _ := newWorkerClient(t, conntest.Options{})
	ctx := context.Background()
	require.NoError(t, worker.Seed("zeta", map[string]string{
		"connector.class": "FileStreamSourceConnector",
	}))
	require.NoError(t, worker.Seed("alpha", map[string]string{
		"connector.class": "FileStreamSinkConnector",
		"topics":          "events",
	}))

	meta, err := client.ConnectorsAllExpanded(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, meta.Names())

	def := meta.Definition("alpha")
	require.NotNil(t, def)
	assert.Equal(t, "sink", def.Type)

	status := meta.Status("zeta")
	require.NotNil(t, status)
	assert.Equal(t, StateRunning, status.Connector.State)

	assert.Nil(t, meta.Definition("missing"))

	// Status-only expansion leaves definitions empty.
	meta, err = client.ConnectorsExpandedStatus(ctx)
	require.NoError(t, err)
	assert.Nil(t, meta.Definition("alpha"))
	assert.NotNil(t, meta.Status("alpha"))

	meta, err = client.ConnectorsExpandedInfo(ctx)
	require.NoError(t, err)
	assert.NotNil(t, meta.Definition("alpha"))
	assert.Nil(t, meta.Status("alpha"))
}

func TestConnectorPlugins(t *testing.T) {
	client, _, _ := newWorkerClient(t, conntest.Options{Plugins: []conntest.PluginInfo{
		{Class: "io.debezium.connector.postgresql.PostgresConnector", Type: "source", Version: "2.5.0"},
		{Class: "org.apache.kafka.connect.file.FileStreamSinkConnector", Type: "sink", Version: "3.7.0"},
	}})

	plugins, err := client.ConnectorPlugins(context.Background())
	require.NoError(t, err)
	require.Len(t, plugins, 2)
	assert.Equal(t, "io.debezium.connector.postgresql.PostgresConnector", plugins[0].Class)
	assert.Equal(t, "source", plugins[0].Type)
}

func TestValidatePluginConfigResults(t *testing.T) {
	client, _, _ := newWorkerClient(t, conntest.Options{})

	results, err := client.ValidatePluginConfig(context.Background(), PluginConfigDefinition{
		Name: "FileStreamSinkConnector",
		Config: map[string]string{
			"connector.class": "FileStreamSinkConnector",
			"tasks.max":       "abc",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "FileStreamSinkConnector", results.Name)
	assert.Equal(t, 1, results.ErrorCount)

	keyErrors := results.KeyErrors()
	require.Contains(t, keyErrors, "tasks.max")
	assert.Contains(t, keyErrors["tasks.max"][0], "Not a number of type INT")
}

func TestValidatePluginConfigClassMismatch(t *testing.T) {
	client, _, _ := newWorkerClient(t, conntest.Options{})

	_, err := client.ValidatePluginConfig(context.Background(), PluginConfigDefinition{
		Name:   "FileStreamSinkConnector",
		Config: map[string]string{"connector.class": "SomeOtherConnector"},
	})
	require.Error(t, err)

	var invalid *InvalidRequestError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
	assert.Contains(t, invalid.Message, "does not match the requested plugin")
}
