// Package conntest provides an in-memory fake of a Kafka Connect worker's
// REST API. The test suites drive it in-process through rest.TestTransport
// or httptest, and cmd/connect-mock serves it standalone for manual CLI
// runs. It mimics the worker's endpoint surface, its structured error
// documents, its 409 behavior during rebalances, and optional basic-auth
// enforcement.
package conntest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NashTech-Labs/kafka-connect-client/internal/common/logtrace"
)

var (
	errConnectorExists   = errors.New("connector already exists")
	errConnectorNotFound = errors.New("connector not found")
	errRebalancing       = errors.New("rebalance in progress")
)

// PluginInfo describes one connector plugin the fake worker advertises.
type PluginInfo struct {
	Class   string `json:"class"`
	Type    string `json:"type,omitempty"`
	Version string `json:"version,omitempty"`
}

// DefaultPlugins is the plugin catalog advertised when Options does not
// override it.
var DefaultPlugins = []PluginInfo{
	{Class: "org.apache.kafka.connect.file.FileStreamSinkConnector", Type: "sink", Version: "3.7.0"},
	{Class: "org.apache.kafka.connect.file.FileStreamSourceConnector", Type: "source", Version: "3.7.0"},
	{Class: "org.apache.kafka.connect.mirror.MirrorSourceConnector", Type: "source", Version: "3.7.0"},
}

// Options configures the fake worker.
type Options struct {
	Version        string        // advertised worker version, default "3.7.0"
	Commit         string        // advertised commit hash
	KafkaClusterID string        // advertised backing cluster id
	WorkerID       string        // worker id reported in statuses, default "127.0.0.1:8083"
	Username       string        // require basic auth when set
	Password       string        // expected password when Username is set
	HandleCORS     bool          // mount the CORS middleware
	Latency        time.Duration // artificial delay per request
	Plugins        []PluginInfo  // plugin catalog, default DefaultPlugins
}

func (o *Options) applyDefaults() {
	if o.Version == "" {
		o.Version = "3.7.0"
	}
	if o.Commit == "" {
		o.Commit = "2ae524ed625438c5"
	}
	if o.KafkaClusterID == "" {
		o.KafkaClusterID = "I4ZmrWqfT2e-upky_4fdPA"
	}
	if o.WorkerID == "" {
		o.WorkerID = "127.0.0.1:8083"
	}
	if o.Plugins == nil {
		o.Plugins = DefaultPlugins
	}
}

// WorkerServer is the fake Connect worker. Create it with CreateNewServer,
// mount its routes with MountHandlers, then serve Router or pass it to
// rest.TestTransport.
type WorkerServer struct {
	Router *chi.Mux
	opts   Options
	store  *store
}

// CreateNewServer creates a WorkerServer with the given options.
func CreateNewServer(opts Options) *WorkerServer {
	opts.applyDefaults()
	return &WorkerServer{
		Router: chi.NewRouter(),
		opts:   opts,
		store:  newStore(),
	}
}

// MountHandlers sets up middleware and all worker routes.
func (s *WorkerServer) MountHandlers() {
	s.Router.Use(s.requestLogger)
	if s.opts.HandleCORS {
		s.Router.Use(s.handleCORS)
	}
	if s.opts.Latency > 0 {
		s.Router.Use(s.injectLatency)
	}
	if s.opts.Username != "" {
		s.Router.Use(s.requireAuth)
	}

	s.Router.Get("/", s.getRoot)
	s.Router.Route("/connectors", func(r chi.Router) {
		r.Get("/", s.listConnectors)
		r.Post("/", s.createConnector)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.getConnector)
			r.Delete("/", s.deleteConnector)
			r.Get("/config", s.getConnectorConfig)
			r.Put("/config", s.putConnectorConfig)
			r.Get("/status", s.getConnectorStatus)
			r.Post("/restart", s.restartConnector)
			r.Put("/pause", s.pauseConnector)
			r.Put("/resume", s.resumeConnector)
			r.Get("/tasks", s.getConnectorTasks)
			r.Get("/tasks/{task}/status", s.getTaskStatus)
			r.Post("/tasks/{task}/restart", s.restartTask)
			r.Get("/topics", s.getConnectorTopics)
			r.Put("/topics/reset", s.resetConnectorTopics)
		})
	})
	s.Router.Get("/connector-plugins", s.listPlugins)
	s.Router.Put("/connector-plugins/{plugin}/config/validate", s.validatePluginConfig)

	if logtrace.IsTraceEnabled() {
		fmt.Println("Routes in worker router")
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			fmt.Printf("%s %s\n", method, route)
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			log.Error().Err(err).Msg("Error walking router")
		}
	}
}

// Seed deploys a connector directly into the store, bypassing HTTP.
func (s *WorkerServer) Seed(name string, config map[string]string) error {
	return s.store.create(name, config)
}

// SetRebalancing toggles the simulated rebalance; while set, mutating
// requests fail with the worker's 409 error document.
func (s *WorkerServer) SetRebalancing(rebalancing bool) {
	s.store.setRebalancing(rebalancing)
}

// FailTask marks one task as FAILED with the given trace.
func (s *WorkerServer) FailTask(name string, taskID int, trace string) bool {
	return s.store.failTask(name, taskID, trace)
}

// SetTopics overrides the tracked topics of a connector.
func (s *WorkerServer) SetTopics(name string, topics []string) bool {
	return s.store.setTopics(name, topics)
}

// Wire documents. The fake worker keeps its own shapes; a server does not
// share types with the clients that call it.

type taskID struct {
	Connector string `json:"connector"`
	Task      int    `json:"task"`
}

type connectorDefinition struct {
	Name   string            `json:"name"`
	Type   string            `json:"type,omitempty"`
	Config map[string]string `json:"config"`
	Tasks  []taskID          `json:"tasks"`
}

type instanceState struct {
	State    string `json:"state"`
	WorkerID string `json:"worker_id"`
}

type taskState struct {
	ID       int    `json:"id"`
	State    string `json:"state"`
	WorkerID string `json:"worker_id"`
	Trace    string `json:"trace,omitempty"`
}

type connectorStatus struct {
	Name      string        `json:"name"`
	Type      string        `json:"type,omitempty"`
	Connector instanceState `json:"connector"`
	Tasks     []taskState   `json:"tasks"`
}

type expandedMetadata struct {
	Info   *connectorDefinition `json:"info,omitempty"`
	Status *connectorStatus     `json:"status,omitempty"`
}

type taskInfo struct {
	ID     taskID            `json:"id"`
	Config map[string]string `json:"config"`
}

type errorBody struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

type configKeyDefinition struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Required      bool     `json:"required"`
	DefaultValue  string   `json:"default_value,omitempty"`
	Importance    string   `json:"importance,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
	Group         string   `json:"group,omitempty"`
	Dependents    []string `json:"dependents,omitempty"`
	Order         int      `json:"order,omitempty"`
}

type configKeyValue struct {
	Name    string   `json:"name"`
	Value   string   `json:"value,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Visible bool     `json:"visible,omitempty"`
}

type configEntry struct {
	Definition configKeyDefinition `json:"definition"`
	Value      configKeyValue      `json:"value"`
}

type validationResult struct {
	Name       string        `json:"name"`
	ErrorCount int           `json:"error_count"`
	Groups     []string      `json:"groups"`
	Configs    []configEntry `json:"configs"`
}

// Middleware.

func (s *WorkerServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = newRequestID()
		}
		ctx := log.With().Str("request_id", requestID).Logger().WithContext(r.Context())
		w.Header().Set("X-Request-Id", requestID)

		defer func() {
			log.Ctx(ctx).Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds())).
				Msg("request completed")
		}()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *WorkerServer) handleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{"Location", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

func (s *WorkerServer) injectLatency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(s.opts.Latency)
		next.ServeHTTP(w, r)
	})
}

func (s *WorkerServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.opts.Username || pass != s.opts.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="kafka-connect"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newRequestID() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

// Response helpers.

func sendJSON(w http.ResponseWriter, statusCode int, msg any) {
	body, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("unable to marshal response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

func sendError(w http.ResponseWriter, statusCode int, format string, args ...any) {
	sendJSON(w, statusCode, errorBody{
		ErrorCode: statusCode,
		Message:   fmt.Sprintf(format, args...),
	})
}

func sendNotFound(w http.ResponseWriter, name string) {
	sendError(w, http.StatusNotFound, "Connector %s not found", name)
}

func sendRebalancing(w http.ResponseWriter) {
	sendError(w, http.StatusConflict,
		"Cannot complete request momentarily due to stale configuration (typically caused by a concurrent config change)")
}

// pathParam returns the decoded value of a chi URL parameter. chi hands the
// segment back still percent-encoded when the request path needed escaping.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// Handlers.

func (s *WorkerServer) getRoot(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{
		"version":          s.opts.Version,
		"commit":           s.opts.Commit,
		"kafka_cluster_id": s.opts.KafkaClusterID,
	})
}

func (s *WorkerServer) definition(name string, rec connectorRecord) connectorDefinition {
	tasks := make([]taskID, 0, rec.taskCount())
	for i := 0; i < rec.taskCount(); i++ {
		tasks = append(tasks, taskID{Connector: name, Task: i})
	}
	return connectorDefinition{
		Name:   name,
		Type:   rec.connectorType(),
		Config: rec.config,
		Tasks:  tasks,
	}
}

func (s *WorkerServer) status(name string, rec connectorRecord) connectorStatus {
	state := "RUNNING"
	if rec.paused {
		state = "PAUSED"
	}
	tasks := make([]taskState, 0, rec.taskCount())
	for i := 0; i < rec.taskCount(); i++ {
		ts := taskState{ID: i, State: state, WorkerID: s.opts.WorkerID}
		if trace, failed := rec.failedTasks[i]; failed && !rec.paused {
			ts.State = "FAILED"
			ts.Trace = trace
		}
		tasks = append(tasks, ts)
	}
	return connectorStatus{
		Name:      name,
		Type:      rec.connectorType(),
		Connector: instanceState{State: state, WorkerID: s.opts.WorkerID},
		Tasks:     tasks,
	}
}

func (s *WorkerServer) listConnectors(w http.ResponseWriter, r *http.Request) {
	names := s.store.list()

	expansions := r.URL.Query()["expand"]
	if len(expansions) == 0 {
		sendJSON(w, http.StatusOK, names)
		return
	}

	wantInfo := false
	wantStatus := false
	for _, e := range expansions {
		switch e {
		case "info":
			wantInfo = true
		case "status":
			wantStatus = true
		}
	}

	out := make(map[string]expandedMetadata, len(names))
	for _, name := range names {
		rec, ok := s.store.view(name)
		if !ok {
			continue
		}
		meta := expandedMetadata{}
		if wantInfo {
			def := s.definition(name, rec)
			meta.Info = &def
		}
		if wantStatus {
			status := s.status(name, rec)
			meta.Status = &status
		}
		out[name] = meta
	}
	sendJSON(w, http.StatusOK, out)
}

func (s *WorkerServer) createConnector(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string            `json:"name"`
		Config map[string]string `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Unexpected character in request body")
		return
	}
	if req.Name == "" {
		sendError(w, http.StatusBadRequest, "Connector name is required")
		return
	}
	if err := s.store.create(req.Name, req.Config); err != nil {
		switch {
		case errors.Is(err, errRebalancing):
			sendRebalancing(w)
		case errors.Is(err, errConnectorExists):
			sendError(w, http.StatusConflict, "Connector %s already exists", req.Name)
		default:
			sendError(w, http.StatusInternalServerError, "%v", err)
		}
		return
	}
	rec, _ := s.store.view(req.Name)
	sendJSON(w, http.StatusCreated, s.definition(req.Name, rec))
}

func (s *WorkerServer) getConnector(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	rec, ok := s.store.view(name)
	if !ok {
		sendNotFound(w, name)
		return
	}
	sendJSON(w, http.StatusOK, s.definition(name, rec))
}

func (s *WorkerServer) deleteConnector(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	switch err := s.store.delete(name); {
	case errors.Is(err, errRebalancing):
		sendRebalancing(w)
	case errors.Is(err, errConnectorNotFound):
		sendNotFound(w, name)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *WorkerServer) getConnectorConfig(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	rec, ok := s.store.view(name)
	if !ok {
		sendNotFound(w, name)
		return
	}
	sendJSON(w, http.StatusOK, rec.config)
}

func (s *WorkerServer) putConnectorConfig(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	var config map[string]string
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		sendError(w, http.StatusBadRequest, "Unexpected character in request body")
		return
	}
	created, err := s.store.upsert(name, config)
	if err != nil {
		sendRebalancing(w)
		return
	}
	rec, _ := s.store.view(name)
	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}
	sendJSON(w, statusCode, s.definition(name, rec))
}

func (s *WorkerServer) getConnectorStatus(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	rec, ok := s.store.view(name)
	if !ok {
		sendNotFound(w, name)
		return
	}
	sendJSON(w, http.StatusOK, s.status(name, rec))
}

func (s *WorkerServer) restartConnector(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if !s.store.clearFailures(name, -1) {
		sendNotFound(w, name)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *WorkerServer) pauseConnector(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if !s.store.setPaused(name, true) {
		sendNotFound(w, name)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *WorkerServer) resumeConnector(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if !s.store.setPaused(name, false) {
		sendNotFound(w, name)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *WorkerServer) getConnectorTasks(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	rec, ok := s.store.view(name)
	if !ok {
		sendNotFound(w, name)
		return
	}
	tasks := make([]taskInfo, 0, rec.taskCount())
	for i := 0; i < rec.taskCount(); i++ {
		taskConfig := cloneConfig(rec.config)
		taskConfig["task.class"] = rec.config["connector.class"]
		tasks = append(tasks, taskInfo{
			ID:     taskID{Connector: name, Task: i},
			Config: taskConfig,
		})
	}
	sendJSON(w, http.StatusOK, tasks)
}

func (s *WorkerServer) getTaskStatus(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	rec, ok := s.store.view(name)
	if !ok {
		sendNotFound(w, name)
		return
	}
	id, err := strconv.Atoi(pathParam(r, "task"))
	if err != nil || id < 0 || id >= rec.taskCount() {
		sendError(w, http.StatusNotFound, "Task %s not found in connector %s", pathParam(r, "task"), name)
		return
	}
	sendJSON(w, http.StatusOK, s.status(name, rec).Tasks[id])
}

func (s *WorkerServer) restartTask(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	id, err := strconv.Atoi(pathParam(r, "task"))
	if err != nil || id < 0 || !s.store.clearFailures(name, id) {
		sendError(w, http.StatusNotFound, "Task %s not found in connector %s", pathParam(r, "task"), name)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *WorkerServer) getConnectorTopics(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	rec, ok := s.store.view(name)
	if !ok {
		sendNotFound(w, name)
		return
	}
	topics := rec.topics
	if topics == nil {
		topics = []string{}
	}
	sendJSON(w, http.StatusOK, map[string]map[string][]string{
		name: {"topics": topics},
	})
}

func (s *WorkerServer) resetConnectorTopics(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if !s.store.resetTopics(name) {
		sendNotFound(w, name)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *WorkerServer) listPlugins(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.opts.Plugins)
}

// validatePluginConfig checks a candidate configuration the way a worker's
// AbstractHerder does for the closed set of keys the fake understands.
func (s *WorkerServer) validatePluginConfig(w http.ResponseWriter, r *http.Request) {
	plugin := pathParam(r, "plugin")

	var config map[string]string
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		sendError(w, http.StatusBadRequest, "Unexpected character in request body")
		return
	}
	if class := config["connector.class"]; class != "" && class != plugin {
		sendError(w, http.StatusBadRequest,
			"Connector configuration is invalid: connector.class %s does not match the requested plugin %s", config["connector.class"], plugin)
		return
	}

	type keyCheck struct {
		name     string
		keyType  string
		required bool
		check    func(value string, present bool) []string
	}
	checks := []keyCheck{
		{
			name: "connector.class", keyType: "STRING", required: true,
			check: func(value string, present bool) []string {
				if !present || value == "" {
					return []string{`Missing required configuration "connector.class" which has no default value.`}
				}
				return nil
			},
		},
		{
			name: "tasks.max", keyType: "INT",
			check: func(value string, present bool) []string {
				if !present {
					return nil
				}
				if _, err := strconv.Atoi(value); err != nil {
					return []string{fmt.Sprintf("Invalid value %s for configuration tasks.max: Not a number of type INT", value)}
				}
				return nil
			},
		},
		{
			name: "name", keyType: "STRING",
			check: func(string, bool) []string { return nil },
		},
		{
			name: "topics", keyType: "LIST",
			check: func(string, bool) []string { return nil },
		},
	}

	result := validationResult{
		Name:    plugin,
		Groups:  []string{"Common"},
		Configs: make([]configEntry, 0, len(checks)),
	}
	for i, kc := range checks {
		raw, present := config[kc.name]
		keyErrors := kc.check(raw, present)
		result.ErrorCount += len(keyErrors)
		result.Configs = append(result.Configs, configEntry{
			Definition: configKeyDefinition{
				Name:       kc.name,
				Type:       kc.keyType,
				Required:   kc.required,
				Importance: "HIGH",
				Group:      "Common",
				Order:      i + 1,
			},
			Value: configKeyValue{
				Name:    kc.name,
				Value:   raw,
				Errors:  keyErrors,
				Visible: true,
			},
		})
	}

	sendJSON(w, http.StatusOK, result)
}
