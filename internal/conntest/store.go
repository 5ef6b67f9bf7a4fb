package conntest

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// connectorRecord is the worker-side state of one deployed connector.
type connectorRecord struct {
	config      map[string]string
	paused      bool
	topics      []string
	failedTasks map[int]string // task id -> trace
}

// taskCount derives the task allocation from tasks.max, defaulting to one
// task the way a worker does for configs that omit it.
func (c *connectorRecord) taskCount() int {
	n, err := strconv.Atoi(c.config["tasks.max"])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// connectorType guesses sink vs source from the presence of a topics list,
// which sink connectors must declare.
func (c *connectorRecord) connectorType() string {
	if _, ok := c.config["topics"]; ok {
		return "sink"
	}
	return "source"
}

// store holds the fake worker's connectors behind a mutex so concurrent
// requests behave like a real worker's synchronized herder.
type store struct {
	mu          sync.RWMutex
	connectors  map[string]*connectorRecord
	rebalancing bool
}

func newStore() *store {
	return &store{
		connectors: make(map[string]*connectorRecord),
	}
}

// topicsFromConfig seeds the tracked topic list from the declared topics of
// a sink connector.
func topicsFromConfig(config map[string]string) []string {
	raw, ok := config["topics"]
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

func cloneConfig(config map[string]string) map[string]string {
	out := make(map[string]string, len(config))
	for k, v := range config {
		out[k] = v
	}
	return out
}

func (s *store) list() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.connectors))
	for name := range s.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *store) create(name string, config map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rebalancing {
		return errRebalancing
	}
	if _, exists := s.connectors[name]; exists {
		return errConnectorExists
	}
	s.connectors[name] = &connectorRecord{
		config:      cloneConfig(config),
		topics:      topicsFromConfig(config),
		failedTasks: make(map[int]string),
	}
	return nil
}

// upsert replaces the connector's configuration, creating the connector
// when it does not exist. Reports whether it was created.
func (s *store) upsert(name string, config map[string]string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rebalancing {
		return false, errRebalancing
	}
	if rec, exists := s.connectors[name]; exists {
		rec.config = cloneConfig(config)
		rec.topics = topicsFromConfig(config)
		return false, nil
	}
	s.connectors[name] = &connectorRecord{
		config:      cloneConfig(config),
		topics:      topicsFromConfig(config),
		failedTasks: make(map[int]string),
	}
	return true, nil
}

func (s *store) delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rebalancing {
		return errRebalancing
	}
	if _, exists := s.connectors[name]; !exists {
		return errConnectorNotFound
	}
	delete(s.connectors, name)
	return nil
}

// view returns a deep copy of the record so handlers can render responses
// without holding the lock.
func (s *store) view(name string) (connectorRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.connectors[name]
	if !ok {
		return connectorRecord{}, false
	}
	out := connectorRecord{
		config:      cloneConfig(rec.config),
		paused:      rec.paused,
		topics:      append([]string(nil), rec.topics...),
		failedTasks: make(map[int]string, len(rec.failedTasks)),
	}
	for id, trace := range rec.failedTasks {
		out.failedTasks[id] = trace
	}
	return out, true
}

func (s *store) setPaused(name string, paused bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.connectors[name]
	if !ok {
		return false
	}
	rec.paused = paused
	return true
}

// clearFailures simulates the effect of a restart: failed tasks recover.
// When taskID is negative every task recovers.
func (s *store) clearFailures(name string, taskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.connectors[name]
	if !ok {
		return false
	}
	if taskID < 0 {
		rec.failedTasks = make(map[int]string)
		return true
	}
	if taskID >= rec.taskCount() {
		return false
	}
	delete(rec.failedTasks, taskID)
	return true
}

func (s *store) failTask(name string, taskID int, trace string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.connectors[name]
	if !ok || taskID >= rec.taskCount() {
		return false
	}
	rec.failedTasks[taskID] = trace
	return true
}

func (s *store) resetTopics(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.connectors[name]
	if !ok {
		return false
	}
	rec.topics = nil
	return true
}

func (s *store) setTopics(name string, topics []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.connectors[name]
	if !ok {
		return false
	}
	rec.topics = append([]string(nil), topics...)
	return true
}

func (s *store) setRebalancing(rebalancing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebalancing = rebalancing
}
