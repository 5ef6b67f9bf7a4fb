package connect

// ConnectorTopics lists the topics a connector has interacted with since it
// was created or since its topic list was last reset.
type ConnectorTopics struct {
	Name   string
	Topics []string
}

// UnmarshalJSON unwraps the worker's response document, which nests the
// topic list under the connector name:
//
//	{"my-connector": {"topics": ["a", "b"]}}
func (t *ConnectorTopics) UnmarshalJSON(data []byte) error {
	var wire map[string]struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	for name, entry := range wire {
		t.Name = name
		t.Topics = entry.Topics
	}
	return nil
}

// MarshalJSON restores the worker's wire form.
func (t ConnectorTopics) MarshalJSON() ([]byte, error) {
	wire := map[string]struct {
		Topics []string `json:"topics"`
	}{
		t.Name: {Topics: t.Topics},
	}
	return json.Marshal(wire)
}
