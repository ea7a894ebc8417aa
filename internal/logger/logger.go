package logger

import "sync"

// Logger is the structured logging sink injected through the pipeline.
// Components log under a stable component name so tests can assert on
// emitted diagnostics (e.g. drop counts) without parsing text.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Nop discards everything. Default when no sink is injected.
type Nop struct{}

func (Nop) Debug(string, string, map[string]interface{})   {}
func (Nop) Info(string, string, map[string]interface{})    {}
func (Nop) Warning(string, string, map[string]interface{}) {}
func (Nop) Error(string, error, map[string]interface{})    {}

// Entry is one captured log record.
type Entry struct {
	Level     string
	Component string
	Message   string
	Err       error
	Fields    map[string]interface{}
}

// Capture records entries in memory for test assertions. Safe for
// concurrent use; the pipeline logs from worker goroutines.
type Capture struct {
	mu      sync.Mutex
	entries []Entry
}

func NewCapture() *Capture { return &Capture{} }

func (c *Capture) record(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *Capture) Debug(component, message string, fields map[string]interface{}) {
	c.record(Entry{Level: "debug", Component: component, Message: message, Fields: fields})
}

func (c *Capture) Info(component, message string, fields map[string]interface{}) {
	c.record(Entry{Level: "info", Component: component, Message: message, Fields: fields})
}

func (c *Capture) Warning(component, message string, fields map[string]interface{}) {
	c.record(Entry{Level: "warning", Component: component, Message: message, Fields: fields})
}

func (c *Capture) Error(component string, err error, fields map[string]interface{}) {
	c.record(Entry{Level: "error", Component: component, Err: err, Fields: fields})
}

// Entries returns a copy of everything recorded so far.
func (c *Capture) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// MessagesFor returns the messages logged by one component, in order.
func (c *Capture) MessagesFor(component string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, e := range c.entries {
		if e.Component == component {
			out = append(out, e.Message)
		}
	}
	return out
}
