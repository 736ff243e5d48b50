package schema

// Entries is the ordered, append-only conversation history.
// It owns typed append methods so callers never build entries by hand.
type Entries struct {
	entries []Entry
}

// NewEntries returns an Entries initialised with a copy of the given entries.
func NewEntries(es ...Entry) Entries {
	out := make([]Entry, len(es))
	copy(out, es)
	return Entries{entries: out}
}

func (h *Entries) AddUser(content string) {
	h.entries = append(h.entries, NewUserEntry(content))
}

func (h *Entries) AddAssistant(content string) {
	h.entries = append(h.entries, NewAssistantEntry(content))
}

func (h *Entries) AddToolResult(toolName, result string) {
	h.entries = append(h.entries, NewToolResultEntry(toolName, result))
}

// Append copies the given entries onto the end of the history.
func (h *Entries) Append(es ...Entry) {
	h.entries = append(h.entries, es...)
}

// Clear drops every entry.
func (h *Entries) Clear() {
	h.entries = nil
}

func (h *Entries) Len() int { return len(h.entries) }

// Snapshot returns an independent copy of the entries.
func (h *Entries) Snapshot() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
