package requestlog

// Logger is the minimal interface for logging request entries.
type Logger interface {
	Log(entry *Entry)
}

// Store defines the interface for request history storage.
// Store embeds Logger, so any Store implementation can be used where Logger is expected.
type Store interface {
	Logger

	// Get retrieves a log entry by ID.
	Get(id string) *Entry

	// List returns log entries newest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all log entries.
	Clear()

	// Count returns the number of log entries.
	Count() int
}

// Filter defines criteria for filtering request logs.
type Filter struct {
	// Method filters by HTTP method.
	Method string

	// Path filters by path prefix.
	Path string

	// StubID filters by matched stub ID.
	StubID string

	// Scenario filters by the matched stub's scenario.
	Scenario string

	// Status filters by response status code.
	Status int

	// Unmatched filters by whether the fallback answered.
	Unmatched *bool

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}

// ExtendedStore provides per-stub queries beyond the basic Store interface.
type ExtendedStore interface {
	Store

	// CountByStubID returns the number of entries answered by the given stub.
	CountByStubID(stubID string) int

	// Chronological returns all entries oldest first.
	Chronological() []*Entry
}
