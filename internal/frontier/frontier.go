package frontier

// Entry is one unit of pending crawl work.
type Entry struct {
	// URL is the candidate page, already normalized by Push.
	URL string

	// Depth is the link distance from the seed that discovered it.
	Depth int

	// DiscoveredFrom is the URL of the page whose links produced this
	// entry. Empty for seeds.
	DiscoveredFrom string
}

// Frontier is a FIFO queue of crawl entries with built-in deduplication.
//
// The visited set is monotonic for the lifetime of a run: a URL that has
// ever been pushed — whether or not it has been popped yet — is never
// accepted again. This prevents duplicate fetch dispatch before any
// safety or budget check even runs.
//
// Design decision: The frontier is not safe for concurrent use and does
// not try to be. The orchestrator owns it under a single-writer
// discipline; fetch workers never touch it. Keeping it lock-free makes
// the ordering and dedup invariants trivial to reason about.
type Frontier struct {
	queue []Entry
	seen  map[string]bool
}

// New creates an empty frontier.
func New() *Frontier {
	return &Frontier{
		queue: make([]Entry, 0),
		seen:  make(map[string]bool),
	}
}

// Push enqueues an entry unless its normalized URL has already been seen
// or enqueued. Returns true if the entry was accepted.
func (f *Frontier) Push(e Entry) bool {
	key := Normalize(e.URL)
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	e.URL = key
	f.queue = append(f.queue, e)
	return true
}

// Pop removes and returns the oldest entry.
// The second return value is false when the frontier is empty.
func (f *Frontier) Pop() (Entry, bool) {
	if len(f.queue) == 0 {
		return Entry{}, false
	}
	e := f.queue[0]
	f.queue = f.queue[1:]
	return e, true
}

// Seen reports whether a URL has ever been pushed this run.
func (f *Frontier) Seen(rawURL string) bool {
	return f.seen[Normalize(rawURL)]
}

// Len returns the number of entries waiting in the queue.
func (f *Frontier) Len() int {
	return len(f.queue)
}
