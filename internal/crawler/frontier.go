package crawler

// frontierEntry is a URL waiting to be visited at a given depth.
type frontierEntry struct {
	url   string
	depth int
}

// Frontier is the FIFO queue of URLs awaiting a visit. FIFO order is what
// makes the traversal breadth-first.
//
// Design decision: We use a slice with a moving head rather than
// container/list. Entries are small and appended in bursts, and the slice
// is compacted once the consumed prefix dominates.
type Frontier struct {
	entries []frontierEntry
	head    int
}

// NewFrontier returns an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{entries: make([]frontierEntry, 0)}
}

// Push appends an entry at the tail.
func (f *Frontier) Push(url string, depth int) {
	f.entries = append(f.entries, frontierEntry{url: url, depth: depth})
}

// Pop removes and returns the head entry.
func (f *Frontier) Pop() (frontierEntry, bool) {
	if f.Len() == 0 {
		return frontierEntry{}, false
	}
	e := f.entries[f.head]
	f.entries[f.head] = frontierEntry{}
	f.head++

	if f.head > 64 && f.head*2 >= len(f.entries) {
		f.entries = append(make([]frontierEntry, 0, len(f.entries)-f.head), f.entries[f.head:]...)
		f.head = 0
	}
	return e, true
}

// Peek returns the head entry without removing it.
func (f *Frontier) Peek() (frontierEntry, bool) {
	if f.Len() == 0 {
		return frontierEntry{}, false
	}
	return f.entries[f.head], true
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	return len(f.entries) - f.head
}
