// Package topn maintains a bounded list of the highest-count keys,
// updated online as counter increments arrive.
//
// The list piggybacks on store updates so the final ranking can usually
// be served without a full store scan.
package topn

// Entry pairs a serialized store key with its current count.
type Entry struct {
	Key   string
	Count uint64
}

// List is a bounded list ordered by count descending, with ties in
// insertion order. While the list is full, every key whose count
// strictly exceeds the tail's is guaranteed to be present.
type List struct {
	cap     int
	entries []Entry
}

// New returns an empty list of the given capacity.
func New(capacity int) *List {
	if capacity < 1 {
		capacity = 1
	}
	return &List{cap: capacity}
}

// Observe records that key now has the given count.
//
// The first observation always primes the list, whatever its count.
// After that, a key displaces entries only when its count strictly
// exceeds the tail's or the list is under capacity; equal counts keep
// their existing order.
func (l *List) Observe(key []byte, count uint64) {
	if len(l.entries) == 0 {
		l.entries = append(l.entries, Entry{Key: string(key), Count: count})
		return
	}
	if count <= l.entries[len(l.entries)-1].Count && len(l.entries) >= l.cap {
		return
	}

	// One forward scan: the insertion point is the first entry this
	// count strictly beats, and any stale entry for the same key sits at
	// or after it (counts only grow).
	insert := -1
	old := -1
	for i := range l.entries {
		e := &l.entries[i]
		if insert < 0 && count > e.Count {
			insert = i
		}
		if e.Key == string(key) {
			old = i
			break
		}
	}
	if insert < 0 {
		insert = len(l.entries)
	}

	l.entries = append(l.entries, Entry{})
	copy(l.entries[insert+1:], l.entries[insert:])
	l.entries[insert] = Entry{Key: string(key), Count: count}

	if old >= 0 {
		old++ // shifted by the insert
		l.entries = append(l.entries[:old], l.entries[old+1:]...)
	}
	for len(l.entries) > l.cap {
		l.entries = l.entries[:len(l.entries)-1]
	}
}

// Len returns the current number of entries.
func (l *List) Len() int { return len(l.entries) }

// Cap returns the configured capacity.
func (l *List) Cap() int { return l.cap }

// Entries returns the backing slice, best first. Callers must not
// modify it.
func (l *List) Entries() []Entry { return l.entries }
