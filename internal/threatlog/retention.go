package threatlog

// RetentionPolicy decides which records survive after an append. Apply is
// called with the write lock held and must return the retained suffix without
// reordering. The default (nil) policy keeps everything, which matches the
// append-only contract but grows without bound.
type RetentionPolicy interface {
	Apply(records []*Record) []*Record
}

// MaxEntries retains only the most recent n records.
type MaxEntries int

// Apply implements RetentionPolicy.
func (m MaxEntries) Apply(records []*Record) []*Record {
	n := int(m)
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
