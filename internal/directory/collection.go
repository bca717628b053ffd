package directory

// Collection is the ordered list of records shown to the user. It is a value
// type: Merge returns a new collection and leaves the receiver untouched.
type Collection []Record

// Index returns the position of the record with the given id, or -1.
func (c Collection) Index(id string) int {
	for i, r := range c {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

// Find returns the record with the given id.
func (c Collection) Find(id string) (Record, bool) {
	i := c.Index(id)
	if i < 0 {
		return nil, false
	}
	return c[i], true
}

// Merge shallow-merges fields into the record with the given id and returns
// the updated collection. Only the matched record is copied; every other
// record is shared with the receiver. If no record matches, the receiver is
// returned unchanged and ok is false.
func (c Collection) Merge(id string, fields Record) (out Collection, ok bool) {
	i := c.Index(id)
	if i < 0 {
		return c, false
	}
	merged := c[i].Clone()
	for k, v := range fields {
		merged[k] = v
	}
	out = make(Collection, len(c))
	copy(out, c)
	out[i] = merged
	return out, true
}
