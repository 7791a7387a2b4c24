package table

// Row is one keyed observation: an integer join key and a canonical class.
type Row struct {
	Key   int64
	Class string
}

// Labeled is a frame whose class column has been resolved.
type Labeled struct {
	Source string
	Frame  *Frame
	// Class is the resolved class column name.
	Class string
	// Keys are the key aliases present, in preference order.
	Keys []string
}

// HasKey reports whether key is one of the frame's join key columns.
func (l Labeled) HasKey(key string) bool {
	for _, k := range l.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Coercion summarizes what Keyed dropped.
type Coercion struct {
	BadKeys    int
	EmptyClass int
}

// Dropped is the total number of rows discarded.
func (c Coercion) Dropped() int { return c.BadKeys + c.EmptyClass }

// Keyed returns the rows with key coerced to an integer. Rows whose key does
// not coerce or whose class is blank are dropped and counted; duplicates are
// kept in input order.
func (l Labeled) Keyed(key string) ([]Row, Coercion) {
	var c Coercion
	rows := make([]Row, 0, l.Frame.Len())
	for i := range l.Frame.Records {
		k, ok := ParseKey(l.Frame.Cell(i, key))
		if !ok {
			c.BadKeys++
			continue
		}
		class := CanonicalClass(l.Frame.Cell(i, l.Class))
		if class == "" {
			c.EmptyClass++
			continue
		}
		rows = append(rows, Row{Key: k, Class: class})
	}
	return rows, c
}

// SharedKey picks the join key for a pair of tables: graph_index when both
// carry it, otherwise id when both carry it.
func SharedKey(a, b Labeled) (string, bool) {
	for _, k := range KeyAliases {
		if a.HasKey(k) && b.HasKey(k) {
			return k, true
		}
	}
	return "", false
}
