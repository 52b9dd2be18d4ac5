package lang

import (
	"iter"

	"github.com/google/btree"
)

// storeDegree is the B-tree degree of the program store.
const storeDegree = 8

// entry is a stored program line with the DATA values it declares.
type entry struct {
	Number int
	Stmts  []Stmt
	Data   []Value
}

func entryLess(a, b *entry) bool { return a.Number < b.Number }

// store holds numbered program lines ordered by line number.
type store struct {
	tree *btree.BTreeG[*entry]
}

func newStore() *store {
	return &store{tree: btree.NewG(storeDegree, entryLess)}
}

// put inserts e, replacing any line with the same number.
func (s *store) put(e *entry) { s.tree.ReplaceOrInsert(e) }

// remove deletes line n and reports whether it existed.
func (s *store) remove(n int) bool {
	_, ok := s.tree.Delete(&entry{Number: n})

	return ok
}

func (s *store) get(n int) (*entry, bool) { return s.tree.Get(&entry{Number: n}) }

func (s *store) first() (*entry, bool) { return s.tree.Min() }

// after returns the first line numbered greater than n.
func (s *store) after(n int) (e *entry, ok bool) {
	s.tree.AscendGreaterOrEqual(&entry{Number: n + 1}, func(item *entry) bool {
		e, ok = item, true

		return false
	})

	return e, ok
}

// between returns an iterator over lines numbered from lo to hi inclusive.
func (s *store) between(lo, hi int) iter.Seq[*entry] {
	return func(yield func(*entry) bool) {
		s.tree.AscendRange(&entry{Number: lo}, &entry{Number: hi + 1}, yield)
	}
}

// all returns an iterator over every line in ascending order.
func (s *store) all() iter.Seq[*entry] {
	return func(yield func(*entry) bool) { s.tree.Ascend(yield) }
}

func (s *store) len() int { return s.tree.Len() }

func (s *store) clear() { s.tree.Clear(false) }

// dataIndex is the flattened DATA sequence with the offset at which each
// line's values begin.
type dataIndex struct {
	values []Value
	lines  []int // line number per offset group, ascending
	starts []int // offset of the first value of lines[i]
}

// index flattens DATA values in line order, followed by extra.
func (s *store) index(extra []Value) dataIndex {
	var d dataIndex

	for e := range s.all() {
		if len(e.Data) == 0 {
			continue
		}

		d.lines = append(d.lines, e.Number)
		d.starts = append(d.starts, len(d.values))
		d.values = append(d.values, e.Data...)
	}

	d.values = append(d.values, extra...)

	return d
}

// offset returns the position of the first value declared on line n or the
// next line after it that declares data.
func (d dataIndex) offset(n int) int {
	for i, ln := range d.lines {
		if ln >= n {
			return d.starts[i]
		}
	}

	return len(d.values)
}
