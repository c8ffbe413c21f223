package feed

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Row is any record with a stable identifier. Every table row carries one, so
// both the optimistic path and the feed path can reconcile by id.
type Row interface {
	RowID() string
}

// LessFunc orders two rows. Schedules sort by date then time ascending;
// members and notifications sort by creation time descending.
type LessFunc[T Row] func(a, b T) bool

// Collection is an ordered, id-keyed local copy of a remote table slice.
// It is safe for concurrent use: the subscription goroutine applies feed
// events while the consumer reads or applies optimistic writes.
type Collection[T Row] struct {
	mu   sync.RWMutex
	less LessFunc[T]
	rows []T
}

// NewCollection creates an empty collection with the given ordering.
func NewCollection[T Row](less LessFunc[T]) *Collection[T] {
	return &Collection[T]{less: less}
}

// Seed replaces the entire contents with rows from a bulk fetch.
func (c *Collection[T]) Seed(rows []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = make([]T, len(rows))
	copy(c.rows, rows)
	c.resort()
}

// Upsert inserts the row if its id is absent, otherwise replaces the existing
// element. Applying the same insert twice therefore converges to one element.
func (c *Collection[T]) Upsert(row T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(row.RowID()); i >= 0 {
		c.rows[i] = row
	} else {
		c.rows = append(c.rows, row)
	}
	c.resort()
}

// Replace swaps the element whose id matches the row. A miss is a no-op and
// returns false; an update event must never add a row.
func (c *Collection[T]) Replace(row T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(row.RowID())
	if i < 0 {
		return false
	}
	c.rows[i] = row
	c.resort()
	return true
}

// Remove deletes the element with the given id, if present.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return false
	}
	c.rows = append(c.rows[:i], c.rows[i+1:]...)
	return true
}

// Get returns the element with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	if i := c.index(id); i >= 0 {
		return c.rows[i], true
	}
	return zero, false
}

// Rows returns a copy of the ordered contents.
func (c *Collection[T]) Rows() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.rows))
	copy(out, c.rows)
	return out
}

// Len returns the number of elements.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// index returns the position of id, or -1. Callers hold the lock.
func (c *Collection[T]) index(id string) int {
	for i, r := range c.rows {
		if r.RowID() == id {
			return i
		}
	}
	return -1
}

// resort restores ordering after a mutation. Callers hold the lock.
func (c *Collection[T]) resort() {
	if c.less == nil {
		return
	}
	sort.SliceStable(c.rows, func(i, j int) bool {
		return c.less(c.rows[i], c.rows[j])
	})
}

// Apply decodes a change event's row image and applies it to the collection.
// Inserts upsert by id, updates replace by id (no-op on a miss), deletes
// remove by id.
func Apply[T Row](c *Collection[T], ev Event) error {
	switch ev.Kind {
	case KindInsert, KindUpdate:
		var row T
		if err := json.Unmarshal(ev.New, &row); err != nil {
			return fmt.Errorf("decode %s row: %w", ev.Kind, err)
		}
		if ev.Kind == KindInsert {
			c.Upsert(row)
		} else {
			c.Replace(row)
		}
		return nil
	case KindDelete:
		var row T
		if err := json.Unmarshal(ev.Old, &row); err != nil {
			return fmt.Errorf("decode delete row: %w", err)
		}
		c.Remove(row.RowID())
		return nil
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}
