package playback

import "github.com/dgallion1/papervox/internal/pack"

// QueueItem is a document queued for narration with its configuration.
type QueueItem struct {
	Pack   *pack.Pack
	Config pack.Config
}

// Queue is an ordered play list with a current position. It is not safe
// for concurrent use.
type Queue struct {
	items []QueueItem
	idx   int
}

// Add appends it unless a document with the same id is already queued.
func (q *Queue) Add(it QueueItem) bool {
	if q.indexOf(it.Pack.ID) >= 0 {
		return false
	}
	q.items = append(q.items, it)
	return true
}

// Remove drops the document with id, keeping the position in range.
func (q *Queue) Remove(id string) bool {
	i := q.indexOf(id)
	if i < 0 {
		return false
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
	if q.idx >= len(q.items) {
		q.idx = max(0, len(q.items)-1)
	}
	return true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.items = nil
	q.idx = 0
}

// Current returns the item at the position.
func (q *Queue) Current() (QueueItem, bool) {
	if q.idx < 0 || q.idx >= len(q.items) {
		return QueueItem{}, false
	}
	return q.items[q.idx], true
}

// Next advances the position, stopping at the last item. It reports
// whether the position moved.
func (q *Queue) Next() bool {
	if q.idx+1 >= len(q.items) {
		return false
	}
	q.idx++
	return true
}

// Prev moves back, stopping at the first item.
func (q *Queue) Prev() bool {
	if q.idx == 0 || len(q.items) == 0 {
		return false
	}
	q.idx--
	return true
}

func (q *Queue) Len() int   { return len(q.items) }
func (q *Queue) Index() int { return q.idx }

func (q *Queue) indexOf(id string) int {
	for i, it := range q.items {
		if it.Pack.ID == id {
			return i
		}
	}
	return -1
}
