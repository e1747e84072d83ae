package bank

import (
	"sync"

	"go.uber.org/zap"
)

// watcherSet tracks live subscriptions and routes write notifications to
// the ones whose dependency tables were touched. The notify path never
// blocks: each watcher has a coalescing one-slot signal channel and does
// its re-evaluation on its own goroutine.
type watcherSet struct {
	mu       sync.Mutex
	next     int64
	watchers map[int64]*watcher
}

type watcher struct {
	tables map[string]bool
	signal chan struct{}
}

func newWatcherSet() *watcherSet {
	return &watcherSet{watchers: make(map[int64]*watcher)}
}

func (ws *watcherSet) add(tables []string) (int64, *watcher) {
	w := &watcher{
		tables: make(map[string]bool, len(tables)),
		signal: make(chan struct{}, 1),
	}
	for _, t := range tables {
		w.tables[t] = true
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.next++
	id := ws.next
	ws.watchers[id] = w
	return id, w
}

func (ws *watcherSet) remove(id int64) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	delete(ws.watchers, id)
}

func (ws *watcherSet) notify(tables ...string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, w := range ws.watchers {
		for _, t := range tables {
			if w.tables[t] {
				select {
				case w.signal <- struct{}{}:
				default: // already pending, coalesce
				}
				break
			}
		}
	}
}

// Subscription is a cancellable live query handle. It emits a fresh result
// snapshot on Updates immediately after creation and again whenever a
// committed write touches any of its dependency tables.
type Subscription[T any] struct {
	updates chan T
	done    chan struct{}
	stop    func()
	once    sync.Once
}

// Updates returns the snapshot channel. It is closed after Cancel.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Cancel stops the subscription and closes the updates channel. Safe to
// call more than once.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		close(s.done)
		s.stop()
	})
}

// Done reports cancellation to code that selects on it.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Watch creates a subscription evaluating eval whenever any of the given
// dependency tables changes. Evaluation errors are logged and the previous
// snapshot stands; a consumer that stops draining Updates stalls only its
// own subscription, never the writer.
func Watch[T any](s *Store, tables []string, eval func() (T, error)) *Subscription[T] {
	id, w := s.watchers.add(tables)

	sub := &Subscription[T]{
		updates: make(chan T, 1),
		done:    make(chan struct{}),
		stop:    func() { s.watchers.remove(id) },
	}

	go func() {
		defer close(sub.updates)

		emit := func() {
			v, err := eval()
			if err != nil {
				s.log.Error("subscription eval failed", zap.Strings("tables", tables), zap.Error(err))
				return
			}
			select {
			case sub.updates <- v:
			case <-sub.done:
			}
		}

		emit()
		for {
			select {
			case <-sub.done:
				return
			case <-w.signal:
				emit()
			}
		}
	}()

	return sub
}
