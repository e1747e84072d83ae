// Package engine dispatches the study-mode queries over the question bank
// and handles the two user mutations, answer submission and bookmark
// toggling.
//
// Each study mode is a distinct query type carrying only the parameters
// that mode accepts; consumers hold either one-shot snapshots or live
// subscriptions keyed by slot.
package engine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sharoushi/studybank/internal/bank"
)

// DefaultBookmarkColor is applied when toggling a bookmark on.
const DefaultBookmarkColor = 1

// Defaults for the weak listing and the random test draw.
const (
	DefaultWeakDays      = 30
	DefaultWeakMinErrors = 2
	DefaultTestLimit     = 10
)

// ErrNotWatchable is returned when a subscription is requested for the
// test mode, which is defined as an independent fresh draw per call.
var ErrNotWatchable = fmt.Errorf("engine: test mode draws are not watchable")

// Query is the closed set of study-mode queries.
type Query interface {
	// deps names the tables the query result depends on.
	deps() []string
}

// FilterQuery is the sequential listing: optional subject, year range and
// difficulty filters.
type FilterQuery struct {
	Filter bank.Filter
}

// BookmarkQuery is the bookmarked listing with the same optional filters.
type BookmarkQuery struct {
	Filter bank.Filter
}

// WeakQuery is the weak-question aggregation. Both parameters are
// required; no other filter applies to this mode.
type WeakQuery struct {
	Days      int
	MinErrors int
}

// SearchQuery is the free-text search.
type SearchQuery struct {
	Text string
}

// TestQuery is the random test draw: optional filters plus a sample limit.
type TestQuery struct {
	Filter bank.Filter
	Limit  int
}

func (FilterQuery) deps() []string   { return []string{bank.TableQuestion} }
func (BookmarkQuery) deps() []string { return []string{bank.TableQuestion, bank.TableBookmark} }
func (WeakQuery) deps() []string     { return []string{bank.TableQuestion, bank.TableAnswerHistory} }
func (SearchQuery) deps() []string   { return []string{bank.TableQuestion} }
func (TestQuery) deps() []string     { return nil }

// Verdict is the outcome of an answer submission. Known is false when the
// question is missing or carries no authoritative answer; nothing was
// recorded in that case.
type Verdict struct {
	Known     bool
	IsCorrect bool
	Expected  bool
}

type canceler interface {
	Cancel()
}

// Engine serves the study-mode queries.
type Engine struct {
	store *bank.Store
	log   *zap.Logger

	mu    sync.Mutex
	slots map[string]canceler
}

// New creates an Engine over the given bank.
func New(store *bank.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, log: log, slots: map[string]canceler{}}
}

// Questions evaluates one query as a snapshot. A TestQuery performs a
// fresh uniform draw on every call.
func (e *Engine) Questions(q Query) ([]bank.Question, error) {
	switch q := q.(type) {
	case FilterQuery:
		return e.store.Questions(q.Filter)
	case BookmarkQuery:
		return e.store.Bookmarked(q.Filter)
	case WeakQuery:
		return e.store.Weak(q.Days, q.MinErrors)
	case SearchQuery:
		return e.store.Search(q.Text)
	case TestQuery:
		return e.Draw(q)
	default:
		return nil, fmt.Errorf("engine: unknown query type %T", q)
	}
}

// Draw samples up to q.Limit matching questions, uniformly and without
// ordering guarantees. Each call is an independent draw.
func (e *Engine) Draw(q TestQuery) ([]bank.Question, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultTestLimit
	}
	return e.store.Random(q.Filter, limit)
}

// Watch installs a live subscription for the query under the given slot.
// Any still-active subscription in the same slot is cancelled before the
// new one starts, so a slot never has two emitters racing. Test draws
// cannot be watched.
func (e *Engine) Watch(slot string, q Query) (*bank.Subscription[[]bank.Question], error) {
	if _, ok := q.(TestQuery); ok {
		return nil, ErrNotWatchable
	}

	e.CancelSlot(slot)
	sub := bank.Watch(e.store, q.deps(), func() ([]bank.Question, error) {
		return e.Questions(q)
	})
	e.install(slot, sub)
	return sub, nil
}

// WatchBookmarkedIDs emits the live set of bookmarked question ids.
func (e *Engine) WatchBookmarkedIDs(slot string) *bank.Subscription[[]int64] {
	e.CancelSlot(slot)
	sub := bank.Watch(e.store, []string{bank.TableBookmark}, e.store.BookmarkedIDs)
	e.install(slot, sub)
	return sub
}

// WatchSubjects emits the subject list whenever the corpus changes.
func (e *Engine) WatchSubjects(slot string) *bank.Subscription[[]bank.Subject] {
	e.CancelSlot(slot)
	sub := bank.Watch(e.store, []string{bank.TableSubject}, e.store.Subjects)
	e.install(slot, sub)
	return sub
}

// WatchYears emits the distinct year list for the optional subject filter.
func (e *Engine) WatchYears(slot string, subjectID *int) *bank.Subscription[[]int] {
	e.CancelSlot(slot)
	sub := bank.Watch(e.store, []string{bank.TableQuestion}, func() ([]int, error) {
		return e.store.Years(subjectID)
	})
	e.install(slot, sub)
	return sub
}

// CancelSlot cancels whatever subscription currently occupies the slot.
func (e *Engine) CancelSlot(slot string) {
	e.mu.Lock()
	prev := e.slots[slot]
	delete(e.slots, slot)
	e.mu.Unlock()
	if prev != nil {
		prev.Cancel()
	}
}

// Shutdown cancels every live subscription.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	subs := e.slots
	e.slots = map[string]canceler{}
	e.mu.Unlock()
	for _, sub := range subs {
		sub.Cancel()
	}
}

func (e *Engine) install(slot string, sub canceler) {
	e.mu.Lock()
	e.slots[slot] = sub
	e.mu.Unlock()
}

// SubmitAnswer checks the user's answer against the question's expected
// answer and appends exactly one history record. Unknown questions and
// questions without an authoritative answer yield no verdict and write
// nothing.
func (e *Engine) SubmitAnswer(questionID int64, userAnswer bool) (Verdict, error) {
	q, err := e.store.QuestionByID(questionID)
	if err != nil {
		return Verdict{}, err
	}
	if q == nil || q.Expected == nil {
		return Verdict{}, nil
	}

	isCorrect := *q.Expected == userAnswer
	if err := e.store.AppendAnswer(questionID, userAnswer, isCorrect); err != nil {
		return Verdict{}, err
	}
	return Verdict{Known: true, IsCorrect: isCorrect, Expected: *q.Expected}, nil
}

// ToggleBookmark flips the bookmark state of the question and returns the
// resulting state.
func (e *Engine) ToggleBookmark(questionID int64) (bool, error) {
	return e.store.ToggleBookmark(questionID, DefaultBookmarkColor)
}
