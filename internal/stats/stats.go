// Package stats exposes read-only projections over the answer history.
package stats

import (
	"github.com/sharoushi/studybank/internal/bank"
)

// Aggregator computes the per-subject and per-day projections. Both are
// recomputed on every observation; there is no caching layer.
type Aggregator struct {
	store *bank.Store
}

// New creates an Aggregator over the given bank.
func New(store *bank.Store) *Aggregator {
	return &Aggregator{store: store}
}

// PerSubject returns total and correct answer counts per subject,
// ascending by subject id. Empty history yields an empty slice.
func (a *Aggregator) PerSubject() ([]bank.SubjectStat, error) {
	return a.store.SubjectStats()
}

// PerDay returns answer counts per calendar date, newest first.
func (a *Aggregator) PerDay() ([]bank.DailyStat, error) {
	return a.store.DailyStats()
}

// WatchPerSubject re-emits the per-subject projection after every answer.
func (a *Aggregator) WatchPerSubject() *bank.Subscription[[]bank.SubjectStat] {
	return bank.Watch(a.store, []string{bank.TableAnswerHistory}, a.store.SubjectStats)
}

// WatchPerDay re-emits the per-day projection after every answer.
func (a *Aggregator) WatchPerDay() *bank.Subscription[[]bank.DailyStat] {
	return bank.Watch(a.store, []string{bank.TableAnswerHistory}, a.store.DailyStats)
}
