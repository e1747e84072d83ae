package engine

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sharoushi/studybank/internal/bank"
)

func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func newTestEngine(t *testing.T) (*Engine, *bank.Store) {
	t.Helper()
	store, err := bank.Open(bank.Config{DataDir: t.TempDir()}, zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	subjects := []bank.Subject{
		{ID: 1, Name: "労働基準法", ShortName: "労基", SortOrder: 1},
		{ID: 7, Name: "健康保険法", ShortName: "健保", SortOrder: 2},
	}
	questions := []bank.Question{
		{SubjectID: 1, Year: 2021, YearJP: "令和3年", QuestionNum: 5, Limb: "A",
			Difficulty: "A", Expected: boolPtr(true), Body: "解雇の予告は30日前"},
		{SubjectID: 1, Year: 2021, YearJP: "令和3年", QuestionNum: 5, Limb: "B",
			Difficulty: "B", Expected: boolPtr(false), Body: "休業手当は平均賃金の6割"},
		{SubjectID: 1, Year: 2020, YearJP: "令和2年", QuestionNum: 3, Limb: "C",
			Difficulty: "C", Expected: nil, Body: "没問となった肢"},
		{SubjectID: 7, Year: 2019, YearJP: "平成31年", QuestionNum: 7, Limb: "D",
			Difficulty: "A", Expected: boolPtr(true), Body: "傷病手当金の支給期間"},
	}
	if err := store.ImportCorpus(subjects, questions); err != nil {
		t.Fatalf("import corpus: %v", err)
	}

	eng := New(store, zap.NewNop())
	t.Cleanup(eng.Shutdown)
	return eng, store
}

func questionID(t *testing.T, store *bank.Store, subjectID, year, num int, limb string) int64 {
	t.Helper()
	id, ok, err := store.FindQuestionID(subjectID, year, num, limb)
	if err != nil || !ok {
		t.Fatalf("find question %d/%d/%d/%s: ok=%v err=%v", subjectID, year, num, limb, ok, err)
	}
	return id
}

func recv[T any](t *testing.T, sub *bank.Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.Updates():
		if !ok {
			t.Fatal("updates channel closed")
		}
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	panic("unreachable")
}

func TestQuestions_FilterQuery(t *testing.T) {
	eng, _ := newTestEngine(t)

	got, err := eng.Questions(FilterQuery{Filter: bank.Filter{SubjectID: intPtr(1)}})
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("questions = %d, want 3", len(got))
	}
}

func TestQuestions_SearchQuery(t *testing.T) {
	eng, _ := newTestEngine(t)

	got, err := eng.Questions(SearchQuery{Text: "傷病手当金"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].SubjectID != 7 {
		t.Errorf("search = %+v, want the 健保 question", got)
	}
}

func TestQuestions_BookmarkQuery(t *testing.T) {
	eng, store := newTestEngine(t)
	id := questionID(t, store, 1, 2021, 5, "B")
	if _, err := eng.ToggleBookmark(id); err != nil {
		t.Fatal(err)
	}

	got, err := eng.Questions(BookmarkQuery{})
	if err != nil {
		t.Fatalf("bookmarked: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Errorf("bookmarked = %+v, want question %d", got, id)
	}
}

func TestQuestions_WeakQuery(t *testing.T) {
	eng, store := newTestEngine(t)
	id := questionID(t, store, 1, 2021, 5, "A")
	// Two wrong submissions cross the default threshold.
	for range 2 {
		if _, err := eng.SubmitAnswer(id, false); err != nil {
			t.Fatal(err)
		}
	}

	got, err := eng.Questions(WeakQuery{Days: DefaultWeakDays, MinErrors: DefaultWeakMinErrors})
	if err != nil {
		t.Fatalf("weak: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Errorf("weak = %+v, want question %d", got, id)
	}
}

func TestDraw_LimitAndDefault(t *testing.T) {
	eng, _ := newTestEngine(t)

	got, err := eng.Draw(TestQuery{Limit: 2})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("draw = %d questions, want 2", len(got))
	}

	// A non-positive limit falls back to the default, capped by corpus size.
	got, err = eng.Draw(TestQuery{})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("default draw = %d questions, want all 4", len(got))
	}
}

func TestDraw_Filtered(t *testing.T) {
	eng, _ := newTestEngine(t)

	got, err := eng.Draw(TestQuery{Filter: bank.Filter{Difficulty: strPtr("A")}, Limit: 10})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("draw = %d questions, want the 2 difficulty-A ones", len(got))
	}
	for _, q := range got {
		if q.Difficulty != "A" {
			t.Errorf("drew difficulty %q", q.Difficulty)
		}
	}
}

func TestSubmitAnswer_Verdict(t *testing.T) {
	eng, store := newTestEngine(t)
	id := questionID(t, store, 1, 2021, 5, "B") // expected answer: false

	v, err := eng.SubmitAnswer(id, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !v.Known || !v.IsCorrect || v.Expected != false {
		t.Errorf("verdict = %+v, want known correct", v)
	}

	v, err = eng.SubmitAnswer(id, true)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !v.Known || v.IsCorrect {
		t.Errorf("verdict = %+v, want known incorrect", v)
	}

	if n, _ := store.AnswerCount(); n != 2 {
		t.Errorf("answer records = %d, want 2", n)
	}
}

func TestSubmitAnswer_NoExpectedWritesNothing(t *testing.T) {
	eng, store := newTestEngine(t)
	id := questionID(t, store, 1, 2020, 3, "C") // carries no authoritative answer

	v, err := eng.SubmitAnswer(id, true)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if v.Known {
		t.Errorf("verdict = %+v, want no verdict", v)
	}
	if n, _ := store.AnswerCount(); n != 0 {
		t.Errorf("answer records = %d, want 0", n)
	}
}

func TestSubmitAnswer_UnknownQuestion(t *testing.T) {
	eng, store := newTestEngine(t)

	v, err := eng.SubmitAnswer(99999, true)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if v.Known {
		t.Errorf("verdict = %+v, want no verdict", v)
	}
	if n, _ := store.AnswerCount(); n != 0 {
		t.Errorf("answer records = %d, want 0", n)
	}
}

func TestToggleBookmark_Roundtrip(t *testing.T) {
	eng, store := newTestEngine(t)
	id := questionID(t, store, 7, 2019, 7, "D")

	on, err := eng.ToggleBookmark(id)
	if err != nil || !on {
		t.Fatalf("toggle on = %v, %v", on, err)
	}
	on, err = eng.ToggleBookmark(id)
	if err != nil || on {
		t.Fatalf("toggle off = %v, %v", on, err)
	}
	if n, _ := store.BookmarkCount(); n != 0 {
		t.Errorf("bookmarks = %d, want 0", n)
	}
}

func TestWatch_EmitsAndFollowsWrites(t *testing.T) {
	eng, store := newTestEngine(t)

	sub, err := eng.Watch("list", BookmarkQuery{})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if got := recv(t, sub); len(got) != 0 {
		t.Fatalf("initial snapshot = %d questions, want 0", len(got))
	}

	id := questionID(t, store, 1, 2021, 5, "A")
	if _, err := eng.ToggleBookmark(id); err != nil {
		t.Fatal(err)
	}
	if got := recv(t, sub); len(got) != 1 || got[0].ID != id {
		t.Errorf("update = %+v, want question %d", got, id)
	}
}

func TestWatch_TestQueryNotWatchable(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.Watch("test", TestQuery{Limit: 5}); err != ErrNotWatchable {
		t.Errorf("err = %v, want ErrNotWatchable", err)
	}
}

func TestWatch_SlotSupersession(t *testing.T) {
	eng, _ := newTestEngine(t)

	first, err := eng.Watch("list", FilterQuery{})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	recv(t, first)

	second, err := eng.Watch("list", BookmarkQuery{})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// The superseded subscription is cancelled before the new one starts.
	select {
	case <-first.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("superseded subscription not cancelled")
	}
	if got := recv(t, second); len(got) != 0 {
		t.Errorf("new slot snapshot = %d questions, want 0 bookmarked", len(got))
	}
}

func TestWatchBookmarkedIDs(t *testing.T) {
	eng, store := newTestEngine(t)

	sub := eng.WatchBookmarkedIDs("ids")
	if got := recv(t, sub); len(got) != 0 {
		t.Fatalf("initial ids = %v, want empty", got)
	}

	id := questionID(t, store, 1, 2021, 5, "B")
	if _, err := eng.ToggleBookmark(id); err != nil {
		t.Fatal(err)
	}
	if got := recv(t, sub); len(got) != 1 || got[0] != id {
		t.Errorf("ids = %v, want [%d]", got, id)
	}
}

func TestWatchSubjectsAndYears(t *testing.T) {
	eng, _ := newTestEngine(t)

	subjects := eng.WatchSubjects("subjects")
	if got := recv(t, subjects); len(got) != 2 || got[0].ID != 1 {
		t.Errorf("subjects = %+v", got)
	}

	years := eng.WatchYears("years", intPtr(1))
	if got := recv(t, years); len(got) != 2 || got[0] != 2021 {
		t.Errorf("years = %v, want [2021 2020]", got)
	}
}

func TestCancelSlot_UnknownSlotIsNoop(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.CancelSlot("nothing-here")
}

func TestShutdown_CancelsAllSlots(t *testing.T) {
	eng, _ := newTestEngine(t)

	a, err := eng.Watch("a", FilterQuery{})
	if err != nil {
		t.Fatal(err)
	}
	b := eng.WatchBookmarkedIDs("b")

	eng.Shutdown()

	for _, done := range []<-chan struct{}{a.Done(), b.Done()} {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("subscription not cancelled on shutdown")
		}
	}
}
