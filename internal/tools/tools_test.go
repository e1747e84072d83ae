package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/sharoushi/studybank/internal/bank"
	"github.com/sharoushi/studybank/internal/engine"
	"github.com/sharoushi/studybank/internal/stats"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

func boolPtr(b bool) *bool { return &b }

// newTestEngine opens a bank in a temp directory, loads a small corpus and
// wraps it in an engine.
func newTestEngine(t *testing.T) (*engine.Engine, *bank.Store) {
	t.Helper()
	store, err := bank.Open(bank.Config{DataDir: t.TempDir()}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test bank: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	subjects := []bank.Subject{
		{ID: 1, Name: "労働基準法", ShortName: "労基", SortOrder: 1},
		{ID: 7, Name: "健康保険法", ShortName: "健保", SortOrder: 2},
	}
	questions := []bank.Question{
		{SubjectID: 1, Year: 2021, YearJP: "令和3年", QuestionNum: 5, Limb: "A",
			Difficulty: "A", Expected: boolPtr(true), Body: "解雇の予告は30日前に行う"},
		{SubjectID: 1, Year: 2021, YearJP: "令和3年", QuestionNum: 5, Limb: "B",
			Difficulty: "B", Expected: boolPtr(false), Body: "休業手当は、平均賃金の6割を支払う。"},
		{SubjectID: 1, Year: 2020, YearJP: "令和2年", QuestionNum: 3, Limb: "C",
			Difficulty: "C", Expected: nil, Body: "没問となった肢"},
		{SubjectID: 7, Year: 2019, YearJP: "平成31年", QuestionNum: 7, Limb: "D",
			Difficulty: "A", Expected: boolPtr(true), Body: "傷病手当金の支給期間"},
	}
	if err := store.ImportCorpus(subjects, questions); err != nil {
		t.Fatalf("failed to import corpus: %v", err)
	}

	eng := engine.New(store, zap.NewNop())
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

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// mustNotError asserts the Handle call returns no Go error and no tool error.
func mustNotError(t *testing.T, r *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if r.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(r))
	}
}

// mustBeToolError asserts the Handle call returns a tool error (not a Go error).
func mustBeToolError(t *testing.T, r *mcp.CallToolResult, err error, wantSubstr string) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	if !r.IsError {
		t.Fatalf("expected tool error, got: %s", resultText(r))
	}
	if text := resultText(r); !strings.Contains(text, wantSubstr) {
		t.Errorf("tool error = %q, want substring %q", text, wantSubstr)
	}
}

// ─── ListTool ────────────────────────────────────────────────────────────────

func TestListTool_Definition(t *testing.T) {
	eng, _ := newTestEngine(t)
	def := NewListTool(eng).Definition()

	if def.Name != "question_list" {
		t.Errorf("tool name = %q, want question_list", def.Name)
	}
	props := def.InputSchema.Properties
	for _, p := range []string{"subject_id", "year_min", "year_max", "difficulty"} {
		if _, ok := props[p]; !ok {
			t.Errorf("missing %q parameter", p)
		}
	}
	if len(def.InputSchema.Required) != 0 {
		t.Errorf("required = %v, want none", def.InputSchema.Required)
	}
}

func TestListTool_All(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewListTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)

	text := resultText(r)
	if !strings.Contains(text, "Found 4 questions") {
		t.Errorf("expected all 4 questions, got: %s", text)
	}
	// Newest year comes first.
	if strings.Index(text, "令和3年") > strings.Index(text, "平成31年") {
		t.Error("listing should start with the newest year")
	}
}

func TestListTool_Filtered(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewListTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"subject_id": float64(7),
	}))
	mustNotError(t, r, err)

	text := resultText(r)
	if !strings.Contains(text, "Found 1 questions") {
		t.Errorf("expected 1 question for subject 7, got: %s", text)
	}
	if !strings.Contains(text, "傷病手当金") {
		t.Error("expected the 健保 question body")
	}
}

func TestListTool_NoMatch(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewListTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"year_min": float64(2030),
	}))
	mustNotError(t, r, err)

	if text := resultText(r); !strings.Contains(text, "No questions matched") {
		t.Errorf("expected empty-result message, got: %s", text)
	}
}

func TestListTool_MarksMissingExpectedAnswer(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewListTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"subject_id": float64(1),
		"year_max":   float64(2020),
	}))
	mustNotError(t, r, err)

	if text := resultText(r); !strings.Contains(text, "expected answer: none recorded") {
		t.Errorf("voided limb should be flagged, got: %s", text)
	}
}

// ─── BookmarksTool ───────────────────────────────────────────────────────────

func TestBookmarksTool_EmptyAndAfterToggle(t *testing.T) {
	eng, store := newTestEngine(t)
	tool := NewBookmarksTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "No questions matched") {
		t.Errorf("expected no bookmarks yet, got: %s", resultText(r))
	}

	id := questionID(t, store, 1, 2021, 5, "B")
	if _, err := eng.ToggleBookmark(id); err != nil {
		t.Fatal(err)
	}

	r, err = tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "Found 1 questions") {
		t.Errorf("expected the bookmarked question, got: %s", resultText(r))
	}
}

// ─── WeakTool ────────────────────────────────────────────────────────────────

func TestWeakTool_EmptyWindow(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewWeakTool(eng, 0, 0)

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "No weak questions") {
		t.Errorf("expected empty weak message, got: %s", resultText(r))
	}
}

func TestWeakTool_ListsAfterRepeatedMisses(t *testing.T) {
	eng, store := newTestEngine(t)
	tool := NewWeakTool(eng, 0, 0)

	id := questionID(t, store, 1, 2021, 5, "A")
	for range 2 {
		if _, err := eng.SubmitAnswer(id, false); err != nil {
			t.Fatal(err)
		}
	}

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "Found 1 questions") {
		t.Errorf("expected the weak question, got: %s", resultText(r))
	}
}

func TestWeakTool_RejectsNonPositiveParams(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewWeakTool(eng, 0, 0)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"days": float64(0),
	}))
	mustBeToolError(t, r, err, "must be positive")
}

// ─── SearchTool ──────────────────────────────────────────────────────────────

func TestSearchTool_Definition(t *testing.T) {
	eng, _ := newTestEngine(t)
	def := NewSearchTool(eng).Definition()

	if def.Name != "question_search" {
		t.Errorf("tool name = %q, want question_search", def.Name)
	}
	found := false
	for _, req := range def.InputSchema.Required {
		if req == "query" {
			found = true
		}
	}
	if !found {
		t.Error("'query' should be required")
	}
}

func TestSearchTool_TermsANDTogether(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewSearchTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "休業手当 平均賃金",
	}))
	mustNotError(t, r, err)

	text := resultText(r)
	if !strings.Contains(text, "Found 1 questions") {
		t.Errorf("expected exactly the 問5 肢B question, got: %s", text)
	}
}

func TestSearchTool_BlankQuery(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewSearchTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "   ",
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "No questions matched") {
		t.Errorf("blank query should match nothing, got: %s", resultText(r))
	}
}

// ─── DrawTool ────────────────────────────────────────────────────────────────

func TestDrawTool_Limit(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewDrawTool(eng, 0)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"limit": float64(2),
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "Found 2 questions") {
		t.Errorf("expected a 2-question draw, got: %s", resultText(r))
	}
}

func TestDrawTool_FilterWithNoMatch(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewDrawTool(eng, 0)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"difficulty": "Z",
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "No questions matched") {
		t.Errorf("expected empty draw message, got: %s", resultText(r))
	}
}

// ─── SubmitTool ──────────────────────────────────────────────────────────────

func TestSubmitTool_CorrectAndIncorrect(t *testing.T) {
	eng, store := newTestEngine(t)
	tool := NewSubmitTool(eng)
	id := questionID(t, store, 1, 2021, 5, "B") // expected answer: false

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"question_id": float64(id),
		"answer":      false,
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "Correct.") {
		t.Errorf("expected Correct, got: %s", resultText(r))
	}

	r, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"question_id": float64(id),
		"answer":      true,
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "Incorrect") {
		t.Errorf("expected Incorrect, got: %s", resultText(r))
	}

	if n, _ := store.AnswerCount(); n != 2 {
		t.Errorf("answer records = %d, want 2", n)
	}
}

func TestSubmitTool_NoVerdictForVoidedQuestion(t *testing.T) {
	eng, store := newTestEngine(t)
	tool := NewSubmitTool(eng)
	id := questionID(t, store, 1, 2020, 3, "C") // no authoritative answer

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"question_id": float64(id),
		"answer":      true,
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "No verdict") {
		t.Errorf("expected no-verdict message, got: %s", resultText(r))
	}
	if n, _ := store.AnswerCount(); n != 0 {
		t.Errorf("answer records = %d, want 0", n)
	}
}

func TestSubmitTool_MissingParams(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewSubmitTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"answer": true,
	}))
	mustBeToolError(t, r, err, "question_id")

	r, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"question_id": float64(1),
	}))
	mustBeToolError(t, r, err, "answer")
}

// ─── ToggleTool ──────────────────────────────────────────────────────────────

func TestToggleTool_Roundtrip(t *testing.T) {
	eng, store := newTestEngine(t)
	tool := NewToggleTool(eng)
	id := questionID(t, store, 7, 2019, 7, "D")

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"question_id": float64(id),
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "Bookmarked question") {
		t.Errorf("expected bookmark confirmation, got: %s", resultText(r))
	}

	r, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"question_id": float64(id),
	}))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "Removed bookmark") {
		t.Errorf("expected removal confirmation, got: %s", resultText(r))
	}
}

func TestToggleTool_MissingID(t *testing.T) {
	eng, _ := newTestEngine(t)
	tool := NewToggleTool(eng)

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustBeToolError(t, r, err, "question_id")
}

// ─── SubjectsTool ────────────────────────────────────────────────────────────

func TestSubjectsTool_List(t *testing.T) {
	_, store := newTestEngine(t)
	tool := NewSubjectsTool(store)

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)

	text := resultText(r)
	if !strings.Contains(text, "2 subjects") {
		t.Errorf("expected 2 subjects, got: %s", text)
	}
	if !strings.Contains(text, "労働基準法") || !strings.Contains(text, "健康保険法") {
		t.Error("expected both subject names")
	}
}

func TestSubjectsTool_EmptyBank(t *testing.T) {
	store, err := bank.Open(bank.Config{DataDir: t.TempDir()}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test bank: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	tool := NewSubjectsTool(store)

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "No subjects loaded") {
		t.Errorf("expected empty-bank message, got: %s", resultText(r))
	}
}

// ─── StatsTool ───────────────────────────────────────────────────────────────

func TestStatsTool_EmptyHistory(t *testing.T) {
	_, store := newTestEngine(t)
	tool := NewStatsTool(stats.New(store))

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)
	if !strings.Contains(resultText(r), "No answers recorded yet") {
		t.Errorf("expected empty-history message, got: %s", resultText(r))
	}
}

func TestStatsTool_Projections(t *testing.T) {
	eng, store := newTestEngine(t)
	tool := NewStatsTool(stats.New(store))

	id := questionID(t, store, 1, 2021, 5, "A") // expected answer: true
	if _, err := eng.SubmitAnswer(id, true); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.SubmitAnswer(id, false); err != nil {
		t.Fatal(err)
	}

	r, err := tool.Handle(context.Background(), makeReq(nil))
	mustNotError(t, r, err)

	text := resultText(r)
	if !strings.Contains(text, "subject  1: 2 answered, 1 correct (50%)") {
		t.Errorf("expected per-subject line, got: %s", text)
	}
	if !strings.Contains(text, "Per day:") {
		t.Errorf("expected per-day section, got: %s", text)
	}
}
