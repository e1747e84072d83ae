// Package bank implements the persistent question bank for studybank.
//
// It uses SQLite with an FTS5 full-text index to store the imported exam
// corpus (subjects and questions) together with the user's answer history
// and bookmarks, and exposes the typed queries behind every study mode.
package bank

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timestampLayout is the TEXT timestamp format used for answer history and
// bookmark rows. It matches SQLite's datetime() output so rows written by
// Go and rows written by column defaults compare lexicographically.
const timestampLayout = "2006-01-02 15:04:05"

// Dependency table names used by subscriptions.
const (
	TableSubject       = "subject"
	TableQuestion      = "question"
	TableAnswerHistory = "answer_history"
	TableBookmark      = "bookmark"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Subject is one exam subject. Subjects are created by corpus import and
// immutable afterward.
type Subject struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short"`
	SortOrder int    `json:"sort"`
}

// Question is one limb of a past exam question. The identity triple
// (SubjectID, Year, QuestionNum, Limb) is unique across the corpus.
type Question struct {
	ID           int64    `json:"id"`
	SubjectID    int      `json:"subject_id"`
	Year         int      `json:"year"`
	YearJP       string   `json:"year_jp"`
	QuestionNum  int      `json:"question_num"`
	Limb         string   `json:"limb"`
	Difficulty   string   `json:"difficulty"`
	Expected     *bool    `json:"is_correct"`
	Body         string   `json:"body"`
	AccuracyRate *float64 `json:"accuracy_rate,omitempty"`
	Point        *string  `json:"point,omitempty"`
	Explanation  *string  `json:"explanation,omitempty"`
	LegalBasis   *string  `json:"legal_basis,omitempty"`
	Statute      *string  `json:"statute,omitempty"`
}

// AnswerRecord is one answer submission. History is append-only: records
// are never updated or deleted.
type AnswerRecord struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	UserAnswer bool   `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
	AnsweredAt string `json:"answered_at"`
}

// Bookmark marks one question. At most one live bookmark exists per question.
type Bookmark struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Color      int    `json:"color"`
	CreatedAt  string `json:"created_at"`
}

// Filter holds the optional dimensions shared by the filtered, bookmarked
// and random-test queries. A nil field matches everything on that dimension.
type Filter struct {
	SubjectID  *int
	YearMin    *int
	YearMax    *int
	Difficulty *string
}

// SubjectStat is the per-subject answer projection.
type SubjectStat struct {
	SubjectID int `json:"subject_id"`
	Total     int `json:"total"`
	Correct   int `json:"correct"`
}

// DailyStat is the per-day answer count projection.
type DailyStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds question bank configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration for the question bank.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".studybank")}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the persistent question bank backed by SQLite + FTS5.
type Store struct {
	db  *sql.DB
	cfg Config
	log *zap.Logger

	watchers *watcherSet
	now      func() time.Time // injected in tests
}

// Open opens (creating if needed) the question bank database under
// cfg.DataDir, applies pragmas and runs the schema migration.
func Open(cfg Config, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("bank: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "studybank.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("bank: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("bank: pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:       db,
		cfg:      cfg,
		log:      log,
		watchers: newWatcherSet(),
		now:      time.Now,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("bank: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().Format(timestampLayout)
}

// Now returns the current local time formatted as a store timestamp.
func Now() string {
	return time.Now().Format(timestampLayout)
}

// ─── Schema ──────────────────────────────────────────────────────────────────

const schema = `
	CREATE TABLE IF NOT EXISTS subject (
		id         INTEGER PRIMARY KEY,
		name       TEXT    NOT NULL,
		short_name TEXT    NOT NULL,
		sort_order INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS question (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id    INTEGER NOT NULL,
		year          INTEGER NOT NULL,
		year_jp       TEXT    NOT NULL,
		question_num  INTEGER NOT NULL,
		limb          TEXT    NOT NULL,
		difficulty    TEXT    NOT NULL,
		is_correct    INTEGER,
		body_text     TEXT    NOT NULL,
		accuracy_rate REAL,
		point_text    TEXT,
		explanation   TEXT,
		legal_basis   TEXT,
		statute_text  TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_question_subject    ON question(subject_id);
	CREATE INDEX IF NOT EXISTS idx_question_year       ON question(year);
	CREATE INDEX IF NOT EXISTS idx_question_difficulty ON question(difficulty);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_question_identity
		ON question(subject_id, year, question_num, limb);

	CREATE TABLE IF NOT EXISTS answer_history (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		question_id INTEGER NOT NULL,
		user_answer INTEGER NOT NULL,
		is_correct  INTEGER NOT NULL,
		answered_at TEXT    NOT NULL DEFAULT (datetime('now','localtime')),
		FOREIGN KEY (question_id) REFERENCES question(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_history_question ON answer_history(question_id);
	CREATE INDEX IF NOT EXISTS idx_history_answered ON answer_history(answered_at DESC);

	CREATE TABLE IF NOT EXISTS bookmark (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		question_id INTEGER NOT NULL,
		color       INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT    NOT NULL DEFAULT (datetime('now','localtime')),
		FOREIGN KEY (question_id) REFERENCES question(id) ON DELETE CASCADE
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_bookmark_question ON bookmark(question_id);

	CREATE VIRTUAL TABLE IF NOT EXISTS question_fts USING fts5(
		body_text,
		explanation,
		statute_text,
		content='question',
		content_rowid='id'
	);
`

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// ─── Counts ──────────────────────────────────────────────────────────────────

func (s *Store) count(table string) (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("bank: count %s: %w", table, err)
	}
	return n, nil
}

// QuestionCount returns the number of questions in the corpus.
func (s *Store) QuestionCount() (int, error) { return s.count("question") }

// SubjectCount returns the number of subjects in the corpus.
func (s *Store) SubjectCount() (int, error) { return s.count("subject") }

// AnswerCount returns the number of answer history records.
func (s *Store) AnswerCount() (int, error) { return s.count("answer_history") }

// BookmarkCount returns the number of live bookmarks.
func (s *Store) BookmarkCount() (int, error) { return s.count("bookmark") }

// ─── Corpus import ───────────────────────────────────────────────────────────

// ImportCorpus bulk-loads subjects and questions and rebuilds the full-text
// index, all in a single transaction. Either every row is visible afterward
// or none are.
func (s *Store) ImportCorpus(subjects []Subject, questions []Question) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("bank: begin import: %w", err)
	}
	defer tx.Rollback()

	for _, sub := range subjects {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO subject (id, name, short_name, sort_order) VALUES (?, ?, ?, ?)`,
			sub.ID, sub.Name, sub.ShortName, sub.SortOrder,
		); err != nil {
			return fmt.Errorf("bank: insert subject %d: %w", sub.ID, err)
		}
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO question
			(subject_id, year, year_jp, question_num, limb, difficulty, is_correct,
			 body_text, accuracy_rate, point_text, explanation, legal_basis, statute_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("bank: prepare question insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		if _, err := stmt.Exec(
			q.SubjectID, q.Year, q.YearJP, q.QuestionNum, q.Limb, q.Difficulty,
			nullableBool(q.Expected), q.Body, q.AccuracyRate,
			q.Point, q.Explanation, q.LegalBasis, q.Statute,
		); err != nil {
			return fmt.Errorf("bank: insert question %d-%d problem %d limb %s: %w",
				q.SubjectID, q.Year, q.QuestionNum, q.Limb, err)
		}
	}

	// External-content FTS tables do not see bulk inserts on their own;
	// rebuild repopulates the index from the question table.
	if _, err := tx.Exec(`INSERT INTO question_fts(question_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("bank: rebuild fts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bank: commit import: %w", err)
	}
	s.watchers.notify(TableSubject, TableQuestion)
	return nil
}

// ImportHistory writes migrated bookmark and answer records in a single
// transaction. Used only by the legacy history migration.
func (s *Store) ImportHistory(bookmarks []Bookmark, answers []AnswerRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("bank: begin history import: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bookmarks {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO bookmark (question_id, color, created_at) VALUES (?, ?, ?)`,
			b.QuestionID, b.Color, b.CreatedAt,
		); err != nil {
			return fmt.Errorf("bank: insert bookmark for question %d: %w", b.QuestionID, err)
		}
	}
	for _, a := range answers {
		if _, err := tx.Exec(
			`INSERT INTO answer_history (question_id, user_answer, is_correct, answered_at) VALUES (?, ?, ?, ?)`,
			a.QuestionID, a.UserAnswer, a.IsCorrect, a.AnsweredAt,
		); err != nil {
			return fmt.Errorf("bank: insert answer for question %d: %w", a.QuestionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("bank: commit history import: %w", err)
	}
	s.watchers.notify(TableBookmark, TableAnswerHistory)
	return nil
}

// ─── Lookups ─────────────────────────────────────────────────────────────────

// FindQuestionID resolves the identity triple plus limb to a question id.
// The second return is false when no such question exists.
func (s *Store) FindQuestionID(subjectID, year, questionNum int, limb string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(`
		SELECT id FROM question
		WHERE subject_id = ? AND year = ? AND question_num = ? AND limb = ?
		LIMIT 1
	`, subjectID, year, questionNum, limb).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("bank: find question: %w", err)
	}
	return id, true, nil
}

// QuestionByID returns the question with the given id, or nil when absent.
func (s *Store) QuestionByID(id int64) (*Question, error) {
	row := s.db.QueryRow(selectQuestion+" WHERE id = ? LIMIT 1", id)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bank: question by id: %w", err)
	}
	return q, nil
}

// Subjects returns all subjects ordered by sort order.
func (s *Store) Subjects() ([]Subject, error) {
	rows, err := s.db.Query(`SELECT id, name, short_name, sort_order FROM subject ORDER BY sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("bank: subjects: %w", err)
	}
	defer rows.Close()

	subjects := []Subject{}
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.ShortName, &sub.SortOrder); err != nil {
			return nil, fmt.Errorf("bank: scan subject: %w", err)
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

// Years returns the distinct question years, newest first, optionally
// restricted to one subject.
func (s *Store) Years(subjectID *int) ([]int, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT year FROM question
		WHERE (? IS NULL OR subject_id = ?)
		ORDER BY year DESC
	`, subjectID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("bank: years: %w", err)
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("bank: scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// BookmarkedIDs returns the ids of all bookmarked questions.
func (s *Store) BookmarkedIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT question_id FROM bookmark`)
	if err != nil {
		return nil, fmt.Errorf("bank: bookmarked ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("bank: scan bookmark id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Study-mode queries ──────────────────────────────────────────────────────

const selectQuestion = `
	SELECT id, subject_id, year, year_jp, question_num, limb, difficulty,
	       is_correct, body_text, accuracy_rate, point_text, explanation,
	       legal_basis, statute_text
	FROM question
`

const filterClause = `
	(? IS NULL OR subject_id = ?)
	AND (? IS NULL OR year >= ?)
	AND (? IS NULL OR year <= ?)
	AND (? IS NULL OR difficulty = ?)
`

func filterArgs(f Filter) []any {
	return []any{
		f.SubjectID, f.SubjectID,
		f.YearMin, f.YearMin,
		f.YearMax, f.YearMax,
		f.Difficulty, f.Difficulty,
	}
}

// Questions returns the sequential listing: optional filters, ordered by
// year desc, question number asc, limb asc.
func (s *Store) Questions(f Filter) ([]Question, error) {
	query := selectQuestion + " WHERE " + filterClause +
		" ORDER BY year DESC, question_num ASC, limb ASC"
	return s.queryQuestions(query, filterArgs(f)...)
}

// Random returns up to limit questions matching the filters, freshly and
// uniformly sampled on every call.
func (s *Store) Random(f Filter, limit int) ([]Question, error) {
	query := selectQuestion + " WHERE " + filterClause +
		" ORDER BY RANDOM() LIMIT ?"
	args := append(filterArgs(f), limit)
	return s.queryQuestions(query, args...)
}

// Bookmarked returns the bookmarked listing: the same optional filters,
// ordered by bookmark creation time (newest first) with the sequential
// ordering as tiebreak.
func (s *Store) Bookmarked(f Filter) ([]Question, error) {
	query := `
		SELECT q.id, q.subject_id, q.year, q.year_jp, q.question_num, q.limb,
		       q.difficulty, q.is_correct, q.body_text, q.accuracy_rate,
		       q.point_text, q.explanation, q.legal_basis, q.statute_text
		FROM question q
		INNER JOIN bookmark b ON q.id = b.question_id
		WHERE (? IS NULL OR q.subject_id = ?)
		AND (? IS NULL OR q.year >= ?)
		AND (? IS NULL OR q.year <= ?)
		AND (? IS NULL OR q.difficulty = ?)
		ORDER BY b.created_at DESC, q.year DESC, q.question_num ASC, q.limb ASC
	`
	return s.queryQuestions(query, filterArgs(f)...)
}

// Weak returns questions with at least minErrors incorrect answers within
// the trailing days-day window, ordered by error count desc then by the
// most recent error.
func (s *Store) Weak(days, minErrors int) ([]Question, error) {
	cutoff := s.now().AddDate(0, 0, -days).Format(timestampLayout)
	query := `
		SELECT q.id, q.subject_id, q.year, q.year_jp, q.question_num, q.limb,
		       q.difficulty, q.is_correct, q.body_text, q.accuracy_rate,
		       q.point_text, q.explanation, q.legal_basis, q.statute_text
		FROM question q
		INNER JOIN answer_history h ON q.id = h.question_id
		WHERE h.is_correct = 0 AND h.answered_at >= ?
		GROUP BY q.id
		HAVING COUNT(*) >= ?
		ORDER BY COUNT(*) DESC, MAX(h.answered_at) DESC
	`
	return s.queryQuestions(query, cutoff, minErrors)
}

// Search runs a prefix-match full-text search. The raw query is sanitized
// and tokenized; tokens combine with AND. A blank query returns an empty
// list, never the whole corpus.
func (s *Store) Search(raw string) ([]Question, error) {
	match, ok := buildMatchQuery(raw)
	if !ok {
		return []Question{}, nil
	}
	query := `
		SELECT q.id, q.subject_id, q.year, q.year_jp, q.question_num, q.limb,
		       q.difficulty, q.is_correct, q.body_text, q.accuracy_rate,
		       q.point_text, q.explanation, q.legal_basis, q.statute_text
		FROM question q
		INNER JOIN question_fts f ON f.rowid = q.id
		WHERE question_fts MATCH ?
		ORDER BY q.year DESC, q.question_num ASC, q.limb ASC
	`
	return s.queryQuestions(query, match)
}

// buildMatchQuery turns user input into an FTS5 MATCH expression: quote,
// parenthesis and colon characters are stripped, the rest is split on
// whitespace, and each token becomes a quoted prefix term ANDed together.
// Returns false when nothing searchable remains.
func buildMatchQuery(raw string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '(', ')', ':':
			return ' '
		}
		return r
	}, raw)

	tokens := strings.Fields(cleaned)
	if len(tokens) == 0 {
		return "", false
	}

	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = `"` + tok + `"*`
	}
	return strings.Join(terms, " AND "), true
}

func (s *Store) queryQuestions(query string, args ...any) ([]Question, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("bank: query questions: %w", err)
	}
	defer rows.Close()

	questions := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("bank: scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

type rowLike interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowLike) (*Question, error) {
	var q Question
	var expected sql.NullBool
	err := row.Scan(
		&q.ID, &q.SubjectID, &q.Year, &q.YearJP, &q.QuestionNum, &q.Limb,
		&q.Difficulty, &expected, &q.Body, &q.AccuracyRate,
		&q.Point, &q.Explanation, &q.LegalBasis, &q.Statute,
	)
	if err != nil {
		return nil, err
	}
	if expected.Valid {
		v := expected.Bool
		q.Expected = &v
	}
	return &q, nil
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

// ─── Mutations ───────────────────────────────────────────────────────────────

// AppendAnswer records one answer submission. History rows are never
// updated in place.
func (s *Store) AppendAnswer(questionID int64, userAnswer, isCorrect bool) error {
	_, err := s.db.Exec(
		`INSERT INTO answer_history (question_id, user_answer, is_correct, answered_at) VALUES (?, ?, ?, ?)`,
		questionID, userAnswer, isCorrect, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("bank: append answer: %w", err)
	}
	s.watchers.notify(TableAnswerHistory)
	return nil
}

// ToggleBookmark flips the bookmark state of a question: deletes the
// bookmark when present, inserts one with the given color otherwise.
// Returns the resulting state (true = now bookmarked).
func (s *Store) ToggleBookmark(questionID int64, color int) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("bank: begin toggle: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM bookmark WHERE question_id = ?)`, questionID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("bank: bookmark exists: %w", err)
	}

	if exists {
		if _, err := tx.Exec(`DELETE FROM bookmark WHERE question_id = ?`, questionID); err != nil {
			return false, fmt.Errorf("bank: delete bookmark: %w", err)
		}
	} else {
		if _, err := tx.Exec(
			`INSERT INTO bookmark (question_id, color, created_at) VALUES (?, ?, ?)`,
			questionID, color, s.timestamp(),
		); err != nil {
			return false, fmt.Errorf("bank: insert bookmark: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("bank: commit toggle: %w", err)
	}
	s.watchers.notify(TableBookmark)
	return !exists, nil
}

// ─── Stats projections ───────────────────────────────────────────────────────

// SubjectStats returns total and correct answer counts grouped by subject,
// ascending by subject id. Recomputed on every call.
func (s *Store) SubjectStats() ([]SubjectStat, error) {
	rows, err := s.db.Query(`
		SELECT q.subject_id,
		       COUNT(*) AS total,
		       SUM(CASE WHEN h.is_correct = 1 THEN 1 ELSE 0 END) AS correct
		FROM answer_history h
		INNER JOIN question q ON q.id = h.question_id
		GROUP BY q.subject_id
		ORDER BY q.subject_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("bank: subject stats: %w", err)
	}
	defer rows.Close()

	stats := []SubjectStat{}
	for rows.Next() {
		var st SubjectStat
		if err := rows.Scan(&st.SubjectID, &st.Total, &st.Correct); err != nil {
			return nil, fmt.Errorf("bank: scan subject stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// DailyStats returns answer counts grouped by calendar date, newest first.
func (s *Store) DailyStats() ([]DailyStat, error) {
	rows, err := s.db.Query(`
		SELECT date(answered_at) AS date, COUNT(*) AS count
		FROM answer_history
		GROUP BY date(answered_at)
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("bank: daily stats: %w", err)
	}
	defer rows.Close()

	stats := []DailyStat{}
	for rows.Next() {
		var st DailyStat
		if err := rows.Scan(&st.Date, &st.Count); err != nil {
			return nil, fmt.Errorf("bank: scan daily stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
