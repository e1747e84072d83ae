package legacy

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sharoushi/studybank/internal/assets"
	"github.com/sharoushi/studybank/internal/bank"
	"github.com/sharoushi/studybank/internal/prefs"
)

// FlagHistoryImported is the persisted flag marking a completed migration.
const FlagHistoryImported = "history_imported_v1"

// Default asset names of the two legacy exports.
const (
	DefaultBookmarkAsset = "付箋出題.md"
	DefaultWeakAsset     = "弱点出題.md"
)

// DefaultBookmarkColor is the color tag given to migrated bookmarks.
const DefaultBookmarkColor = 1

// Migrator turns the legacy history exports into bookmark and answer
// records against an already-imported corpus.
type Migrator struct {
	store *bank.Store
	src   *assets.Source
	flags prefs.FlagStore
	log   *zap.Logger

	bookmarkAsset string
	weakAsset     string
	eras          EraTable
	labels        LabelTable
	now           func() string
}

// NewMigrator creates a Migrator with the default asset names and tables.
func NewMigrator(store *bank.Store, src *assets.Source, flags prefs.FlagStore, log *zap.Logger) *Migrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Migrator{
		store:         store,
		src:           src,
		flags:         flags,
		log:           log,
		bookmarkAsset: DefaultBookmarkAsset,
		weakAsset:     DefaultWeakAsset,
		eras:          DefaultEras,
		labels:        DefaultLabels,
		now:           nil,
	}
}

// UseAssets overrides the default export asset names. Empty names keep
// the defaults.
func (m *Migrator) UseAssets(bookmark, weak string) {
	if bookmark != "" {
		m.bookmarkAsset = bookmark
	}
	if weak != "" {
		m.weakAsset = weak
	}
}

// MigrateIfNeeded runs the legacy history migration unless one of three
// guards applies, each a silent skip: the flag is already set, the corpus
// is empty, or any bookmark or answer record already exists (genuine user
// data is never mixed with a legacy re-import).
//
// Resolved entries from both assets commit in one transaction, after which
// the flag is set. Unresolved entries are counted and dropped; once the
// flag is set they are not retried.
func (m *Migrator) MigrateIfNeeded() error {
	done, err := m.flags.Get(FlagHistoryImported)
	if err != nil {
		return fmt.Errorf("legacy: read flag: %w", err)
	}
	if done {
		m.log.Info("skip history migration: already imported")
		return nil
	}

	questions, err := m.store.QuestionCount()
	if err != nil {
		return fmt.Errorf("legacy: question count: %w", err)
	}
	if questions == 0 {
		m.log.Info("skip history migration: no questions in bank")
		return nil
	}

	bookmarks, err := m.store.BookmarkCount()
	if err != nil {
		return fmt.Errorf("legacy: bookmark count: %w", err)
	}
	answers, err := m.store.AnswerCount()
	if err != nil {
		return fmt.Errorf("legacy: answer count: %w", err)
	}
	if bookmarks > 0 || answers > 0 {
		m.log.Info("skip history migration: existing user data",
			zap.Int("bookmarks", bookmarks), zap.Int("answers", answers))
		return nil
	}

	bookmarkKeys, err := m.parseAsset(m.bookmarkAsset)
	if err != nil {
		return err
	}
	weakKeys, err := m.parseAsset(m.weakAsset)
	if err != nil {
		return err
	}
	if len(bookmarkKeys) == 0 && len(weakKeys) == 0 {
		m.log.Info("skip history migration: no parseable entries in assets")
		return nil
	}

	bookmarkIDs, bookmarkMisses, err := m.resolve(bookmarkKeys)
	if err != nil {
		return err
	}
	weakIDs, weakMisses, err := m.resolve(weakKeys)
	if err != nil {
		return err
	}

	now := m.timestamp()
	records := make([]bank.Bookmark, 0, len(bookmarkIDs))
	for _, id := range bookmarkIDs {
		records = append(records, bank.Bookmark{
			QuestionID: id,
			Color:      DefaultBookmarkColor,
			CreatedAt:  now,
		})
	}

	// Two synthetic misses per weak question, so imported weak items
	// immediately satisfy the default two-or-more-errors threshold. This
	// is a deliberate encoding, not a reconstruction of real history.
	history := make([]bank.AnswerRecord, 0, 2*len(weakIDs))
	for _, id := range weakIDs {
		for range 2 {
			history = append(history, bank.AnswerRecord{
				QuestionID: id,
				UserAnswer: false,
				IsCorrect:  false,
				AnsweredAt: now,
			})
		}
	}

	if err := m.store.ImportHistory(records, history); err != nil {
		return fmt.Errorf("legacy: commit history: %w", err)
	}
	if err := m.flags.Set(FlagHistoryImported, true); err != nil {
		return fmt.Errorf("legacy: set flag: %w", err)
	}

	m.log.Info("history migration completed",
		zap.Int("bookmarks", len(records)),
		zap.Int("bookmark_misses", bookmarkMisses),
		zap.Int("weak_questions", len(weakIDs)),
		zap.Int("weak_misses", weakMisses),
		zap.Int("answer_records", len(history)))
	return nil
}

// parseAsset reads one legacy export and extracts its keys. A missing
// asset contributes nothing; a found-but-unreadable one aborts the run so
// the migration (and its flag) retries next start.
func (m *Migrator) parseAsset(name string) ([]Key, error) {
	text, _, err := m.src.ReadText(name)
	if errors.Is(err, assets.ErrNotFound) {
		m.log.Warn("history asset not found", zap.String("asset", name))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("legacy: read %s: %w", name, err)
	}

	keys := ExtractKeys(text, m.eras, m.labels)
	m.log.Info("parsed history asset", zap.String("asset", name), zap.Int("entries", len(keys)))
	return keys, nil
}

// resolve maps keys to question ids by exact identity lookup, preserving
// first-occurrence order and dropping duplicates and misses.
func (m *Migrator) resolve(keys []Key) ([]int64, int, error) {
	seen := map[int64]bool{}
	ids := []int64{}
	misses := 0

	for _, key := range keys {
		id, ok, err := m.store.FindQuestionID(key.SubjectID, key.Year, key.QuestionNum, key.Limb)
		if err != nil {
			return nil, 0, fmt.Errorf("legacy: resolve key: %w", err)
		}
		if !ok {
			misses++
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, misses, nil
}

func (m *Migrator) timestamp() string {
	if m.now != nil {
		return m.now()
	}
	return bank.Now()
}
