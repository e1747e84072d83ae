// Package corpus imports the bundled question corpus into the bank.
//
// The corpus ships as a JSON document, optionally gzip-compressed, holding
// an optional subject list and the full question list. Import runs once:
// a non-empty bank is never touched again.
package corpus

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/sharoushi/studybank/internal/assets"
	"github.com/sharoushi/studybank/internal/bank"
)

// DefaultCandidates are the corpus asset names, compressed first.
var DefaultCandidates = []string{"questions.json.gz", "questions.json"}

// document is the corpus asset shape.
type document struct {
	Subjects  []bank.Subject  `json:"subjects"`
	Questions []bank.Question `json:"questions"`
}

// Importer performs the one-time corpus import.
type Importer struct {
	store      *bank.Store
	src        *assets.Source
	candidates []string
	log        *zap.Logger
}

// New creates an Importer reading the corpus from src under the given
// candidate names (DefaultCandidates when empty).
func New(store *bank.Store, src *assets.Source, candidates []string, log *zap.Logger) *Importer {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: store, src: src, candidates: candidates, log: log}
}

// ImportIfNeeded loads the corpus unless the bank already holds questions.
// The whole load is one transaction: subjects, questions and the rebuilt
// search index become visible together or not at all.
func (im *Importer) ImportIfNeeded() error {
	count, err := im.store.QuestionCount()
	if err != nil {
		return fmt.Errorf("corpus: question count: %w", err)
	}
	if count > 0 {
		im.log.Info("skip corpus import: questions already present", zap.Int("count", count))
		return nil
	}

	doc, name, err := im.decode()
	if err != nil {
		return err
	}

	subjects := doc.Subjects
	if len(subjects) == 0 {
		subjects = synthesizeSubjects(doc.Questions)
		im.log.Info("no subjects in corpus asset, synthesized from questions",
			zap.Int("subjects", len(subjects)))
	}

	if err := im.store.ImportCorpus(subjects, doc.Questions); err != nil {
		return fmt.Errorf("corpus: import: %w", err)
	}

	im.log.Info("corpus import completed",
		zap.String("asset", name),
		zap.Int("subjects", len(subjects)),
		zap.Int("questions", len(doc.Questions)))
	return nil
}

func (im *Importer) decode() (*document, string, error) {
	rc, name, err := im.src.Open(im.candidates...)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	var doc document
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, "", &assets.CorruptError{Name: name, Err: err}
	}
	return &doc, name, nil
}

// synthesizeSubjects builds one generic subject per distinct subject id
// found in the questions, ascending by id, with sort order following that
// position.
func synthesizeSubjects(questions []bank.Question) []bank.Subject {
	seen := map[int]bool{}
	ids := []int{}
	for _, q := range questions {
		if !seen[q.SubjectID] {
			seen[q.SubjectID] = true
			ids = append(ids, q.SubjectID)
		}
	}
	sort.Ints(ids)

	subjects := make([]bank.Subject, len(ids))
	for i, id := range ids {
		name := fmt.Sprintf("科目%d", id)
		subjects[i] = bank.Subject{
			ID:        id,
			Name:      name,
			ShortName: name,
			SortOrder: i + 1,
		}
	}
	return subjects
}
