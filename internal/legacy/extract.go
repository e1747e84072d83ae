// Package legacy migrates the free-text study-history exports of the old
// app into structured bookmark and answer records.
//
// The old exports are markdown-ish prose in which each remembered question
// appears as a bold header like
//
//	**付箋 令和3年 労働基準法 問5 肢C**
//
// Extraction scans the whole text for those headers and ignores everything
// else.
package legacy

import (
	"regexp"
	"strconv"
	"strings"
)

// Key identifies one question in the corpus by its identity triple plus
// limb letter.
type Key struct {
	SubjectID   int
	Year        int
	QuestionNum int
	Limb        string
}

// EraTable maps an era name to the offset added to the era-year numeral to
// produce a western calendar year.
type EraTable map[string]int

// DefaultEras covers the two eras occurring in the legacy exports.
var DefaultEras = EraTable{
	"令和": 2018,
	"平成": 1988,
}

// PrefixRule maps any subject label starting with Prefix to a subject id.
type PrefixRule struct {
	Prefix    string
	SubjectID int
}

// LabelTable resolves subject labels: exact matches first, then prefix
// rules in order.
type LabelTable struct {
	Exact  map[string]int
	Prefix []PrefixRule
}

// DefaultLabels is the subject label table of the exam corpus.
var DefaultLabels = LabelTable{
	Exact: map[string]int{
		"労働基準法":               1,
		"労働安全衛生法":             2,
		"労災保険法":               3,
		"雇用保険法":               4,
		"労働保険徴収法":             5,
		"労務管理その他の労働に関する一般常識": 6,
		"一般常識（労一）":            6,
		"健康保険法":               7,
		"厚生年金保険法":             8,
		"国民年金法":               9,
		"社会保険に関する一般常識":        10,
		"一般常識（社一）":            10,
	},
	Prefix: []PrefixRule{
		{Prefix: "徴収法", SubjectID: 5},
	},
}

// Runs of spacing inside a header may be regular spaces, tabs, no-break
// spaces or ideographic spaces.
const spaceClass = `[ \t\x{00A0}\x{3000}]+`

var (
	headerRe = regexp.MustCompile(
		`\*\*(?:付箋|弱点)` + spaceClass +
			`((?:令和|平成)(?:元|\d+)年)` + spaceClass +
			`(.+?)` + spaceClass +
			`問(\d+)` + spaceClass +
			`肢([A-Ea-e])\*\*`)

	eraYearRe = regexp.MustCompile(`^(\D+?)(元|\d+)年$`)
)

// ExtractKeys scans text for history headers and returns the structured
// keys in first-occurrence order, deduplicated. Entries whose era, subject
// label or question number cannot be resolved are dropped.
func ExtractKeys(text string, eras EraTable, labels LabelTable) []Key {
	seen := map[Key]bool{}
	keys := []Key{}

	for _, m := range headerRe.FindAllStringSubmatch(text, -1) {
		year, ok := EraYear(m[1], eras)
		if !ok {
			continue
		}
		subjectID, ok := SubjectID(m[2], labels)
		if !ok {
			continue
		}
		questionNum, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}

		key := Key{
			SubjectID:   subjectID,
			Year:        year,
			QuestionNum: questionNum,
			Limb:        strings.ToUpper(m[4]),
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// EraYear converts an era-year token such as 令和3年 or 平成元年 to a
// western year. The literal 元 reads as numeral 1. Unknown era names
// resolve to no year.
func EraYear(token string, eras EraTable) (int, bool) {
	m := eraYearRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return 0, false
	}
	offset, ok := eras[m[1]]
	if !ok {
		return 0, false
	}
	num := 1
	if m[2] != "元" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		num = n
	}
	return offset + num, true
}

// SubjectID normalizes a subject label (no-break and ideographic spaces
// become plain spaces, then trim) and resolves it through the table.
func SubjectID(rawLabel string, labels LabelTable) (int, bool) {
	label := strings.NewReplacer(" ", " ", "　", " ").Replace(rawLabel)
	label = strings.TrimSpace(label)

	if id, ok := labels.Exact[label]; ok {
		return id, true
	}
	for _, rule := range labels.Prefix {
		if strings.HasPrefix(label, rule.Prefix) {
			return rule.SubjectID, true
		}
	}
	return 0, false
}
