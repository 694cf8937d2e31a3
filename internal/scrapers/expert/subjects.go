package expert

import (
	"sort"
	"strings"
	"uwsched/lib/htmlutil"
	"uwsched/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

// Subject is a single option of the subject dropdown.
type Subject struct {
	// the visible text of the option, ex. "CS - Computer Science"
	Label string `json:"label"`
	// the submitted form value, falls back to the label
	Value string `json:"value"`
}

func parseOptions(selection *goquery.Selection) []Subject {
	subjects := []Subject{}
	selection.Find("option").Each(func(_ int, option *goquery.Selection) {
		label := textutil.NormalizeLabel(htmlutil.GetText(option.Nodes[0]))
		value, ok := option.Attr("value")
		if !ok {
			value = label
		}
		subjects = append(subjects, Subject{
			Label: label,
			Value: strings.TrimSpace(value),
		})
	})
	return subjects
}

// ParseSubjects reads the options of the subject dropdown out of some html,
// usually the outer html of the `select` element.
func ParseSubjects(html string) ([]Subject, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	selection := doc.Find("select[name='subject']")
	if selection.Length() == 0 {
		selection = doc.Selection
	}
	return parseOptions(selection), nil
}

// MatchSubject returns the first subject in page order whose label begins with prefix,
// case-insensitively.
func MatchSubject(subjects []Subject, prefix string) (Subject, bool) {
	for _, s := range subjects {
		if textutil.HasPrefixFold(s.Label, prefix) {
			return s, true
		}
	}
	return Subject{}, false
}

const suggestionThreshold = 0.6

// SuggestSubjects returns up to n subject labels whose leading code is most similar
// to prefix, best first.
func SuggestSubjects(subjects []Subject, prefix string, n int) []string {
	type candidate struct {
		label string
		score float64
	}

	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" || n <= 0 {
		return nil
	}

	var candidates []candidate
	for _, s := range subjects {
		code := strings.ToUpper(textutil.LeadingCode(s.Label))
		if code == "" {
			continue
		}
		score := matchr.JaroWinkler(prefix, code, false)
		if score < suggestionThreshold {
			continue
		}
		candidates = append(candidates, candidate{label: s.Label, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var suggestions []string
	for i := 0; i < len(candidates) && i < n; i++ {
		suggestions = append(suggestions, candidates[i].label)
	}
	return suggestions
}

const maxSuggestions = 3

func lookupSubject(subjects []Subject, prefix string) (Subject, error) {
	subject, ok := MatchSubject(subjects, prefix)
	if !ok {
		return Subject{}, &LookupError{
			Subject:     prefix,
			Suggestions: SuggestSubjects(subjects, prefix, maxSuggestions),
		}
	}
	return subject, nil
}
