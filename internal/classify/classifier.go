package classify

import (
	"strings"

	"github.com/remediarr/remediarr/internal/model"
)

// Classifier matches event text against configured keyword sets. It is pure
// and safe for concurrent use; keyword sets and priority order are fixed at
// construction.
type Classifier struct {
	priority []model.Category
	sets     map[model.MediaKind]map[model.Category][]string
}

func New(sets []model.KeywordSet, priority []model.Category) *Classifier {
	indexed := make(map[model.MediaKind]map[model.Category][]string)
	for _, set := range sets {
		byCategory, ok := indexed[set.MediaKind]
		if !ok {
			byCategory = make(map[model.Category][]string)
			indexed[set.MediaKind] = byCategory
		}
		for _, phrase := range set.Phrases {
			phrase = strings.ToLower(strings.TrimSpace(phrase))
			if phrase == "" {
				continue
			}
			byCategory[set.Category] = append(byCategory[set.Category], phrase)
		}
	}

	return &Classifier{
		priority: priority,
		sets:     indexed,
	}
}

// Classify scans the event text for the highest-priority category with a
// matching phrase. Matching is case-insensitive substring containment;
// within a category, phrases match in configured order.
func (c *Classifier) Classify(event model.IssueEvent) model.Classification {
	text := strings.ToLower(event.Text())

	for _, category := range c.priority {
		for _, phrase := range c.sets[event.MediaKind][category] {
			if strings.Contains(text, phrase) {
				return model.Classification{
					MediaKind:      event.MediaKind,
					Category:       category,
					MatchedKeyword: phrase,
				}
			}
		}
	}

	return model.Classification{
		MediaKind: event.MediaKind,
		Category:  model.CategoryNone,
	}
}

// Phrases returns the configured phrases for one bucket, in order. The
// coaching path uses it to show reporters what to write.
func (c *Classifier) Phrases(kind model.MediaKind, category model.Category) []string {
	return c.sets[kind][category]
}

// Categories returns every category with at least one phrase for the given
// media kind, in priority order.
func (c *Classifier) Categories(kind model.MediaKind) []model.Category {
	var out []model.Category
	for _, category := range c.priority {
		if len(c.sets[kind][category]) > 0 {
			out = append(out, category)
		}
	}
	return out
}
