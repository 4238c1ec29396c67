package model

type Category string

const (
	CategoryWrongMedia Category = "wrong_media"
	CategorySubtitle   Category = "subtitle"
	CategoryVideo      Category = "video"
	CategoryAudio      Category = "audio"
	CategoryOther      Category = "other"
	CategoryNone       Category = "none"
)

// KeywordSet is the ordered, lower-cased phrase list for one
// (media kind, category) pair. Matching is substring containment, not
// word-tokenized, so "no audio!" matches "no audio".
type KeywordSet struct {
	MediaKind MediaKind `json:"media_kind"`
	Category  Category  `json:"category"`
	Phrases   []string  `json:"phrases"`
}

// Classification is the classifier's verdict for one event. MatchedKeyword
// is kept for diagnostics and coaching.
type Classification struct {
	MediaKind      MediaKind `json:"media_kind"`
	Category       Category  `json:"category"`
	MatchedKeyword string    `json:"matched_keyword,omitempty"`
}

func (c Classification) Matched() bool {
	return c.Category != CategoryNone
}
