package model

import "time"

// Level bounds for catalog items. Level 1 is 中学基礎, level 8 is 大学上級.
const (
	MinLevel = 1
	MaxLevel = 8
)

// PartOfSpeech is the enumerated tag stored on a vocabulary item.
// Values are the short forms used by the textbook data (名, 動, ...).
type PartOfSpeech string

const (
	POSNoun              PartOfSpeech = "名"
	POSVerb              PartOfSpeech = "動"
	POSAdjective         PartOfSpeech = "形"
	POSAdverb            PartOfSpeech = "副"
	POSPronoun           PartOfSpeech = "代"
	POSPreposition       PartOfSpeech = "前"
	POSConjunction       PartOfSpeech = "接"
	POSArticle           PartOfSpeech = "冠"
	POSInterjection      PartOfSpeech = "間"
	POSIdiom             PartOfSpeech = "熟語"
	POSAuxiliary         PartOfSpeech = "助"
	POSInterrogAdverb    PartOfSpeech = "疑副"
	POSInterrogAdjective PartOfSpeech = "疑形"
	POSInterrogPronoun   PartOfSpeech = "疑代"
	POSRelativePronoun   PartOfSpeech = "関代"
)

// partOfSpeechNames maps the long forms found in imported data to their tags.
var partOfSpeechNames = map[string]PartOfSpeech{
	"名詞": POSNoun, "動詞": POSVerb, "形容詞": POSAdjective, "副詞": POSAdverb,
	"代名詞": POSPronoun, "前置詞": POSPreposition, "接続詞": POSConjunction,
	"冠詞": POSArticle, "間投詞": POSInterjection, "熟語": POSIdiom,
	"助動詞": POSAuxiliary, "疑問副詞": POSInterrogAdverb,
	"疑問形容詞": POSInterrogAdjective, "疑問代名詞": POSInterrogPronoun,
	"関係代名詞": POSRelativePronoun,
}

var validPartsOfSpeech = func() map[PartOfSpeech]bool {
	m := make(map[PartOfSpeech]bool, len(partOfSpeechNames))
	for _, pos := range partOfSpeechNames {
		m[pos] = true
	}
	return m
}()

// NormalizePartOfSpeech resolves either a long form ("名詞") or a tag ("名")
// to the canonical tag. ok is false for anything outside the enumeration.
func NormalizePartOfSpeech(s string) (PartOfSpeech, bool) {
	if pos, ok := partOfSpeechNames[s]; ok {
		return pos, true
	}
	if validPartsOfSpeech[PartOfSpeech(s)] {
		return PartOfSpeech(s), true
	}
	return "", false
}

// Word is an immutable catalog entry. The scheduling core only reads it.
type Word struct {
	ID           string       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Word         string       `gorm:"not null;uniqueIndex:idx_words_word_textbook,priority:1" json:"word"`
	Meaning      string       `gorm:"not null" json:"meaning"`
	Level        int          `gorm:"not null;index" json:"level"`
	PartOfSpeech PartOfSpeech `gorm:"size:10" json:"partOfSpeech"`
	Example      string       `json:"example,omitempty"`
	ExampleJa    string       `json:"exampleJa,omitempty"`
	Textbook     string       `gorm:"not null;size:50;uniqueIndex:idx_words_word_textbook,priority:2" json:"textbook"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (Word) TableName() string {
	return "words"
}
