package filter

import (
	"strings"
)

// MissingWords returns the requested vocabulary that does not appear in the
// generated story. A word counts as present when the story uses it directly or
// through a common inflection, so "carried" satisfies "carry".
func MissingWords(story string, words []string) []string {
	storyWords := make(map[string]bool)
	for _, token := range strings.FieldsFunc(strings.ToLower(story), func(r rune) bool {
		return !('a' <= r && r <= 'z') && r != '\''
	}) {
		storyWords[strings.Trim(token, "'")] = true
	}

	missing := make([]string, 0)
	for _, w := range words {
		if !appearsIn(storyWords, strings.ToLower(w)) {
			missing = append(missing, w)
		}
	}
	return missing
}

func appearsIn(storyWords map[string]bool, word string) bool {
	for variation := range generateVariations(word) {
		if storyWords[variation] {
			return true
		}
	}
	return false
}

// generateVariations creates common grammatical variations of a word.
func generateVariations(word string) map[string]bool {
	variations := make(map[string]bool)

	// The word itself
	variations[word] = true

	// Plural forms
	variations[word+"s"] = true
	variations[word+"es"] = true
	if strings.HasSuffix(word, "y") {
		variations[word[:len(word)-1]+"ies"] = true
	}

	// Verb forms (-ed, -ing)
	variations[word+"ed"] = true
	variations[word+"ing"] = true

	// Handle consonant doubling (e.g., stop -> stopped, stopping)
	if len(word) >= 3 && isConsonant(word[len(word)-1]) && isVowel(word[len(word)-2]) && isConsonant(word[len(word)-3]) {
		doubled := word + string(word[len(word)-1])
		variations[doubled+"ed"] = true
		variations[doubled+"ing"] = true
	}

	// Handle words ending in 'e' (e.g., make -> making, made)
	if strings.HasSuffix(word, "e") {
		base := word[:len(word)-1]
		variations[base+"ing"] = true
		variations[base+"ed"] = true
	}

	// Handle words ending in consonant+y (e.g., carry -> carried)
	if strings.HasSuffix(word, "y") && len(word) >= 2 && isConsonant(word[len(word)-2]) {
		base := word[:len(word)-1]
		variations[base+"ied"] = true
		variations[base+"ies"] = true
	}

	// Adverb form (-ly)
	variations[word+"ly"] = true
	if strings.HasSuffix(word, "y") {
		variations[word[:len(word)-1]+"ily"] = true
	}
	if strings.HasSuffix(word, "le") {
		variations[word[:len(word)-1]+"y"] = true
	}
	if strings.HasSuffix(word, "ic") {
		variations[word+"ally"] = true
	}

	// Comparative and superlative (-er, -est)
	variations[word+"er"] = true
	variations[word+"est"] = true
	if strings.HasSuffix(word, "e") {
		variations[word+"r"] = true
		variations[word+"st"] = true
	}
	if strings.HasSuffix(word, "y") && len(word) >= 2 && isConsonant(word[len(word)-2]) {
		base := word[:len(word)-1]
		variations[base+"ier"] = true
		variations[base+"iest"] = true
	}

	return variations
}

func isVowel(c byte) bool {
	return c == 'a' || c == 'e' || c == 'i' || c == 'o' || c == 'u'
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && !isVowel(c)
}
