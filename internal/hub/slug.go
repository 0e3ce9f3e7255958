package hub

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	slugWordSeparatorConstant   = "-"
	ordinalSuffixLengthConstant = 2
	ordinalFirstSuffixConstant  = "st"
	ordinalSecondSuffixConstant = "nd"
	ordinalThirdSuffixConstant  = "rd"
	ordinalOtherSuffixConstant  = "th"
)

// apostropheRemover drops apostrophes so contractions stay one word.
var apostropheRemover = strings.NewReplacer("'", "", "\u2019", "")

// letterTransliterator spells out Latin letters that have no canonical decomposition.
var letterTransliterator = strings.NewReplacer(
	"Æ", "Ae", "æ", "ae",
	"Ð", "D", "ð", "d",
	"Ø", "O", "ø", "o",
	"Þ", "Th", "þ", "th",
	"ß", "ss",
	"Đ", "D", "đ", "d",
	"Ħ", "H", "ħ", "h",
	"ı", "i",
	"Ĳ", "IJ", "ĳ", "ij",
	"ĸ", "k",
	"Ŀ", "L", "ŀ", "l",
	"Ł", "L", "ł", "l",
	"ŉ", "'n",
	"Ŋ", "N", "ŋ", "n",
	"Œ", "Oe", "œ", "oe",
	"ſ", "s",
)

// Slugify converts arbitrary text to a lowercase, hyphen-separated identifier safe for git remote and branch names.
//
// Words break on any rune that is neither a letter nor a digit, on lower-to-upper case changes, before the last
// capital of an acronym followed by a lowercase letter, and between letters and digits, except that ordinals such
// as 1st or 22ND stay whole. Accents and apostrophes are removed first.
func Slugify(text string) string {
	words := splitWords(apostropheRemover.Replace(stripDiacritics(text)))
	if len(words) == 0 {
		return ""
	}

	lowerCaser := cases.Lower(language.Und)
	for wordIndex := range words {
		words[wordIndex] = lowerCaser.String(words[wordIndex])
	}

	return strings.Join(words, slugWordSeparatorConstant)
}

func stripDiacritics(text string) string {
	transliterated := letterTransliterator.Replace(text)
	diacriticRemover := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, transformError := transform.String(diacriticRemover, transliterated)
	if transformError != nil {
		return transliterated
	}
	return stripped
}

func splitWords(text string) []string {
	characters := []rune(text)
	words := make([]string, 0)
	var currentWord []rune

	flush := func() {
		if len(currentWord) == 0 {
			return
		}
		words = append(words, string(currentWord))
		currentWord = currentWord[:0]
	}

	for characterIndex := 0; characterIndex < len(characters); characterIndex++ {
		character := characters[characterIndex]
		if !unicode.IsLetter(character) && !unicode.IsDigit(character) {
			flush()
			continue
		}

		startsDigitRun := len(currentWord) == 0 || !unicode.IsDigit(currentWord[len(currentWord)-1])
		if unicode.IsDigit(character) && startsDigitRun {
			if ordinalLength := ordinalLengthAt(characters, characterIndex); ordinalLength > 0 {
				flush()
				words = append(words, string(characters[characterIndex:characterIndex+ordinalLength]))
				characterIndex += ordinalLength - 1
				continue
			}
		}

		if len(currentWord) > 0 && startsNewWord(currentWord[len(currentWord)-1], character, nextRune(characters, characterIndex)) {
			flush()
		}

		currentWord = append(currentWord, character)
	}
	flush()

	return words
}

func startsNewWord(previous rune, current rune, next rune) bool {
	if unicode.IsDigit(previous) != unicode.IsDigit(current) {
		return true
	}
	if unicode.IsLower(previous) && unicode.IsUpper(current) {
		return true
	}
	return unicode.IsUpper(previous) && unicode.IsUpper(current) && unicode.IsLower(next)
}

// ordinalLengthAt returns the length of an ordinal (digits plus a matching st, nd, rd or th suffix in one case)
// starting at index, or zero. The suffix must end the word or be followed by a case change or underscore.
func ordinalLengthAt(characters []rune, index int) int {
	digitsEnd := index
	for digitsEnd < len(characters) && isASCIIDigit(characters[digitsEnd]) {
		digitsEnd++
	}
	suffixEnd := digitsEnd + ordinalSuffixLengthConstant
	if digitsEnd == index || suffixEnd > len(characters) {
		return 0
	}

	suffix := string(characters[digitsEnd:suffixEnd])
	lowerSuffix := strings.ToLower(suffix)
	suffixIsLower := suffix == lowerSuffix
	if !suffixIsLower && suffix != strings.ToUpper(suffix) {
		return 0
	}

	expectedSuffix := ordinalOtherSuffixConstant
	switch characters[digitsEnd-1] {
	case '1':
		expectedSuffix = ordinalFirstSuffixConstant
	case '2':
		expectedSuffix = ordinalSecondSuffixConstant
	case '3':
		expectedSuffix = ordinalThirdSuffixConstant
	}
	if lowerSuffix != expectedSuffix {
		return 0
	}

	if suffixEnd == len(characters) {
		return suffixEnd - index
	}
	following := characters[suffixEnd]
	switch {
	case !isASCIIWordCharacter(following), following == '_':
		return suffixEnd - index
	case suffixIsLower && unicode.IsUpper(following):
		return suffixEnd - index
	case !suffixIsLower && unicode.IsLower(following):
		return suffixEnd - index
	default:
		return 0
	}
}

func isASCIIDigit(character rune) bool {
	return character >= '0' && character <= '9'
}

func isASCIIWordCharacter(character rune) bool {
	return isASCIIDigit(character) || character == '_' || (character >= 'a' && character <= 'z') || (character >= 'A' && character <= 'Z')
}

func nextRune(characters []rune, index int) rune {
	if index+1 >= len(characters) {
		return 0
	}
	return characters[index+1]
}
