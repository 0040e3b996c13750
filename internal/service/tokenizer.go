package service

import "unicode"

// Tokenize splits text into the token sequence the classifier was trained
// on: first every single token in reading order, then the bigram of every
// adjacent pair of singles joined by one space.
//
// A single is a maximal run of ASCII letters, digits and underscores (a
// word), or a maximal run of characters that are neither word characters nor
// whitespace (a symbol run). Whitespace separates runs and produces no
// token.
func Tokenize(text string) []string {
	singles := scanSingles(text)
	if len(singles) == 0 {
		return nil
	}

	tokens := make([]string, 0, 2*len(singles)-1)
	tokens = append(tokens, singles...)
	for i := 0; i+1 < len(singles); i++ {
		tokens = append(tokens, singles[i]+" "+singles[i+1])
	}
	return tokens
}

func scanSingles(text string) []string {
	const (
		modeNone = iota
		modeWord
		modeSymbol
	)

	var singles []string
	var start int
	mode := modeNone

	flush := func(end int) {
		if mode != modeNone {
			singles = append(singles, text[start:end])
		}
		mode = modeNone
	}

	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case isWordRune(r):
			if mode != modeWord {
				flush(i)
				start = i
				mode = modeWord
			}
		default:
			if mode != modeSymbol {
				flush(i)
				start = i
				mode = modeSymbol
			}
		}
	}
	flush(len(text))
	return singles
}

// isWordRune reports whether r belongs to a word token. The trained
// vocabulary only distinguishes ASCII word characters; any other non-space
// rune falls into symbol runs.
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
