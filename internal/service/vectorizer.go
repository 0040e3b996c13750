package service

import (
	"errors"

	"langid-go/internal/model/forest"
)

// ErrEmptyInput is returned when classification is attempted on input that
// produces no tokens. The classifier rejects such input instead of guessing:
// an empty token stream carries no signal, and the per-token increment would
// be undefined.
var ErrEmptyInput = errors.New("input produced no tokens")

// Vectorize converts a token sequence into a sparse frequency vector over
// vocabulary ids. Every token contributes 1000/len(tokens) of mass; tokens
// outside the vocabulary still count toward the divisor but add nothing to
// the vector, so the total mass is 1000 times the recognized fraction.
func Vectorize(tokens []string, vocab forest.Vocabulary) (forest.FrequencyVector, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	increment := 1000.0 / float64(len(tokens))
	vec := make(forest.FrequencyVector)
	for _, token := range tokens {
		if id, ok := vocab.Lookup(token); ok {
			vec[id] += increment
		}
	}
	return vec, nil
}
