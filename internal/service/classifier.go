package service

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Classifier predicts the programming language of a text snippet using a
// pretrained random-forest model. It holds no mutable state; a single
// instance may serve concurrent callers.
type Classifier struct {
	model  *Model
	logger *zap.Logger
}

// NewClassifier creates a classifier over a loaded model.
func NewClassifier(model *Model, logger *zap.Logger) *Classifier {
	return &Classifier{
		model:  model,
		logger: logger,
	}
}

// ClassifyText predicts the language of a text snippet. It returns
// ErrEmptyInput when the text yields no tokens; for any other input it
// returns one of the model's language symbols.
func (c *Classifier) ClassifyText(text string) (string, error) {
	tokens := Tokenize(text)
	vec, err := Vectorize(tokens, c.model.Vocab)
	if err != nil {
		return "", err
	}

	labelID := c.model.Forest.Aggregate(vec, len(c.model.Labels))
	symbol, ok := c.model.Labels.Resolve(labelID)
	if !ok {
		// Unreachable with a validated model; a leaf voted for a label the
		// table does not know.
		return "", fmt.Errorf("model defect: forest produced unknown label id %d", labelID)
	}
	return symbol, nil
}

// ClassifyBuffer reads the full buffer contents and classifies them. This is
// the contract editor integrations rely on.
func (c *Classifier) ClassifyBuffer(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read buffer: %w", err)
	}
	return c.ClassifyText(string(data))
}

// Languages returns every language symbol the model can predict, in label id
// order.
func (c *Classifier) Languages() []string {
	return c.model.Labels.Symbols()
}
