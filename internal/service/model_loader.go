package service

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	"go.uber.org/zap"

	"langid-go/internal/model/forest"
)

// Model is the parsed, validated classifier model: vocabulary, tree
// ensemble and label table. It is immutable after ParseModel returns and
// safe for concurrent use.
type Model struct {
	Version string
	Vocab   forest.Vocabulary
	Forest  forest.Forest
	Labels  forest.LabelTable
}

// MalformedModelError reports a model asset that failed structural
// validation. Classification must not be served with such a model.
type MalformedModelError struct {
	Section string // Asset section that failed ("vocabulary", "forest", "labels")
	Detail  string
}

func (e *MalformedModelError) Error() string {
	return fmt.Sprintf("malformed model asset: %s: %s", e.Section, e.Detail)
}

//go:embed modeldata/model.json
var embeddedModel []byte

var (
	defaultModelOnce sync.Once
	defaultModel     *Model
	defaultModelErr  error
)

// DefaultModel parses the embedded model asset. The parse happens at most
// once per process; every caller gets the same handle. Concurrent callers
// block until the first parse completes, so a partially built model is never
// observable.
func DefaultModel(logger *zap.Logger) (*Model, error) {
	defaultModelOnce.Do(func() {
		defaultModel, defaultModelErr = ParseModel(embeddedModel, logger)
	})
	return defaultModel, defaultModelErr
}

// LoadModelFile parses a model asset from disk, replacing the embedded one.
// The file must satisfy the same format and invariants.
func LoadModelFile(path string, logger *zap.Logger) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return ParseModel(data, logger)
}

// modelAsset mirrors the raw JSON layout emitted by the training pipeline.
// Vocabulary entries are [token, id] pairs, label entries [id, symbol]
// pairs, and tree nodes are arity-tagged arrays: 4 elements for an internal
// split, 2 for a leaf.
type modelAsset struct {
	Version    string            `json:"version"`
	Vocabulary []json.RawMessage `json:"vocabulary"`
	Forest     []json.RawMessage `json:"forest"`
	Labels     []json.RawMessage `json:"labels"`
}

// ParseModel decodes and validates a raw model asset. Node kinds are
// resolved here, once; inference never inspects arity.
func ParseModel(data []byte, logger *zap.Logger) (*Model, error) {
	var asset modelAsset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, &MalformedModelError{Section: "asset", Detail: err.Error()}
	}

	labels, err := parseLabels(asset.Labels)
	if err != nil {
		return nil, err
	}

	vocab, err := parseVocabulary(asset.Vocabulary)
	if err != nil {
		return nil, err
	}

	trees, err := parseForest(asset.Forest, len(vocab), len(labels))
	if err != nil {
		return nil, err
	}

	model := &Model{
		Version: asset.Version,
		Vocab:   vocab,
		Forest:  forest.Forest{Trees: trees},
		Labels:  labels,
	}

	logger.Info("Classifier model loaded",
		zap.String("version", model.Version),
		zap.Int("vocabulary_size", model.Vocab.Size()),
		zap.Int("trees", len(model.Forest.Trees)),
		zap.Int("labels", len(model.Labels)))

	return model, nil
}

func parseLabels(raw []json.RawMessage) (forest.LabelTable, error) {
	if len(raw) == 0 {
		return nil, &MalformedModelError{Section: "labels", Detail: "label table is empty"}
	}

	labels := make(forest.LabelTable, len(raw))
	seen := make([]bool, len(raw))
	for i, entry := range raw {
		var pair []json.RawMessage
		if err := json.Unmarshal(entry, &pair); err != nil || len(pair) != 2 {
			return nil, &MalformedModelError{Section: "labels", Detail: fmt.Sprintf("entry %d is not an [id, symbol] pair", i)}
		}
		var id int
		var symbol string
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return nil, &MalformedModelError{Section: "labels", Detail: fmt.Sprintf("entry %d has a non-integer id", i)}
		}
		if err := json.Unmarshal(pair[1], &symbol); err != nil || symbol == "" {
			return nil, &MalformedModelError{Section: "labels", Detail: fmt.Sprintf("entry %d has an invalid symbol", i)}
		}
		if id < 0 || id >= len(raw) || seen[id] {
			return nil, &MalformedModelError{Section: "labels", Detail: fmt.Sprintf("label ids are not dense and unique over 0..%d (entry %d, id %d)", len(raw)-1, i, id)}
		}
		seen[id] = true
		labels[id] = symbol
	}
	return labels, nil
}

func parseVocabulary(raw []json.RawMessage) (forest.Vocabulary, error) {
	if len(raw) == 0 {
		return nil, &MalformedModelError{Section: "vocabulary", Detail: "vocabulary is empty"}
	}

	vocab := make(forest.Vocabulary, len(raw))
	seen := make([]bool, len(raw))
	for i, entry := range raw {
		var pair []json.RawMessage
		if err := json.Unmarshal(entry, &pair); err != nil || len(pair) != 2 {
			return nil, &MalformedModelError{Section: "vocabulary", Detail: fmt.Sprintf("entry %d is not a [token, id] pair", i)}
		}
		var token string
		var id int
		if err := json.Unmarshal(pair[0], &token); err != nil || token == "" {
			return nil, &MalformedModelError{Section: "vocabulary", Detail: fmt.Sprintf("entry %d has an invalid token", i)}
		}
		if err := json.Unmarshal(pair[1], &id); err != nil {
			return nil, &MalformedModelError{Section: "vocabulary", Detail: fmt.Sprintf("entry %d has a non-integer id", i)}
		}
		if id < 0 || id >= len(raw) || seen[id] {
			return nil, &MalformedModelError{Section: "vocabulary", Detail: fmt.Sprintf("vocabulary ids are not dense and unique over 0..%d (entry %d, id %d)", len(raw)-1, i, id)}
		}
		if _, dup := vocab[token]; dup {
			return nil, &MalformedModelError{Section: "vocabulary", Detail: fmt.Sprintf("duplicate token at entry %d", i)}
		}
		seen[id] = true
		vocab[token] = id
	}
	return vocab, nil
}

func parseForest(raw []json.RawMessage, vocabSize, numLabels int) ([]forest.Tree, error) {
	if len(raw) == 0 {
		return nil, &MalformedModelError{Section: "forest", Detail: "forest is empty"}
	}

	trees := make([]forest.Tree, len(raw))
	for i, entry := range raw {
		root, err := parseNode(entry, fmt.Sprintf("tree %d", i), vocabSize, numLabels)
		if err != nil {
			return nil, err
		}
		trees[i] = forest.Tree{Root: root}
	}
	return trees, nil
}

func parseNode(raw json.RawMessage, path string, vocabSize, numLabels int) (forest.Node, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: node is not an array", path)}
	}

	switch len(fields) {
	case 2:
		var labelID int
		var weight float64
		if err := json.Unmarshal(fields[0], &labelID); err != nil {
			return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: leaf has a non-integer label id", path)}
		}
		if err := json.Unmarshal(fields[1], &weight); err != nil {
			return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: leaf has a non-numeric weight", path)}
		}
		if labelID < 0 || labelID >= numLabels {
			return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: leaf references unknown label id %d", path, labelID)}
		}
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: leaf weight %v is not a non-negative finite number", path, weight)}
		}
		return forest.Leaf{LabelID: labelID, Weight: weight}, nil

	case 4:
		var featureID int
		var threshold float64
		if err := json.Unmarshal(fields[0], &featureID); err != nil {
			return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: internal node has a non-integer feature id", path)}
		}
		if err := json.Unmarshal(fields[1], &threshold); err != nil {
			return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: internal node has a non-numeric threshold", path)}
		}
		if featureID < 0 || featureID >= vocabSize {
			return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: internal node references unknown feature id %d", path, featureID)}
		}
		if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: internal node threshold is not finite", path)}
		}
		left, err := parseNode(fields[2], path+"/left", vocabSize, numLabels)
		if err != nil {
			return nil, err
		}
		right, err := parseNode(fields[3], path+"/right", vocabSize, numLabels)
		if err != nil {
			return nil, err
		}
		return forest.Internal{FeatureID: featureID, Threshold: threshold, Left: left, Right: right}, nil

	default:
		return nil, &MalformedModelError{Section: "forest", Detail: fmt.Sprintf("%s: node has arity %d, want 2 (leaf) or 4 (internal)", path, len(fields))}
	}
}
