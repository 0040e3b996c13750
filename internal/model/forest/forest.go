package forest

// Node is one node of a pretrained decision tree. A node is either an
// Internal split or a Leaf vote; the kind is fixed when the model asset is
// parsed and never re-derived afterwards.
type Node interface {
	isNode()
}

// Internal is a splitting decision of the form "vector[FeatureID] <= Threshold ?".
type Internal struct {
	FeatureID int     // Vocabulary id of the feature tested at this node
	Threshold float64 // Descend left when the feature value is <= this
	Left      Node    // Subtree for values <= Threshold
	Right     Node    // Subtree for values > Threshold
}

// Leaf is a terminal vote for a single language label.
type Leaf struct {
	LabelID int     // Label table id voted for
	Weight  float64 // Trained confidence of the vote, >= 0
}

func (Internal) isNode() {}
func (Leaf) isNode()     {}

// Tree is one pretrained binary decision tree.
type Tree struct {
	Root Node
}

// Forest is the ordered tree ensemble. Order matters: vote aggregation
// resolves ties in favor of the label first reached in traversal order.
type Forest struct {
	Trees []Tree
}

// FrequencyVector is a sparse token-frequency vector keyed by vocabulary id.
// Features absent from the vector read as zero.
type FrequencyVector map[int]float64

// Get returns the frequency for a feature id, zero when absent.
func (v FrequencyVector) Get(feature int) float64 {
	return v[feature]
}

// Evaluate walks the tree with the given frequency vector and returns the
// leaf it reaches. Deterministic for a fixed tree and vector.
func (t Tree) Evaluate(vec FrequencyVector) Leaf {
	node := t.Root
	for {
		switch n := node.(type) {
		case Internal:
			if vec.Get(n.FeatureID) <= n.Threshold {
				node = n.Left
			} else {
				node = n.Right
			}
		case Leaf:
			return n
		}
	}
}

// Aggregate evaluates every tree in order and accumulates the weighted votes
// per label. The winner is the label with the strictly greatest total,
// scanning labels in the order their first vote arrived; a later label with
// an equal total never displaces an earlier one. numLabels bounds the label
// id space.
func (f Forest) Aggregate(vec FrequencyVector, numLabels int) int {
	totals := make([]float64, numLabels)
	order := make([]int, 0, numLabels)
	seen := make([]bool, numLabels)

	for _, tree := range f.Trees {
		leaf := tree.Evaluate(vec)
		if !seen[leaf.LabelID] {
			seen[leaf.LabelID] = true
			order = append(order, leaf.LabelID)
		}
		totals[leaf.LabelID] += leaf.Weight
	}

	best := order[0]
	for _, label := range order[1:] {
		if totals[label] > totals[best] {
			best = label
		}
	}
	return best
}

// Vocabulary maps tokens to their dense feature ids, fixed at model build
// time.
type Vocabulary map[string]int

// Lookup returns the feature id for a token and whether the token is part of
// the trained vocabulary.
func (v Vocabulary) Lookup(token string) (int, bool) {
	id, ok := v[token]
	return id, ok
}

// Size returns the number of vocabulary entries.
func (v Vocabulary) Size() int {
	return len(v)
}

// LabelTable is the fixed mapping from classifier label ids to language
// symbols, dense over 0..len-1.
type LabelTable []string

// Resolve returns the language symbol for a label id.
func (lt LabelTable) Resolve(labelID int) (string, bool) {
	if labelID < 0 || labelID >= len(lt) {
		return "", false
	}
	return lt[labelID], true
}

// Symbols returns a copy of all language symbols in label id order.
func (lt LabelTable) Symbols() []string {
	out := make([]string, len(lt))
	copy(out, lt)
	return out
}
