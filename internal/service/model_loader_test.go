package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestDefaultModel_LoadsEmbeddedAsset(t *testing.T) {
	model, err := DefaultModel(zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to load embedded model: %v", err)
	}

	if model.Vocab.Size() == 0 {
		t.Fatal("Expected a non-empty vocabulary")
	}
	if len(model.Forest.Trees) == 0 {
		t.Fatal("Expected a non-empty forest")
	}
	if len(model.Labels) != 39 {
		t.Fatalf("Expected 39 labels in the trained model, got %d", len(model.Labels))
	}
}

func TestDefaultModel_ParsedOnce(t *testing.T) {
	first, err := DefaultModel(zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to load embedded model: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			model, err := DefaultModel(zap.NewNop())
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if model != first {
				t.Error("Expected every caller to receive the same model handle")
			}
		}()
	}
	wg.Wait()
}

func TestParseModel_ValidAsset(t *testing.T) {
	asset := `{
		"version": "test",
		"vocabulary": [["func", 0], ["def", 1]],
		"forest": [[1, 0.0, [0, 0.0], [1, 2.0]], [0, 1.0]],
		"labels": [[0, "go"], [1, "python"]]
	}`

	model, err := ParseModel([]byte(asset), zap.NewNop())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if model.Version != "test" {
		t.Fatalf("Expected version 'test', got %q", model.Version)
	}
	if len(model.Forest.Trees) != 2 {
		t.Fatalf("Expected 2 trees, got %d", len(model.Forest.Trees))
	}
}

func TestParseModel_Malformed(t *testing.T) {
	cases := []struct {
		name    string
		asset   string
		section string
	}{
		{
			"not json",
			`{`,
			"asset",
		},
		{
			"empty labels",
			`{"vocabulary": [["a", 0]], "forest": [[0, 1.0]], "labels": []}`,
			"labels",
		},
		{
			"sparse label ids",
			`{"vocabulary": [["a", 0]], "forest": [[0, 1.0]], "labels": [[0, "go"], [5, "python"]]}`,
			"labels",
		},
		{
			"duplicate vocabulary id",
			`{"vocabulary": [["a", 0], ["b", 0]], "forest": [[0, 1.0]], "labels": [[0, "go"]]}`,
			"vocabulary",
		},
		{
			"empty forest",
			`{"vocabulary": [["a", 0]], "forest": [], "labels": [[0, "go"]]}`,
			"forest",
		},
		{
			"bad node arity",
			`{"vocabulary": [["a", 0]], "forest": [[0, 1.0, 2.0]], "labels": [[0, "go"]]}`,
			"forest",
		},
		{
			"leaf with unknown label id",
			`{"vocabulary": [["a", 0]], "forest": [[7, 1.0]], "labels": [[0, "go"]]}`,
			"forest",
		},
		{
			"negative leaf weight",
			`{"vocabulary": [["a", 0]], "forest": [[0, -1.0]], "labels": [[0, "go"]]}`,
			"forest",
		},
		{
			"internal node with unknown feature id",
			`{"vocabulary": [["a", 0]], "forest": [[9, 0.5, [0, 1.0], [0, 2.0]]], "labels": [[0, "go"]]}`,
			"forest",
		},
	}

	for _, tc := range cases {
		_, err := ParseModel([]byte(tc.asset), zap.NewNop())
		if err == nil {
			t.Fatalf("%s: expected a malformed model error", tc.name)
		}
		var malformed *MalformedModelError
		if !errors.As(err, &malformed) {
			t.Fatalf("%s: expected *MalformedModelError, got %T: %v", tc.name, err, err)
		}
		if malformed.Section != tc.section {
			t.Fatalf("%s: expected section %q, got %q (%v)", tc.name, tc.section, malformed.Section, err)
		}
	}
}

func TestParseModel_ErrorNamesBadRecord(t *testing.T) {
	asset := `{"vocabulary": [["a", 0]], "forest": [[0, 1.0], [0, 0.5, [0, 1.0], [3, 1.0]]], "labels": [[0, "go"]]}`

	_, err := ParseModel([]byte(asset), zap.NewNop())
	if err == nil {
		t.Fatal("Expected a malformed model error")
	}
	if !strings.Contains(err.Error(), "tree 1") {
		t.Fatalf("Expected the error to locate the bad tree, got: %v", err)
	}
}
