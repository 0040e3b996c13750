package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	model, err := DefaultModel(zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to load embedded model: %v", err)
	}
	return NewClassifier(model, zap.NewNop())
}

func TestClassifyText_KnownSnippets(t *testing.T) {
	classifier := newTestClassifier(t)

	cases := []struct {
		snippet  string
		expected string
	}{
		{"def foo(x):\n    return x + 1\n", "python"},
		{"package main\nfunc main() {}", "go"},
		{"#!/bin/bash\necho hello", "shell"},
		{"#include <stdio.h>\nint main() { printf(\"hi\"); return 0; }", "c"},
		{"SELECT * FROM users WHERE id = 1;", "sql"},
		{"<?xml version=\"1.0\"?>\n<root/>", "xml"},
		{"fn main() { println!(\"hi\"); }", "rust"},
	}

	for _, tc := range cases {
		language, err := classifier.ClassifyText(tc.snippet)
		if err != nil {
			t.Fatalf("Unexpected error for %q: %v", tc.snippet, err)
		}
		if language != tc.expected {
			t.Fatalf("Expected %q for %q, got %q", tc.expected, tc.snippet, language)
		}
	}
}

func TestClassifyText_AlwaysReturnsKnownLabel(t *testing.T) {
	classifier := newTestClassifier(t)

	known := make(map[string]bool)
	for _, symbol := range classifier.Languages() {
		known[symbol] = true
	}

	inputs := []string{
		"x",
		"qwertyuiop asdfghjkl",
		"1 2 3 4 5",
		"!@#$%^&*()",
		"latin text about nothing in particular",
	}
	for _, input := range inputs {
		language, err := classifier.ClassifyText(input)
		if err != nil {
			t.Fatalf("Unexpected error for %q: %v", input, err)
		}
		if !known[language] {
			t.Fatalf("Classifier returned %q for %q, which is not in the label table", language, input)
		}
	}
}

func TestClassifyText_EmptyInput(t *testing.T) {
	classifier := newTestClassifier(t)

	for _, input := range []string{"", "   ", "\n\t\r\n"} {
		language, err := classifier.ClassifyText(input)
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Expected ErrEmptyInput for %q, got language %q, err %v", input, language, err)
		}
	}
}

func TestClassifyBuffer(t *testing.T) {
	classifier := newTestClassifier(t)

	language, err := classifier.ClassifyBuffer(strings.NewReader("def foo(x):\n    return x + 1\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if language != "python" {
		t.Fatalf("Expected 'python', got %q", language)
	}
}

func TestClassifyText_ConcurrentCallers(t *testing.T) {
	classifier := newTestClassifier(t)

	snippet := "package main\nfunc main() {}"
	expected, err := classifier.ClassifyText(snippet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				language, err := classifier.ClassifyText(snippet)
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if language != expected {
					t.Errorf("Expected %q, got %q", expected, language)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestLanguages(t *testing.T) {
	classifier := newTestClassifier(t)

	languages := classifier.Languages()
	if len(languages) != 39 {
		t.Fatalf("Expected 39 languages, got %d", len(languages))
	}

	seen := make(map[string]bool)
	for _, symbol := range languages {
		if symbol == "" {
			t.Fatal("Found an empty language symbol")
		}
		if seen[symbol] {
			t.Fatalf("Duplicate language symbol %q", symbol)
		}
		seen[symbol] = true
	}
	if !seen["python"] || !seen["go"] {
		t.Fatal("Expected 'python' and 'go' in the label table")
	}
}
