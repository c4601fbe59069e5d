package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/resparse/pkg/resparse/internalerr"
	"github.com/cognicore/resparse/pkg/resparse/lexicon"
)

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{ModelsDir: "models"}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}

	if comp.Tokenizer == nil {
		t.Error("Should have tokenizer")
	}

	if !comp.Lexicon.Has(lexicon.SetMonths, "january") {
		t.Error("Should carry the embedded lexicon")
	}

	if !comp.Stoplist.IsStop("the") {
		t.Error("Should fall back to the lexicon stopwords")
	}

	if comp.ModelsDir != "models" {
		t.Errorf("ModelsDir = %q, want models", comp.ModelsDir)
	}
}

func TestLoaderNonExistentFiles(t *testing.T) {
	for _, loader := range []Loader{
		{StoplistPath: "/nonexistent/stoplist.yaml"},
		{LexiconPath: "/nonexistent/lexicon.yaml"},
		{AbbreviationsPath: "/nonexistent/abbreviations.yaml"},
	} {
		if _, err := loader.Load(); err == nil {
			t.Errorf("Should error on nonexistent file: %+v", loader)
		}
	}
}

func TestLoaderWithFiles(t *testing.T) {
	tmpDir := t.TempDir()

	stoplistPath := filepath.Join(tmpDir, "stoplist.yaml")
	if err := os.WriteFile(stoplistPath, []byte("terms:\n  - resume\n  - cv\n"), 0644); err != nil {
		t.Fatal(err)
	}

	lexiconPath := filepath.Join(tmpDir, "lexicon.yaml")
	lexiconYAML := "sets:\n  positions: [wrangler]\npools:\n  companies: [Initech]\n"
	if err := os.WriteFile(lexiconPath, []byte(lexiconYAML), 0644); err != nil {
		t.Fatal(err)
	}

	abbrevPath := filepath.Join(tmpDir, "abbreviations.yaml")
	if err := os.WriteFile(abbrevPath, []byte("words: [mgr.]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := Loader{
		StoplistPath:      stoplistPath,
		LexiconPath:       lexiconPath,
		AbbreviationsPath: abbrevPath,
	}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !comp.Stoplist.IsStop("cv") || comp.Stoplist.IsStop("the") {
		t.Error("Stoplist file should replace the lexicon stopwords")
	}

	if !comp.Lexicon.Has(lexicon.SetPositions, "wrangler") || !comp.Lexicon.Has(lexicon.SetPositions, "engineer") {
		t.Error("Lexicon file should extend the embedded sets")
	}

	if got := comp.Lexicon.Pool(lexicon.PoolCompanies); len(got) != 1 || got[0] != "Initech" {
		t.Errorf("Pool companies = %v, want [Initech]", got)
	}

	toks := comp.Tokenizer.Tokenize("Mgr. Smith")
	if len(toks) != 2 || toks[0].Text != "Mgr." {
		t.Errorf("Abbreviation should keep its period, got %v", toks)
	}

	if comp.ModelsDir == "" {
		t.Error("ModelsDir should default")
	}
}

func TestLoaderMalformedStoplist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stoplist.yaml")
	if err := os.WriteFile(path, []byte("terms: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := Loader{StoplistPath: path}
	_, err := loader.Load()
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestRepoRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := RepoRoot(nested); got != root {
		t.Errorf("RepoRoot = %q, want %q", got, root)
	}
}
