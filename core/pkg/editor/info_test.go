package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

func TestInfo(t *testing.T) {
	info := NewInfo("demo", "1.0.0", "MIT", nil)

	if info.Name() != "demo" || info.Version() != "1.0.0" || info.License() != "MIT" {
		t.Errorf("unexpected info: %s %s %s", info.Name(), info.Version(), info.License())
	}
	if !info.IsAvailable() {
		t.Error("info without prerequisite should be available")
	}
	if info.Check() != nil {
		t.Error("Check() should be nil")
	}
}

func TestInfo_Prerequisite(t *testing.T) {
	t.Run("failing probe", func(t *testing.T) {
		info := NewInfo("demo", "1.0.0", "MIT", Executable("editorkit-missing-runtime-binary"))
		if info.IsAvailable() {
			t.Error("expected unavailable")
		}
		var probeErr *ProbeError
		if !errors.As(info.Check(), &probeErr) {
			t.Fatalf("expected ProbeError, got %v", info.Check())
		}
	})

	t.Run("panicking probe is reported, not raised", func(t *testing.T) {
		info := NewInfo("demo", "1.0.0", "MIT", Func("explodes", func() error { panic("boom") }))
		if info.IsAvailable() {
			t.Error("panicking probe should make editor unavailable")
		}
	})

	t.Run("availability follows the environment", func(t *testing.T) {
		t.Setenv("EDITORKIT_TEST_KEY", "")
		info := NewInfo("cloud", "1", "MIT", EnvVar("EDITORKIT_TEST_KEY"))
		if info.IsAvailable() {
			t.Error("expected unavailable before env is set")
		}
		t.Setenv("EDITORKIT_TEST_KEY", "secret")
		if !info.IsAvailable() {
			t.Error("expected available after env is set")
		}
	})
}

func TestSourceInfo(t *testing.T) {
	src := NewSourceInfo(NewInfo("codemirror", "5", "MIT", nil), "Python", "go", "javascript", "go", " ")

	t.Run("normalized set", func(t *testing.T) {
		got := src.SupportedLanguages()
		want := []string{"go", "javascript", "python"}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("requery returns equal set", func(t *testing.T) {
		first := src.SupportedLanguages()
		first[0] = "cobol"
		second := src.SupportedLanguages()
		if second[0] != "go" {
			t.Error("SupportedLanguages() should return a copy")
		}
	})

	t.Run("supports is case insensitive", func(t *testing.T) {
		if !src.Supports("PYTHON") {
			t.Error("expected python to be supported")
		}
		if src.Supports("ruby") {
			t.Error("ruby should not be supported")
		}
	})

	t.Run("empty set is still a source editor", func(t *testing.T) {
		var info contracts.EditorInfo = NewSourceInfo(NewInfo("bare", "1", "MIT", nil))
		s, ok := info.(contracts.SourceEditorInfo)
		if !ok {
			t.Fatal("expected SourceEditorInfo")
		}
		if len(s.SupportedLanguages()) != 0 {
			t.Error("expected no languages")
		}
	})

	t.Run("plain info is not a source editor", func(t *testing.T) {
		var info contracts.EditorInfo = NewInfo("plain", "1", "MIT", nil)
		if _, ok := info.(contracts.SourceEditorInfo); ok {
			t.Error("plain info must not expose languages")
		}
	})
}

func TestPrerequisites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tinymce.min.js")
	if err := os.WriteFile(file, []byte("//"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		probe   Prerequisite
		wantErr bool
	}{
		{"existing directory", Directory(dir), false},
		{"file is not a directory", Directory(file), true},
		{"missing directory", Directory(filepath.Join(dir, "missing")), true},
		{"empty path", Directory(""), true},
		{"existing file", File(file), false},
		{"directory is not a file", File(dir), true},
		{"func ok", Func("ok", func() error { return nil }), false},
		{"func nil", Func("nil", nil), false},
		{"all ok", All(Directory(dir), nil, File(file)), false},
		{"all with failure", All(Directory(dir), File(filepath.Join(dir, "nope"))), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.probe.Check()
			if (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.probe.String() == "" && tt.name != "func nil" {
				t.Error("String() should describe the prerequisite")
			}
		})
	}
}
