package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doublelove22/basecode/internal/elements"
)

func TestCompileString_BuildsModule(t *testing.T) {
	s := New()
	mod, err := s.CompileString("main", "x := 1;\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod == nil || mod.Kind != elements.Module {
		t.Fatalf("expected a module element, got %+v", mod)
	}
}

func TestCompileString_ReusingSameNameReturnsCachedModule(t *testing.T) {
	s := New()
	first, err := s.CompileString("main", "x := 1;\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.CompileString("main", "this text is ignored on a cache hit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected the cached module to be returned unchanged")
	}
}

func TestCompileString_ParseErrorIsReported(t *testing.T) {
	s := New()
	_, err := s.CompileString("broken", "x := ;\n")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	if !s.Diags.HasErrors() {
		t.Fatalf("expected diagnostics to be recorded")
	}
}

func TestCompileFile_ReadsAndCompilesFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.lang")
	if err := os.WriteFile(path, []byte("x := 1;\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	s := New()
	mod, err := s.CompileFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod == nil || mod.Kind != elements.Module {
		t.Fatalf("expected a module element, got %+v", mod)
	}
}

func TestCompileModulePath_ResolvesRelativeToImportingDirectoryAndCachesByCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	importee := filepath.Join(dir, "lib.lang")
	if err := os.WriteFile(importee, []byte("answer := 1;\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	importer := filepath.Join(dir, "main.lang")
	if err := os.WriteFile(importer, []byte(`module "lib.lang"
`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	s := New()
	_, err := s.CompileFile(importer)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, s.Diags.FormatAll(false, s.Registry))
	}
	if len(s.modules) != 2 {
		t.Fatalf("expected both the importing file and the imported module to be cached, got %d", len(s.modules))
	}
}

func TestCompileModulePath_MissingFileReportsAnError(t *testing.T) {
	dir := t.TempDir()
	importer := filepath.Join(dir, "main.lang")
	if err := os.WriteFile(importer, []byte(`module "does_not_exist.lang"
`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	s := New()
	_, err := s.CompileFile(importer)
	if err == nil {
		t.Fatalf("expected a load failure for a missing module path")
	}
}

func TestWithSearchPaths_ResolvesABareModuleNameAgainstAConfiguredDirectory(t *testing.T) {
	libDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(libDir, "lib.lang"), []byte("answer := 1;\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	mainDir := t.TempDir()
	importer := filepath.Join(mainDir, "main.lang")
	if err := os.WriteFile(importer, []byte(`module "lib.lang"
`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	s := New(WithSearchPaths(libDir))
	_, err := s.CompileFile(importer)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, s.Diags.FormatAll(false, s.Registry))
	}
}

func TestCurrentFile_IsEmptyOutsideACompilation(t *testing.T) {
	s := New()
	if s.CurrentFile() != "" {
		t.Fatalf("expected no current file outside of a compilation")
	}
}
