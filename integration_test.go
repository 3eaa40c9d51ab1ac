package main

import (
	"bytes"
	"os"
	"testing"
	"time"
)

// ===== INTEGRATION TESTS =====

func TestE2EClassicWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile("main.c", []byte("int main(void){return 0;}\n"), 0600); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}

	ruleFile := "app: main.o\n\tcp main.o app\n\nmain.o: main.c\n\tcp main.c main.o\n"
	if err := os.WriteFile("mmakefile", []byte(ruleFile), 0600); err != nil {
		t.Fatalf("Failed to write rule file: %v", err)
	}

	m, err := ParseMakefile("mmakefile")
	if err != nil {
		t.Fatalf("ParseMakefile() unexpected error: %v", err)
	}

	// Initial build: everything is missing, both commands run in
	// prerequisite-first order.
	var buf bytes.Buffer
	req := NewBuildRequest(false, false)
	req.Out = &buf

	if err := runBuild(m, nil, req); err != nil {
		t.Fatalf("runBuild() unexpected error: %v", err)
	}
	if _, err := os.Stat("app"); err != nil {
		t.Fatalf("Build did not produce app: %v", err)
	}
	want := "cp main.c main.o\ncp main.o app\n"
	if buf.String() != want {
		t.Errorf("Initial build output = %q, want %q", buf.String(), want)
	}
	if req.ExitStatus != 0 {
		t.Errorf("Initial build exit status = %d, want 0", req.ExitStatus)
	}

	// Pin timestamps so the tree is cleanly up to date.
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"main.c", "main.o", "app"} {
		mtime := base.Add(time.Duration(i) * 10 * time.Second)
		if err := os.Chtimes(name, mtime, mtime); err != nil {
			t.Fatalf("Chtimes(%s): %v", name, err)
		}
	}

	// Up-to-date build: nothing runs.
	buf.Reset()
	req = NewBuildRequest(false, false)
	req.Out = &buf
	if err := runBuild(m, nil, req); err != nil {
		t.Fatalf("runBuild() unexpected error: %v", err)
	}
	if buf.String() != "" {
		t.Errorf("Up-to-date build ran commands: %q", buf.String())
	}

	// Touch the source: the whole chain rebuilds.
	newer := base.Add(time.Hour)
	if err := os.Chtimes("main.c", newer, newer); err != nil {
		t.Fatalf("Chtimes(main.c): %v", err)
	}
	buf.Reset()
	req = NewBuildRequest(false, false)
	req.Out = &buf
	if err := runBuild(m, nil, req); err != nil {
		t.Fatalf("runBuild() unexpected error: %v", err)
	}
	if buf.String() != want {
		t.Errorf("Rebuild output = %q, want %q", buf.String(), want)
	}

	// Forced build runs every rule once regardless of timestamps.
	buf.Reset()
	req = NewBuildRequest(true, false)
	req.Out = &buf
	if err := runBuild(m, nil, req); err != nil {
		t.Fatalf("runBuild() unexpected error: %v", err)
	}
	if buf.String() != want {
		t.Errorf("Forced build output = %q, want %q", buf.String(), want)
	}
}

func TestE2EYAMLWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	chdir(t, dir)
	defer func() { vars = map[string]Var{} }()

	ruleFile := `default: greet
vars:
  MSG: hello
targets:
  greet:
    cmd: echo $MSG
`
	if err := os.WriteFile("mmake.yaml", []byte(ruleFile), 0600); err != nil {
		t.Fatalf("Failed to write rule file: %v", err)
	}

	m, err := LoadMakefile("mmake.yaml")
	if err != nil {
		t.Fatalf("LoadMakefile() unexpected error: %v", err)
	}

	var buf bytes.Buffer
	req := NewBuildRequest(false, false)
	req.Out = &buf

	if err := runBuild(m, nil, req); err != nil {
		t.Fatalf("runBuild() unexpected error: %v", err)
	}
	want := "echo hello\nhello\n"
	if buf.String() != want {
		t.Errorf("YAML build output = %q, want %q", buf.String(), want)
	}
	if req.ExitStatus != 0 {
		t.Errorf("YAML build exit status = %d, want 0", req.ExitStatus)
	}
}

func TestE2EQuietBuild(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	m := NewMakefile()
	m.AddRule(&Rule{Target: "greet", Cmd: []string{"echo", "hi"}})

	var buf bytes.Buffer
	req := NewBuildRequest(false, true)
	req.Out = &buf

	if err := runBuild(m, []string{"greet"}, req); err != nil {
		t.Fatalf("runBuild() unexpected error: %v", err)
	}
	if buf.String() != "hi\n" {
		t.Errorf("Quiet build output = %q, want only the child's output", buf.String())
	}
}

func TestE2EFailingTarget(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile("mmakefile", []byte("fail:\n\tfalse\n"), 0600); err != nil {
		t.Fatalf("Failed to write rule file: %v", err)
	}

	m, err := ParseMakefile("mmakefile")
	if err != nil {
		t.Fatalf("ParseMakefile() unexpected error: %v", err)
	}

	req := NewBuildRequest(false, true)
	req.Out = &bytes.Buffer{}

	if err := runBuild(m, []string{"fail"}, req); err != nil {
		t.Fatalf("runBuild() unexpected error: %v", err)
	}
	if req.ExitStatus != 1 {
		t.Errorf("Failing build exit status = %d, want 1", req.ExitStatus)
	}
}
