package scaffold

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"chorus/internal/task"
)

func TestGenerateProducesLoadableTask(t *testing.T) {
	dir := t.TempDir()

	path, err := Generate(dir, Options{
		Name:        "seed_users",
		Description: "Seed the users table",
		Tag:         "db",
		Priority:    5,
		Type:        task.Always,
		Schedule:    "0 6 * * *",
		Run:         "echo seeding",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	tk, err := task.NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("generated file does not load: %v", err)
	}
	if tk.Tag() != "db" || tk.Priority() != 5 || tk.Type() != task.Always {
		t.Errorf("loaded task = tag %q priority %d type %q", tk.Tag(), tk.Priority(), tk.Type())
	}
	if tk.Schedule() != "0 6 * * *" {
		t.Errorf("Schedule() = %q", tk.Schedule())
	}
	if !tk.Runnable() {
		t.Error("generated task with a run step should be runnable")
	}
}

func TestGenerateFilenameFormat(t *testing.T) {
	dir := t.TempDir()

	path, err := Generate(dir, Options{Name: "cleanup", Run: "true"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	base := filepath.Base(path)
	pattern := regexp.MustCompile(`^\d{4}_\d{2}_\d{2}_\d{6}_cleanup\.task$`)
	if !pattern.MatchString(base) {
		t.Errorf("filename %q does not carry the timestamp prefix", base)
	}
}

func TestGenerateRejectsBadNames(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"", "Has Spaces", "UPPER", "-leading", "weird/slash"} {
		if _, err := Generate(dir, Options{Name: name}); err == nil {
			t.Errorf("Generate(%q) should reject the name", name)
		}
	}
}

func TestGenerateRejectsBadSchedule(t *testing.T) {
	dir := t.TempDir()

	if _, err := Generate(dir, Options{Name: "nightly", Schedule: "not a cron"}); err == nil {
		t.Error("Generate() should reject an unparsable schedule")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Error("nothing should be written when validation fails")
	}
}

func TestGenerateDefaultsTypeToOnce(t *testing.T) {
	dir := t.TempDir()

	path, err := Generate(dir, Options{Name: "migrate", Run: "true"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "type: once") {
		t.Errorf("generated file missing default type:\n%s", data)
	}
}

func TestGenerateHandlerTask(t *testing.T) {
	dir := t.TempDir()

	path, err := Generate(dir, Options{Name: "notify", Handler: "hello"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "handler: hello") {
		t.Errorf("generated file missing handler reference:\n%s", data)
	}
	if strings.Contains(string(data), "\nrun:") {
		t.Error("a handler task should not also get a run step")
	}
}

func TestGenerateCreatesPoolDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "pool")

	if _, err := Generate(dir, Options{Name: "first", Run: "true"}); err != nil {
		t.Fatalf("Generate() should create the pool directory: %v", err)
	}
}
