package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/remdocs/remdocs/internal/testutil"
	"github.com/remdocs/remdocs/internal/transfer"
)

// setupCLI points the config at a fresh data directory.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupTestDir(t)
	t.Setenv("REMDOCS_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("REMDOCS_USER", "alice")
	t.Setenv("REMDOCS_LOG_LEVEL", "ERROR")
	t.Setenv("REMDOCS_DB_DRIVER", "sqlite3")
	t.Setenv("REMDOCS_DB_ADDRESS", "")
	t.Setenv("REMDOCS_REMINDER_START_HOUR", "0")
	t.Setenv("REMDOCS_REMINDER_END_HOUR", "23")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("remdocs %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// createdID extracts the short id from "Created task <id>: <title>".
func createdID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	if len(fields) < 3 || fields[0] != "Created" {
		t.Fatalf("unexpected add output: %q", out)
	}
	return strings.TrimSuffix(fields[2], ":")
}

func TestCLI_TaskLifecycle(t *testing.T) {
	setupCLI(t)

	id := createdID(t, mustRun(t, "task", "add", "Algebra ch.3",
		"--type", "ps", "--due", "2099-01-01",
		"--start-page", "1", "--end-page", "10",
		"--start-question", "1", "--end-question", "4",
		"--tag", "math"))

	out := mustRun(t, "task", "list")
	if !strings.Contains(out, "Algebra ch.3") || !strings.Contains(out, "todo") {
		t.Errorf("list missing new task:\n%s", out)
	}

	out = mustRun(t, "task", "progress", id, "--pages", "5", "--questions", "1-2")
	if !strings.Contains(out, "50%") || !strings.Contains(out, "doing") {
		t.Errorf("unexpected progress output: %q", out)
	}

	out = mustRun(t, "task", "progress", id, "--pages", "10", "--toggle", "3,4")
	if !strings.Contains(out, "100%") || !strings.Contains(out, "done") {
		t.Errorf("unexpected progress output: %q", out)
	}

	out = mustRun(t, "task", "show", id)
	if !strings.Contains(out, "Completed: 1-4") {
		t.Errorf("show missing completed questions:\n%s", out)
	}

	out = mustRun(t, "task", "list", "--tab", "done")
	if !strings.Contains(out, "Algebra ch.3") {
		t.Errorf("done tab missing task:\n%s", out)
	}
	out = mustRun(t, "task", "list", "--tab", "todo")
	if !strings.Contains(out, "No tasks.") {
		t.Errorf("todo tab should be empty:\n%s", out)
	}

	mustRun(t, "task", "edit", id, "--status", "doing")
	out = mustRun(t, "task", "list", "--tab", "doing")
	if !strings.Contains(out, "Algebra ch.3") {
		t.Errorf("manual status not applied:\n%s", out)
	}

	mustRun(t, "task", "delete", id)
	if _, err := runCLI(t, "task", "show", id); err == nil {
		t.Error("expected show to fail after delete")
	}
}

func TestCLI_OtherUserCannotSeeTask(t *testing.T) {
	setupCLI(t)

	id := createdID(t, mustRun(t, "task", "add", "Private", "--type", "vocab", "--due", "2099-01-01", "--vocab-count", "10"))

	if _, err := runCLI(t, "--user", "bob", "task", "show", id); err == nil {
		t.Fatal("expected bob to be denied alice's task")
	}
	out := mustRun(t, "--user", "bob", "task", "list")
	if !strings.Contains(out, "No tasks.") {
		t.Errorf("bob should see no tasks:\n%s", out)
	}
}

func TestCLI_Tags(t *testing.T) {
	setupCLI(t)

	id := createdID(t, mustRun(t, "task", "add", "Words", "--type", "vocab", "--due", "2099-01-01"))

	out := mustRun(t, "tag", "add", id, "  english ")
	if !strings.Contains(out, "Tags for") || !strings.Contains(out, "english") {
		t.Errorf("unexpected tag output: %q", out)
	}
	mustRun(t, "tag", "add", id, "english")
	out = mustRun(t, "task", "list", "--tag", "english")
	if !strings.Contains(out, "Words") {
		t.Errorf("tag filter missed task:\n%s", out)
	}

	out = mustRun(t, "tag", "remove", id, "english")
	if !strings.Contains(out, "Tags for") || strings.Contains(out, "english") {
		t.Errorf("tag not removed: %q", out)
	}
}

func TestCLI_ProfileAndStats(t *testing.T) {
	setupCLI(t)

	mustRun(t, "task", "add", "Words", "--type", "vocab", "--due", "2099-01-01", "--vocab-count", "4")

	out := mustRun(t, "profile", "show")
	if !strings.Contains(out, "Anonymous (private)") || !strings.Contains(out, "Tasks:       1") {
		t.Errorf("unexpected default profile:\n%s", out)
	}

	if _, err := runCLI(t, "--user", "bob", "profile", "show", "alice"); err == nil {
		t.Error("expected private profile to be hidden from bob")
	}

	mustRun(t, "profile", "set", "--name", "Alice", "--public")
	out = mustRun(t, "--user", "bob", "profile", "show", "alice")
	if !strings.Contains(out, "Alice (public)") {
		t.Errorf("public profile not visible:\n%s", out)
	}

	out = mustRun(t, "stats")
	if !strings.Contains(out, "Todo:        1") {
		t.Errorf("unexpected stats:\n%s", out)
	}
}

func TestCLI_ImportExport(t *testing.T) {
	dir := setupCLI(t)

	csvPath := filepath.Join(dir, "tasks.csv")
	lines := []string{
		strings.Join(transfer.Header, ","),
		"Algebra,problem_set,2099-01-01,high,1,10,1,5,,,math",
		"Broken,essay,2099-01-01",
	}
	if err := os.WriteFile(csvPath, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	out := mustRun(t, "import", csvPath)
	if !strings.Contains(out, "Imported 1 task(s), skipped 1 row(s)") {
		t.Errorf("unexpected import output:\n%s", out)
	}
	if !strings.Contains(out, "row 3") {
		t.Errorf("expected row 3 to be reported:\n%s", out)
	}

	exportPath := filepath.Join(dir, "out.json")
	out = mustRun(t, "export", exportPath)
	if !strings.Contains(out, "Exported 1 task(s)") {
		t.Errorf("unexpected export output: %q", out)
	}
	doc, err := transfer.ReadExport(exportPath)
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}
	if doc.UserID != "alice" || len(doc.Tasks) != 1 || doc.Tasks[0].Title != "Algebra" {
		t.Errorf("unexpected export: %+v", doc)
	}

	out = mustRun(t, "activity")
	if !strings.Contains(out, "tasks_imported") {
		t.Errorf("activity missing import event:\n%s", out)
	}
}

func TestCLI_RemindOnce(t *testing.T) {
	setupCLI(t)

	mustRun(t, "task", "add", "Due soon", "--type", "vocab", "--due", "2099-01-01",
		"--notify-at", "2000-01-01 08:00")
	mustRun(t, "task", "add", "No reminder", "--type", "vocab", "--due", "2099-01-01")

	out := mustRun(t, "remind", "--once")
	if !strings.Contains(out, `Reminder: "Due soon"`) || !strings.Contains(out, "Sent 1 reminder(s)") {
		t.Errorf("unexpected remind output:\n%s", out)
	}

	out = mustRun(t, "remind", "--once")
	if !strings.Contains(out, "Sent 0 reminder(s)") {
		t.Errorf("reminder should only be sent once:\n%s", out)
	}
}

func TestCLI_InvalidInput(t *testing.T) {
	setupCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing type", []string{"task", "add", "X", "--due", "2099-01-01"}},
		{"bad type", []string{"task", "add", "X", "--type", "essay", "--due", "2099-01-01"}},
		{"bad due date", []string{"task", "add", "X", "--type", "ps", "--due", "tomorrow"}},
		{"negative range", []string{"task", "add", "X", "--type", "ps", "--due", "2099-01-01", "--end-page", "-1"}},
		{"bad tab", []string{"task", "list", "--tab", "archived"}},
		{"unknown task", []string{"task", "show", "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestCLI_RemindOnceQuiet(t *testing.T) {
	setupCLI(t)

	mustRun(t, "task", "add", "Quiet one", "--type", "vocab", "--due", "2099-01-01",
		"--notify-at", "2000-01-01 08:00")

	out := mustRun(t, "remind", "--once", "--quiet")
	if strings.Contains(out, "Reminder:") {
		t.Errorf("expected reminder to go to the log only:\n%s", out)
	}
	if !strings.Contains(out, "Sent 1 reminder(s)") {
		t.Errorf("unexpected remind output:\n%s", out)
	}
}
