package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/remdocs/remdocs/internal/logging"
	"github.com/remdocs/remdocs/internal/progress"
	"github.com/remdocs/remdocs/internal/task"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remdocs.db")
	db, err := Open(logging.Discard(), "sqlite3", path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func intPtr(v int) *int {
	return &v
}

func sampleTask(id, userID string) task.Task {
	return task.Task{
		ID:                 id,
		UserID:             userID,
		Title:              "Linear algebra",
		Type:               task.TypeProblemSet,
		StartPage:          intPtr(10),
		EndPage:            intPtr(19),
		StartQuestion:      intPtr(1),
		EndQuestion:        intPtr(20),
		CompletedPages:     3,
		CompletedQuestions: progress.NewQuestionSet(4, 2, 9),
		Progress:           15,
		Status:             task.StatusDoing,
		Priority:           task.PriorityHigh,
		DueDate:            testNow.Add(72 * time.Hour),
		Tags:               []string{"math", "exam"},
		CreatedAt:          testNow,
		UpdatedAt:          testNow,
	}
}

func TestDB_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	want := sampleTask("t-1", "alice")

	if err := db.CreateTask(ctx, want); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := db.GetTask(ctx, "alice", "t-1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}

	if got.Title != want.Title || got.Type != want.Type || got.Status != want.Status {
		t.Errorf("unexpected task: %+v", got)
	}
	if got.StartPage == nil || *got.StartPage != 10 || got.VocabCount != nil {
		t.Errorf("unexpected range fields: start=%v vocab=%v", got.StartPage, got.VocabCount)
	}
	if !reflect.DeepEqual(got.CompletedQuestions.Sorted(), []int{2, 4, 9}) {
		t.Errorf("expected questions [2 4 9], got %v", got.CompletedQuestions.Sorted())
	}
	if !reflect.DeepEqual(got.Tags, []string{"math", "exam"}) {
		t.Errorf("expected tags [math exam], got %v", got.Tags)
	}
	if !got.DueDate.Equal(want.DueDate) {
		t.Errorf("expected due %v, got %v", want.DueDate, got.DueDate)
	}
	if got.NotifyTime != nil || got.RemindedAt != nil {
		t.Errorf("expected nil notify/reminded times")
	}
}

func TestDB_CreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateTask(ctx, sampleTask("t-1", "alice")); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	err := db.CreateTask(ctx, sampleTask("t-1", "alice"))
	if !errors.Is(err, task.ErrTaskAlreadyExists) {
		t.Fatalf("expected ErrTaskAlreadyExists, got %v", err)
	}
}

func TestDB_GetScopedToUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateTask(ctx, sampleTask("t-1", "alice")); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := db.GetTask(ctx, "bob", "t-1"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for another user, got %v", err)
	}
}

func TestDB_ListOrdersByDueDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	late := sampleTask("late", "alice")
	late.DueDate = testNow.Add(240 * time.Hour)
	early := sampleTask("early", "alice")
	early.DueDate = testNow.Add(24 * time.Hour)
	other := sampleTask("other", "bob")

	for _, tk := range []task.Task{late, early, other} {
		if err := db.CreateTask(ctx, tk); err != nil {
			t.Fatalf("CreateTask(%s): %v", tk.ID, err)
		}
	}

	tasks, err := db.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "early" || tasks[1].ID != "late" {
		t.Fatalf("expected [early late], got %d tasks", len(tasks))
	}
}

func TestDB_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tk := sampleTask("t-1", "alice")

	if err := db.CreateTask(ctx, tk); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tk.Type = task.TypeVocabDeck
	tk.ClearInactiveVariant()
	tk.VocabCount = intPtr(300)
	tk.CompletedVocab = 150
	tk.Progress = 50
	tk.Tags = nil
	if err := db.UpdateTask(ctx, tk); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	got, err := db.GetTask(ctx, "alice", "t-1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.StartPage != nil || got.CompletedQuestions.Len() != 0 {
		t.Errorf("expected problem set fields cleared, got start=%v questions=%v", got.StartPage, got.CompletedQuestions.Sorted())
	}
	if got.VocabCount == nil || *got.VocabCount != 300 || got.CompletedVocab != 150 {
		t.Errorf("unexpected vocab fields: %v %d", got.VocabCount, got.CompletedVocab)
	}
	if len(got.Tags) != 0 {
		t.Errorf("expected no tags, got %v", got.Tags)
	}

	if err := db.DeleteTask(ctx, "alice", "t-1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := db.DeleteTask(ctx, "alice", "t-1"); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
	if err := db.UpdateTask(ctx, tk); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound updating a deleted task, got %v", err)
	}
}

func TestDB_DueReminders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	due := sampleTask("due", "alice")
	due.Notify, due.NotifyTime = true, &past
	notYet := sampleTask("not-yet", "alice")
	notYet.Notify, notYet.NotifyTime = true, &future
	finished := sampleTask("finished", "bob")
	finished.Notify, finished.NotifyTime, finished.Status = true, &past, task.StatusDone
	silent := sampleTask("silent", "bob")

	for _, tk := range []task.Task{due, notYet, finished, silent} {
		if err := db.CreateTask(ctx, tk); err != nil {
			t.Fatalf("CreateTask(%s): %v", tk.ID, err)
		}
	}

	tasks, err := db.DueReminders(ctx, testNow)
	if err != nil {
		t.Fatalf("DueReminders: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "due" {
		t.Fatalf("expected only [due], got %d tasks", len(tasks))
	}

	if err := db.MarkReminded(ctx, "due", testNow); err != nil {
		t.Fatalf("MarkReminded: %v", err)
	}
	tasks, err = db.DueReminders(ctx, testNow)
	if err != nil {
		t.Fatalf("DueReminders: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no due reminders after marking, got %d", len(tasks))
	}
}

func TestDB_UpdateKeepsRemindedAt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	past := testNow.Add(-time.Hour)
	tk := sampleTask("due", "alice")
	tk.Notify, tk.NotifyTime = true, &past
	if err := db.CreateTask(ctx, tk); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	// A copy loaded before the sweep marks the reminder.
	stale, err := db.GetTask(ctx, "alice", "due")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if err := db.MarkReminded(ctx, "due", testNow); err != nil {
		t.Fatalf("MarkReminded: %v", err)
	}

	stale.CompletedPages = 8
	if err := db.UpdateTask(ctx, stale); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	got, err := db.GetTask(ctx, "alice", "due")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.RemindedAt == nil {
		t.Fatal("expected reminded_at to survive an unrelated update")
	}
	if got.CompletedPages != 8 {
		t.Errorf("expected completed pages 8, got %d", got.CompletedPages)
	}
	due, err := db.DueReminders(ctx, testNow)
	if err != nil {
		t.Fatalf("DueReminders: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected no reminder to fire twice, got %d", len(due))
	}

	later := testNow.Add(-30 * time.Minute)
	got.NotifyTime = &later
	if err := db.UpdateTask(ctx, got); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	got, err = db.GetTask(ctx, "alice", "due")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.RemindedAt != nil {
		t.Errorf("expected a new notify time to clear reminded_at, got %v", got.RemindedAt)
	}
}

func TestDB_Profiles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.GetProfile(ctx, "alice"); !errors.Is(err, task.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	p := task.Profile{UserID: "alice", DisplayName: "Alice", Bio: "studying", IsPublic: true, UpdatedAt: testNow}
	if err := db.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p.Bio = "still studying"
	p.IsPublic = false
	if err := db.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("UpsertProfile (update): %v", err)
	}

	got, err := db.GetProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.DisplayName != "Alice" || got.Bio != "still studying" || got.IsPublic {
		t.Errorf("unexpected profile: %+v", got)
	}
}
