// Package service implements the remdocs use cases on top of a Store.
// Every operation takes the acting user's id explicitly.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/remdocs/remdocs/internal/activity"
	"github.com/remdocs/remdocs/internal/progress"
	"github.com/remdocs/remdocs/internal/task"
	"github.com/remdocs/remdocs/internal/util"
)

// Store is the persistence the service needs.
type Store interface {
	CreateTask(ctx context.Context, t task.Task) error
	GetTask(ctx context.Context, userID, id string) (task.Task, error)
	ListTasks(ctx context.Context, userID string) ([]task.Task, error)
	UpdateTask(ctx context.Context, t task.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
	GetProfile(ctx context.Context, userID string) (task.Profile, error)
	UpsertProfile(ctx context.Context, p task.Profile) error
}

// Recorder receives lifecycle events. activity.Logger satisfies it.
type Recorder interface {
	Log(event, userID, taskID string, data map[string]interface{}) error
}

// Service coordinates the progress engine with persistence.
type Service struct {
	store    Store
	log      *slog.Logger
	activity Recorder
	now      func() time.Time
	newID    func() string
}

// NewService creates a service. activity may be nil.
func NewService(store Store, log *slog.Logger, activity Recorder) *Service {
	return &Service{
		store:    store,
		log:      log,
		activity: activity,
		now:      time.Now,
		newID:    util.NewTaskID,
	}
}

// ProgressInput is the completion state submitted by a progress save.
type ProgressInput struct {
	CompletedPages     int
	CompletedVocab     int
	CompletedQuestions progress.QuestionSet
}

// CreateTask validates a draft and stores a new task.
func (s *Service) CreateTask(ctx context.Context, userID string, d task.Draft) (task.Task, error) {
	if err := requireUser(userID); err != nil {
		return task.Task{}, err
	}
	now := s.now().UTC()
	t, err := task.New(s.newID(), userID, d, now)
	if err != nil {
		return task.Task{}, err
	}
	if err := s.store.CreateTask(ctx, t); err != nil {
		return task.Task{}, err
	}
	s.record(activity.EventTaskCreated, userID, t.ID, map[string]interface{}{"title": t.Title})
	return t, nil
}

// GetTask returns one of the user's tasks.
func (s *Service) GetTask(ctx context.Context, userID, id string) (task.Task, error) {
	if err := requireUser(userID); err != nil {
		return task.Task{}, err
	}
	if strings.TrimSpace(id) == "" {
		return task.Task{}, fmt.Errorf("%w: task id is required", task.ErrTaskInvalidArgs)
	}
	return s.store.GetTask(ctx, userID, id)
}

// FindTask resolves a full id or a unique id prefix to a task.
func (s *Service) FindTask(ctx context.Context, userID, ref string) (task.Task, error) {
	t, err := s.GetTask(ctx, userID, ref)
	if err == nil || !errors.Is(err, task.ErrTaskNotFound) || util.IsTaskID(ref) {
		return t, err
	}

	tasks, err := s.store.ListTasks(ctx, userID)
	if err != nil {
		return task.Task{}, err
	}
	var matches []task.Task
	for _, candidate := range tasks {
		if strings.HasPrefix(candidate.ID, ref) {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, task.ErrTaskNotFound
	case 1:
		return matches[0], nil
	default:
		return task.Task{}, fmt.Errorf("%w: id prefix %q matches %d tasks", task.ErrTaskInvalidArgs, ref, len(matches))
	}
}

// ListTasks returns the user's tasks matching filter.
func (s *Service) ListTasks(ctx context.Context, userID string, filter task.ListFilter) ([]task.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if _, err := task.ParseTab(string(filter.Tab)); err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter.Now.IsZero() {
		filter.Now = s.now()
	}
	return filter.Apply(tasks), nil
}

// EditTask applies a patch and stores the result.
func (s *Service) EditTask(ctx context.Context, userID, id string, p task.Patch) (task.Task, error) {
	current, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return task.Task{}, err
	}

	next := current.Clone()
	if err := task.Apply(&next, p); err != nil {
		return task.Task{}, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, next); err != nil {
		return task.Task{}, err
	}
	s.record(activity.EventTaskEdited, userID, id, map[string]interface{}{"status": string(next.Status)})
	return next, nil
}

// SaveProgress recomputes progress and status from the submitted inputs and
// stores them. Negative counts are treated as zero. If the result fails
// validation or the store rejects the write, nothing is changed and the
// error is returned.
func (s *Service) SaveProgress(ctx context.Context, userID, id string, in ProgressInput) (task.Task, error) {
	current, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return task.Task{}, err
	}

	next := current.Clone()
	switch next.Type {
	case task.TypeProblemSet:
		next.CompletedPages = max(0, in.CompletedPages)
		next.CompletedQuestions = in.CompletedQuestions
	case task.TypeVocabDeck:
		next.CompletedVocab = max(0, in.CompletedVocab)
	}

	res := progress.Evaluate(next.Inputs())
	next.Progress = res.Progress
	next.Status = res.Status
	next.UpdatedAt = s.now().UTC()

	if err := task.Validate(next); err != nil {
		return task.Task{}, err
	}
	if err := s.save(ctx, next); err != nil {
		return task.Task{}, err
	}
	s.record(activity.EventProgressSaved, userID, id, map[string]interface{}{
		"progress": next.Progress,
		"status":   string(next.Status),
	})
	return next, nil
}

// AddTag attaches a tag. Blank and duplicate tags leave the task unchanged.
func (s *Service) AddTag(ctx context.Context, userID, id, tag string) (task.Task, error) {
	current, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return task.Task{}, err
	}

	tags, added := task.AddTag(current.Tags, tag)
	if !added {
		return current, nil
	}
	next := current.Clone()
	next.Tags = tags
	next.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, next); err != nil {
		return task.Task{}, err
	}
	s.record(activity.EventTagAdded, userID, id, map[string]interface{}{"tag": strings.TrimSpace(tag)})
	return next, nil
}

// RemoveTag detaches a tag if present.
func (s *Service) RemoveTag(ctx context.Context, userID, id, tag string) (task.Task, error) {
	current, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return task.Task{}, err
	}

	tags, removed := task.RemoveTag(current.Tags, tag)
	if !removed {
		return current, nil
	}
	next := current.Clone()
	next.Tags = tags
	next.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, next); err != nil {
		return task.Task{}, err
	}
	s.record(activity.EventTagRemoved, userID, id, map[string]interface{}{"tag": strings.TrimSpace(tag)})
	return next, nil
}

// DeleteTask removes one of the user's tasks.
func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, userID, id); err != nil {
		return err
	}
	s.record(activity.EventTaskDeleted, userID, id, nil)
	return nil
}

// ImportTasks creates a task per draft. Drafts that fail validation or
// storage are reported per index and do not stop the rest.
func (s *Service) ImportTasks(ctx context.Context, userID string, drafts []task.Draft) ([]task.Task, map[int]error) {
	var created []task.Task
	failed := make(map[int]error)
	for i, d := range drafts {
		t, err := s.CreateTask(ctx, userID, d)
		if err != nil {
			failed[i] = err
			continue
		}
		created = append(created, t)
	}
	if len(created) > 0 {
		s.record(activity.EventTasksImported, userID, "", map[string]interface{}{
			"created": len(created),
			"failed":  len(failed),
		})
	}
	return created, failed
}

// Stats summarizes the user's tasks.
func (s *Service) Stats(ctx context.Context, userID string) (task.Stats, error) {
	if err := requireUser(userID); err != nil {
		return task.Stats{}, err
	}
	tasks, err := s.store.ListTasks(ctx, userID)
	if err != nil {
		return task.Stats{}, err
	}
	return task.ComputeStats(tasks, s.now()), nil
}

func (s *Service) save(ctx context.Context, t task.Task) error {
	if err := s.store.UpdateTask(ctx, t); err != nil {
		s.log.Warn("failed to save task", "task_id", t.ID, "error", err)
		return err
	}
	return nil
}

func (s *Service) record(event, userID, taskID string, data map[string]interface{}) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(event, userID, taskID, data); err != nil {
		s.log.Warn("failed to record activity", "event", event, "error", err)
	}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", task.ErrTaskInvalidArgs)
	}
	return nil
}
