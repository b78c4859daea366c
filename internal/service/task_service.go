package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	dom "github.com/tanmay0996/TaskManager/internal/domain"
	"github.com/tanmay0996/TaskManager/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/tanmay0996/TaskManager/internal/cache"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrForbidden     = errors.New("task belongs to another user")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid status")
)

// TaskService performs task CRUD. Reads are scoped to the caller's tasks;
// every mutation checks ownership against the fetched record first.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// List returns the caller's tasks in insertion order.
func (s *TaskService) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.List(ctx, userID)
}

// Create inserts a task owned by userID. Description defaults to empty,
// status defaults to pending.
func (s *TaskService) Create(ctx context.Context, userID int64, title, desc string, status dom.Status) (dom.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Task{}, ErrTitleRequired
	}
	if status == "" {
		status = dom.StatusPending
	}
	if !status.Valid() {
		return dom.Task{}, ErrInvalidStatus
	}

	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(desc),
		Status:      status,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Update applies only the non-nil patch fields to the caller's task.
// A missing task is ErrNotFound; someone else's task is ErrForbidden.
// The existence check runs first, so non-owners learn the task exists.
func (s *TaskService) Update(ctx context.Context, userID, id int64, title, desc *string, status *dom.Status) (dom.Task, error) {
	existing, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return dom.Task{}, err
	}
	patch := existing
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return dom.Task{}, ErrTitleRequired
		}
		patch.Title = trimmed
	}
	if desc != nil {
		patch.Description = strings.TrimSpace(*desc)
	}
	if status != nil {
		if !status.Valid() {
			return dom.Task{}, ErrInvalidStatus
		}
		patch.Status = *status
	}
	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the caller's task, with the same existence/ownership
// sequence as Update.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// getOwned fetches the task by ID and checks ownership against the snapshot.
func (s *TaskService) getOwned(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	if t.UserID != userID {
		return dom.Task{}, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
