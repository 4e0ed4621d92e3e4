package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskcache/internal/domain"
	"github.com/phrazzld/taskcache/internal/platform/logger"
	"github.com/phrazzld/taskcache/internal/redact"
	"github.com/phrazzld/taskcache/internal/service/auth"
	"github.com/phrazzld/taskcache/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UrgentTaskQuery is the read path over the urgency cache. The menu and the
// HTTP endpoint both depend on this narrow view.
type UrgentTaskQuery interface {
	// ListUrgentTasks returns every task currently mirrored in the cache.
	// An empty cache yields an empty, non-nil slice and a nil error.
	ListUrgentTasks(ctx context.Context) ([]*domain.Task, error)
}

// TaskService manages users and the task lifecycle across the durable store
// and the urgency cache.
type TaskService interface {
	UrgentTaskQuery

	// CreateUser validates the draft, hashes the password and stores the user.
	CreateUser(ctx context.Context, draft domain.UserDraft) (primitive.ObjectID, error)

	// CreateTask stores a new task for an existing user and mirrors it to the
	// cache when the urgency policy deems it urgent.
	// Returns ErrInvalidReference if the assigned user is malformed or unknown.
	CreateTask(ctx context.Context, draft domain.TaskDraft) (primitive.ObjectID, error)

	// DeleteTask removes a task and its cache entry. It reports whether a
	// task was removed; a missing task is not an error.
	DeleteTask(ctx context.Context, taskID string) (bool, error)

	// CompleteTask marks a task completed and rewrites its cache snapshot.
	// It reports whether the task was modified.
	CompleteTask(ctx context.Context, taskID string) (bool, error)

	// GetTasksForUser lists the tasks assigned to a user from the durable store.
	GetTasksForUser(ctx context.Context, userID string) ([]*domain.Task, error)
}

// Option configures a TaskService.
type Option func(*taskServiceImpl)

// WithClock overrides the time source used for creation stamps and urgency.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPasswordHasher overrides the hasher used by CreateUser.
func WithPasswordHasher(h auth.PasswordHasher) Option {
	return func(s *taskServiceImpl) {
		if h != nil {
			s.hasher = h
		}
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks     store.TaskStore
	users     store.UserStore
	cache     store.UrgentCache
	hasher    auth.PasswordHasher
	validator *validator.Validate
	now       func() time.Time
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	cache store.UrgentCache,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{Operation: "new", Message: "task store cannot be nil"}
	}
	if users == nil {
		return nil, &TaskServiceError{Operation: "new", Message: "user store cannot be nil"}
	}
	if cache == nil {
		return nil, &TaskServiceError{Operation: "new", Message: "urgent cache cannot be nil"}
	}
	if logger == nil {
		return nil, &TaskServiceError{Operation: "new", Message: "logger cannot be nil"}
	}

	s := &taskServiceImpl{
		tasks:     tasks,
		users:     users,
		cache:     cache,
		hasher:    auth.NewBcryptHasher(bcrypt.DefaultCost),
		validator: validator.New(),
		now:       time.Now,
		logger:    logger.With("component", "task_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// log returns the request-scoped logger if one was attached to ctx.
func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// CreateUser implements TaskService.CreateUser
func (s *taskServiceImpl) CreateUser(ctx context.Context, draft domain.UserDraft) (primitive.ObjectID, error) {
	log := s.log(ctx)

	if err := s.validator.Struct(draft); err != nil {
		log.Debug("rejected user draft", "error", err)
		return primitive.NilObjectID, invalidInput(err)
	}

	hashed, err := s.hasher.Hash(draft.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return primitive.NilObjectID, invalidInput(err)
		}
		log.Error("failed to hash password", "error", err)
		return primitive.NilObjectID, NewTaskServiceError("create_user", "failed to hash password", err)
	}

	user := domain.NewUser(draft, hashed, s.now())
	if err := s.users.Create(ctx, user); err != nil {
		log.Error("failed to save user",
			"error", redact.Error(err),
			"role", draft.Role)
		return primitive.NilObjectID, NewTaskServiceError("create_user", "failed to save user", err)
	}

	log.Info("user created", "user_id", user.ID.Hex(), "role", user.Role)
	return user.ID, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, draft domain.TaskDraft) (primitive.ObjectID, error) {
	log := s.log(ctx)

	if err := s.validator.Struct(draft); err != nil {
		log.Debug("rejected task draft", "error", err)
		return primitive.NilObjectID, invalidInput(err)
	}

	assignee, err := domain.ParseID(draft.AssignedUserID)
	if err != nil {
		log.Debug("malformed assignee id", "user_id", draft.AssignedUserID)
		return primitive.NilObjectID, err
	}

	exists, err := s.users.Exists(ctx, assignee)
	if err != nil {
		log.Error("failed to check assignee",
			"error", redact.Error(err),
			"user_id", assignee.Hex())
		return primitive.NilObjectID, NewTaskServiceError("create_task", "failed to check assigned user", err)
	}
	if !exists {
		log.Debug("assignee does not exist", "user_id", assignee.Hex())
		return primitive.NilObjectID, fmt.Errorf("%w: user %s does not exist", ErrInvalidReference, assignee.Hex())
	}

	now := s.now()
	task := domain.NewTask(draft, assignee, now)
	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to save task",
			"error", redact.Error(err),
			"user_id", assignee.Hex())
		return primitive.NilObjectID, NewTaskServiceError("create_task", "failed to save task", err)
	}

	urgent := task.IsUrgent(now)
	if urgent {
		s.mirror(ctx, "create_task", task)
	}

	log.Info("task created",
		"task_id", task.ID.Hex(),
		"user_id", assignee.Hex(),
		"priority", task.Priority,
		"urgent", urgent)
	return task.ID, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	log := s.log(ctx)

	id, err := domain.ParseID(taskID)
	if err != nil {
		return false, err
	}

	removed, err := s.tasks.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete task",
			"error", redact.Error(err),
			"task_id", id.Hex())
		return false, NewTaskServiceError("delete_task", "failed to delete task", err)
	}
	if !removed {
		log.Debug("task to delete not found", "task_id", id.Hex())
		return false, nil
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		log.Warn("task deleted but cache entry could not be removed",
			"error", redact.Error(err),
			"task_id", id.Hex())
	}

	log.Info("task deleted", "task_id", id.Hex())
	return true, nil
}

// CompleteTask implements TaskService.CompleteTask
func (s *taskServiceImpl) CompleteTask(ctx context.Context, taskID string) (bool, error) {
	log := s.log(ctx)

	id, err := domain.ParseID(taskID)
	if err != nil {
		return false, err
	}

	modified, err := s.tasks.MarkCompleted(ctx, id)
	if err != nil {
		log.Error("failed to complete task",
			"error", redact.Error(err),
			"task_id", id.Hex())
		return false, NewTaskServiceError("complete_task", "failed to mark task completed", err)
	}
	if !modified {
		log.Debug("task not modified by completion", "task_id", id.Hex())
		return false, nil
	}

	// The snapshot is rewritten whether or not the task is urgent, so a
	// completed non-urgent task also gains a cache entry.
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		log.Warn("task completed but could not be re-read for the cache",
			"error", redact.Error(err),
			"task_id", id.Hex())
	} else {
		s.mirror(ctx, "complete_task", task)
	}

	log.Info("task completed", "task_id", id.Hex())
	return true, nil
}

// GetTasksForUser implements TaskService.GetTasksForUser
func (s *taskServiceImpl) GetTasksForUser(ctx context.Context, userID string) ([]*domain.Task, error) {
	log := s.log(ctx)

	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByUser(ctx, id)
	if err != nil {
		log.Error("failed to list tasks for user",
			"error", redact.Error(err),
			"user_id", id.Hex())
		return nil, NewTaskServiceError("get_tasks_for_user", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("listed tasks for user", "user_id", id.Hex(), "count", len(tasks))
	return tasks, nil
}

// ListUrgentTasks implements UrgentTaskQuery.ListUrgentTasks
func (s *taskServiceImpl) ListUrgentTasks(ctx context.Context) ([]*domain.Task, error) {
	log := s.log(ctx)

	tasks, err := s.cache.List(ctx)
	if err != nil {
		log.Error("failed to list urgent tasks", "error", redact.Error(err))
		return nil, NewTaskServiceError("list_urgent_tasks", "failed to read urgency cache", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("listed urgent tasks", "count", len(tasks))
	return tasks, nil
}

// mirror writes a task snapshot to the cache. Failures are logged and
// otherwise ignored; the durable write has already succeeded.
func (s *taskServiceImpl) mirror(ctx context.Context, operation string, task *domain.Task) {
	if err := s.cache.Put(ctx, task); err != nil {
		s.log(ctx).Warn("failed to mirror task to urgency cache",
			"error", redact.Error(err),
			"operation", operation,
			"task_id", task.ID.Hex())
	}
}
