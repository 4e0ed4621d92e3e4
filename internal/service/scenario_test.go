package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/taskcache/internal/domain"
	"github.com/phrazzld/taskcache/internal/platform/logger"
	rediscache "github.com/phrazzld/taskcache/internal/platform/redis"
	"github.com/phrazzld/taskcache/internal/store"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory durable store standing in for MongoDB.
type memStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]domain.Task
	users map[primitive.ObjectID]domain.User
}

var (
	_ store.TaskStore = (*memStore)(nil)
	_ store.UserStore = (*memUsers)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		tasks: make(map[primitive.ObjectID]domain.Task),
		users: make(map[primitive.ObjectID]domain.User),
	}
}

func (s *memStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = primitive.NewObjectID()
	s.tasks[task.ID] = *task
	return nil
}

func (s *memStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

func (s *memStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.Task{}
	for _, task := range s.tasks {
		if task.AssignedUserID == userID {
			task := task
			out = append(out, &task)
		}
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

func (s *memStore) MarkCompleted(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.Completed {
		return false, nil
	}
	task.Completed = true
	s.tasks[id] = task
	return true, nil
}

func (s *memStore) taskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// memUsers exposes the user half of memStore, whose method names overlap
// with the task half.
type memUsers struct{ s *memStore }

func (u *memUsers) Create(_ context.Context, user *domain.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user.ID = primitive.NewObjectID()
	u.s.users[user.ID] = *user
	return nil
}

func (u *memUsers) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	_, ok := u.s.users[id]
	return ok, nil
}

type scenario struct {
	svc   TaskService
	db    *memStore
	mr    *miniredis.Miniredis
	cache *rediscache.UrgentCache
}

func newScenario(t *testing.T) *scenario {
	t.Helper()

	mr := miniredis.RunT(t)
	log, _ := logger.GetTestLogger(t)
	cache := rediscache.NewUrgentCacheWithOptions(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1}, log)
	t.Cleanup(func() { _ = cache.Close() })

	db := newMemStore()
	svc, err := NewTaskService(db, &memUsers{s: db}, cache, log,
		WithClock(func() time.Time { return fixedNow }),
		WithPasswordHasher(&plainHasher{}),
	)
	require.NoError(t, err)
	return &scenario{svc: svc, db: db, mr: mr, cache: cache}
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (sc *scenario) createUser(t *testing.T) primitive.ObjectID {
	t.Helper()
	id, err := sc.svc.CreateUser(context.Background(), domain.UserDraft{
		Name:     "U1",
		Email:    "u1@example.com",
		Role:     "developer",
		Password: "secret",
	})
	require.NoError(t, err)
	return id
}

func (sc *scenario) cached(t *testing.T, id primitive.ObjectID) (domain.Task, bool) {
	t.Helper()
	raw, err := sc.mr.Get(rediscache.Key(id))
	if err != nil {
		return domain.Task{}, false
	}
	var task domain.Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	return task, true
}

func TestScenario_UrgentLifecycle(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)
	user := sc.createUser(t)

	outage, err := sc.svc.CreateTask(ctx, domain.TaskDraft{
		Title:          "Fix outage",
		Priority:       domain.PriorityHigh,
		AssignedUserID: user.Hex(),
	})
	require.NoError(t, err)

	snap, ok := sc.cached(t, outage)
	require.True(t, ok, "high priority task should be cached")
	assert.Equal(t, outage, snap.ID)
	assert.False(t, snap.Completed)
	assert.Equal(t, time.Hour, sc.mr.TTL(rediscache.Key(outage)))

	sc.mr.FastForward(20 * time.Minute)
	modified, err := sc.svc.CompleteTask(ctx, outage.Hex())
	require.NoError(t, err)
	require.True(t, modified)

	snap, ok = sc.cached(t, outage)
	require.True(t, ok)
	assert.True(t, snap.Completed)
	assert.Equal(t, time.Hour, sc.mr.TTL(rediscache.Key(outage)), "completion refreshes the TTL")

	docs, err := sc.svc.CreateTask(ctx, domain.TaskDraft{
		Title:          "Read docs",
		Priority:       domain.PriorityLow,
		AssignedUserID: user.Hex(),
	})
	require.NoError(t, err)
	_, ok = sc.cached(t, docs)
	assert.False(t, ok, "low priority task without due date should not be cached")

	removed, err := sc.svc.DeleteTask(ctx, outage.Hex())
	require.NoError(t, err)
	require.True(t, removed)
	assert.False(t, sc.mr.Exists(rediscache.Key(outage)))

	urgent, err := sc.svc.ListUrgentTasks(ctx)
	require.NoError(t, err)
	for _, task := range urgent {
		assert.NotEqual(t, outage, task.ID)
	}
	assert.Empty(t, urgent)

	tasks, err := sc.svc.GetTasksForUser(ctx, user.Hex())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, docs, tasks[0].ID)
}

func TestScenario_DueDateWithinWindow(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)
	user := sc.createUser(t)

	soon, err := sc.svc.CreateTask(ctx, domain.TaskDraft{
		Title:          "Renew certificate",
		Priority:       domain.PriorityMedium,
		DueDate:        datePtr(fixedNow.Add(23 * time.Hour)),
		AssignedUserID: user.Hex(),
	})
	require.NoError(t, err)

	later, err := sc.svc.CreateTask(ctx, domain.TaskDraft{
		Title:          "Quarterly review",
		Priority:       domain.PriorityMedium,
		DueDate:        datePtr(fixedNow.Add(48 * time.Hour)),
		AssignedUserID: user.Hex(),
	})
	require.NoError(t, err)

	urgent, err := sc.svc.ListUrgentTasks(ctx)
	require.NoError(t, err)
	require.Len(t, urgent, 1)
	assert.Equal(t, soon, urgent[0].ID)

	_, ok := sc.cached(t, later)
	assert.False(t, ok)
}

func TestScenario_UnknownUser(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)

	_, err := sc.svc.CreateTask(ctx, domain.TaskDraft{
		Title:          "Fix outage",
		Priority:       domain.PriorityHigh,
		AssignedUserID: primitive.NewObjectID().Hex(),
	})
	require.ErrorIs(t, err, ErrInvalidReference)
	assert.Zero(t, sc.db.taskCount())
	assert.Empty(t, sc.mr.Keys())
}

func TestScenario_EmptyCache(t *testing.T) {
	sc := newScenario(t)

	urgent, err := sc.svc.ListUrgentTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, urgent)
	assert.Empty(t, urgent)
}

func TestScenario_ExpiredSnapshotsDisappear(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)
	user := sc.createUser(t)

	id, err := sc.svc.CreateTask(ctx, domain.TaskDraft{
		Title:          "Fix outage",
		Priority:       domain.PriorityHigh,
		AssignedUserID: user.Hex(),
	})
	require.NoError(t, err)

	sc.mr.FastForward(rediscache.TTL + time.Second)

	urgent, err := sc.svc.ListUrgentTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, urgent)

	// The durable record outlives its snapshot.
	tasks, err := sc.svc.GetTasksForUser(ctx, user.Hex())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
}

func TestScenario_CacheOutageDoesNotBlockWrites(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)
	user := sc.createUser(t)

	sc.mr.Close()

	id, err := sc.svc.CreateTask(ctx, domain.TaskDraft{
		Title:          "Fix outage",
		Priority:       domain.PriorityHigh,
		AssignedUserID: user.Hex(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, id)

	_, err = sc.svc.ListUrgentTasks(ctx)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	require.NoError(t, sc.mr.Restart())

	modified, err := sc.svc.CompleteTask(ctx, id.Hex())
	require.NoError(t, err)
	assert.True(t, modified)

	snap, ok := sc.cached(t, id)
	require.True(t, ok, "cache reconnects and receives the completion snapshot")
	assert.True(t, snap.Completed)
}
