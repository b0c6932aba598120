// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"vatask/internal/schema"
	"vatask/internal/service"
)

// ErrNotFound is the cause carried by StoreErrors for missing tasks.
var ErrNotFound = errors.New("item does not exist")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.TaskItem
	nextID int

	// SiteTitle is returned by Ping.
	SiteTitle string

	// Error injection for testing
	ListTasksErr  error
	GetTaskErr    error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	PingErr       error

	// Calls counts ListTasks invocations.
	Calls int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1, SiteTitle: "Team Site"}
}

// AddTask stores a task as is and returns its id.
func (f *FakeService) AddTask(title, status, due string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.tasks = append(f.tasks, service.TaskItem{ID: id, Title: title, Status: status, DueDate: due})
	return id
}

// Task returns the stored task with id, including AssignedTo.
func (f *FakeService) Task(id int) (service.TaskItem, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.index(id)
	if i < 0 {
		return service.TaskItem{}, false
	}
	return f.tasks[i], true
}

// Len returns the number of stored tasks.
func (f *FakeService) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

func (f *FakeService) index(id int) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound(op string, id int) error {
	return &service.StoreError{Op: op, ID: id, StatusCode: http.StatusNotFound, Err: ErrNotFound}
}

func projected(t service.TaskItem) service.TaskItem {
	t.AssignedTo = ""
	return t
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.TaskItem, error) {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.TaskItem, len(f.tasks))
	for i, t := range f.tasks {
		result[i] = projected(t)
	}
	return result, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int) (service.TaskItem, error) {
	if f.GetTaskErr != nil {
		return service.TaskItem{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.index(id)
	if i < 0 {
		return service.TaskItem{}, notFound("get", id)
	}
	return projected(f.tasks[i]), nil
}

// CreateTask implements service.Service. AssignedTo is not stored.
func (f *FakeService) CreateTask(ctx context.Context, task service.TaskItem) (service.TaskItem, error) {
	if f.CreateTaskErr != nil {
		return service.TaskItem{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := service.TaskItem{ID: f.nextID, Title: task.Title, Status: task.Status, DueDate: task.DueDate}
	if stored.Status == "" {
		stored.Status = schema.StatusPending
	}
	f.nextID++
	f.tasks = append(f.tasks, stored)

	created := task
	created.ID = stored.ID
	return created, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, upd service.TaskUpdate) error {
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return notFound("update", id)
	}
	f.tasks[i] = upd.Apply(f.tasks[i])
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return notFound("delete", id)
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// Ping implements service.Service.
func (f *FakeService) Ping(ctx context.Context) (string, error) {
	if f.PingErr != nil {
		return "", f.PingErr
	}
	return f.SiteTitle, nil
}
