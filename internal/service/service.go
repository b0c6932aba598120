// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task list operations.
// Commands never import the SharePoint client directly.
//
// Every method performs a single round trip to the store. Nothing is cached,
// retried or coordinated between calls; failures are returned as *StoreError.
type Service interface {
	// ListTasks returns all tasks in store order.
	// Only Id, Title, Status and DueDate are populated.
	ListTasks(ctx context.Context) ([]TaskItem, error)

	// GetTask returns one task with the same projection as ListTasks.
	GetTask(ctx context.Context, id int) (TaskItem, error)

	// CreateTask adds a task. Status defaults to "Pending" in the store.
	// The result is the store-assigned ID merged with the submitted fields;
	// it is not re-read from the store.
	CreateTask(ctx context.Context, task TaskItem) (TaskItem, error)

	// UpdateTask replaces only the fields set in upd. Last write wins.
	UpdateTask(ctx context.Context, id int, upd TaskUpdate) error

	// DeleteTask removes a task. Deleting a missing task is an error.
	DeleteTask(ctx context.Context, id int) error

	// Ping checks connectivity and returns the site title.
	Ping(ctx context.Context) (string, error)
}
