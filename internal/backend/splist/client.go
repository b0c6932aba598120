// Package splist implements the service.Service interface on a SharePoint list.
package splist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"vatask/internal/config"
	"vatask/internal/schema"
	"vatask/internal/service"
	"vatask/internal/sharepoint"
)

// Client implements service.Service using the SharePoint REST API.
type Client struct {
	svc  *sharepoint.Service
	list string
	log  zerolog.Logger
}

// New creates a client from the resolved connection (environment first,
// then credentials.yaml).
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	conn, err := cfg.LoadConnection(os.Getenv)
	if err != nil {
		return nil, err
	}

	opts := []sharepoint.Option{
		sharepoint.WithClientCredentials(conn.ClientID, conn.ClientSecret),
	}
	if conn.TenantID != "" {
		opts = append(opts, sharepoint.WithRealm(conn.TenantID))
	}
	perSecond, err := config.RateLimitFromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	if perSecond > 0 {
		opts = append(opts, sharepoint.WithRateLimit(rate.Limit(perSecond), 1))
	}

	svc, err := sharepoint.NewService(ctx, conn.SiteURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sharepoint service: %w", err)
	}
	return NewWithService(svc, conn.List()), nil
}

// NewWithHTTPClient creates an unauthenticated client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, siteURL, listTitle string, httpClient *http.Client) (*Client, error) {
	svc, err := sharepoint.NewService(ctx, siteURL, sharepoint.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return NewWithService(svc, listTitle), nil
}

// NewWithService wraps an existing sharepoint.Service.
func NewWithService(svc *sharepoint.Service, listTitle string) *Client {
	return &Client{
		svc:  svc,
		list: listTitle,
		log:  log.With().Str("component", "store").Str("list", listTitle).Logger(),
	}
}

// WithLogger returns a copy of c that logs to l.
func (c *Client) WithLogger(l zerolog.Logger) *Client {
	cp := *c
	cp.log = l
	return &cp
}

// taskRow is the wire shape of a task item. DueDate and Status may be null.
type taskRow struct {
	ID         int     `json:"Id"`
	Title      string  `json:"Title"`
	Status     *string `json:"Status"`
	DueDate    *string `json:"DueDate"`
	AssignedTo *string `json:"AssignedTo"`
}

func (r taskRow) task() service.TaskItem {
	return service.TaskItem{
		ID:         r.ID,
		Title:      r.Title,
		Status:     deref(r.Status),
		DueDate:    deref(r.DueDate),
		AssignedTo: deref(r.AssignedTo),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListTasks returns all tasks in store order.
func (c *Client) ListTasks(ctx context.Context) ([]service.TaskItem, error) {
	rows, err := c.svc.Items.List(c.list).
		Select(schema.ListViewFields...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.fail("list", 0, err)
	}

	result := make([]service.TaskItem, 0, len(rows))
	for _, raw := range rows {
		var row taskRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, c.fail("list", 0, fmt.Errorf("decode item: %w", err))
		}
		result = append(result, row.task())
	}
	return result, nil
}

// GetTask returns one task by id.
func (c *Client) GetTask(ctx context.Context, id int) (service.TaskItem, error) {
	raw, err := c.svc.Items.Get(c.list, id).
		Select(schema.ListViewFields...).
		Context(ctx).
		Do()
	if err != nil {
		return service.TaskItem{}, c.fail("get", id, err)
	}

	var row taskRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return service.TaskItem{}, c.fail("get", id, fmt.Errorf("decode item: %w", err))
	}
	return row.task(), nil
}

// CreateTask submits Title, Status (default Pending) and DueDate.
// The returned task is the assigned id plus the submitted task, not a re-read.
func (c *Client) CreateTask(ctx context.Context, task service.TaskItem) (service.TaskItem, error) {
	status := task.Status
	if status == "" {
		status = schema.StatusPending
	}
	fields := map[string]any{
		schema.FieldTitle:  task.Title,
		schema.FieldStatus: status,
	}
	if task.DueDate != "" {
		fields[schema.FieldDueDate] = task.DueDate
	}

	ref, err := c.svc.Items.Add(c.list, fields).Context(ctx).Do()
	if err != nil {
		return service.TaskItem{}, c.fail("create", 0, err)
	}

	created := task
	created.ID = ref.ID
	c.log.Debug().Int("id", ref.ID).Msg("task created")
	return created, nil
}

// UpdateTask merges the set fields of upd into the item. Empty strings clear a field.
func (c *Client) UpdateTask(ctx context.Context, id int, upd service.TaskUpdate) error {
	fields := map[string]any{}
	setField(fields, schema.FieldTitle, upd.Title)
	setField(fields, schema.FieldStatus, upd.Status)
	setField(fields, schema.FieldDueDate, upd.DueDate)
	setField(fields, schema.FieldAssignedTo, upd.AssignedTo)

	if err := c.svc.Items.Update(c.list, id, fields).Context(ctx).Do(); err != nil {
		return c.fail("update", id, err)
	}
	return nil
}

func setField(fields map[string]any, name string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		fields[name] = nil
		return
	}
	fields[name] = *v
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	if err := c.svc.Items.Delete(c.list, id).Context(ctx).Do(); err != nil {
		return c.fail("delete", id, err)
	}
	return nil
}

// Ping returns the site title, or "Connected" when the site has none.
func (c *Client) Ping(ctx context.Context) (string, error) {
	web, err := c.svc.Web.Get().Context(ctx).Do()
	if err != nil {
		return "", c.fail("ping", 0, err)
	}
	if web.Title == "" {
		return "Connected", nil
	}
	return web.Title, nil
}

// fail logs err and wraps it in a *service.StoreError.
func (c *Client) fail(op string, id int, err error) error {
	status := sharepoint.StatusCode(err)
	ev := c.log.Error().Err(err).Str("op", op).Int("status", status)
	if id != 0 {
		ev = ev.Int("id", id)
	}
	ev.Msg("store request failed")

	return &service.StoreError{
		Op:         op,
		ID:         id,
		StatusCode: status,
		Err:        err,
	}
}
