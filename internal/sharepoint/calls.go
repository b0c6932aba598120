package sharepoint

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Web is the subset of SP.Web properties the client reads.
type Web struct {
	Title string `json:"Title"`
	URL   string `json:"Url"`
}

// List is the subset of SP.List properties the client reads and writes.
type List struct {
	ID           string `json:"Id,omitempty"`
	Title        string `json:"Title"`
	Description  string `json:"Description,omitempty"`
	BaseTemplate int    `json:"BaseTemplate,omitempty"`
	ItemCount    int    `json:"ItemCount,omitempty"`
}

// Field is a list column definition.
type Field struct {
	ID            string `json:"Id,omitempty"`
	Title         string `json:"Title"`
	FieldTypeKind int    `json:"FieldTypeKind"`
}

// ItemRef is the part of a created item the client needs.
type ItemRef struct {
	ID int `json:"Id"`
}

// WebService reads site-level properties.
type WebService struct{ s *Service }

// Get returns a call that fetches the current web.
func (r *WebService) Get() *WebGetCall {
	return &WebGetCall{call: newCall(r.s, http.MethodGet, "web")}
}

type WebGetCall struct{ call }

func (c *WebGetCall) Context(ctx context.Context) *WebGetCall {
	c.ctx = ctx
	return c
}

func (c *WebGetCall) Do() (*Web, error) {
	var w Web
	if err := c.do(&w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListsService manages lists on the web.
type ListsService struct{ s *Service }

// GetByTitle returns a call that fetches a list by its title.
func (r *ListsService) GetByTitle(title string) *ListsGetCall {
	return &ListsGetCall{call: newCall(r.s, http.MethodGet, listPath(title))}
}

type ListsGetCall struct{ call }

func (c *ListsGetCall) Context(ctx context.Context) *ListsGetCall {
	c.ctx = ctx
	return c
}

func (c *ListsGetCall) Do() (*List, error) {
	var l List
	if err := c.do(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Add returns a call that creates a list.
func (r *ListsService) Add(list *List) *ListsAddCall {
	c := &ListsAddCall{call: newCall(r.s, http.MethodPost, "web/lists")}
	c.body = list
	return c
}

type ListsAddCall struct{ call }

func (c *ListsAddCall) Context(ctx context.Context) *ListsAddCall {
	c.ctx = ctx
	return c
}

func (c *ListsAddCall) Do() (*List, error) {
	var l List
	if err := c.do(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// FieldsService manages list columns.
type FieldsService struct{ s *Service }

// Add returns a call that adds a field to the list.
func (r *FieldsService) Add(listTitle string, field *Field) *FieldsAddCall {
	c := &FieldsAddCall{call: newCall(r.s, http.MethodPost, listPath(listTitle)+"/fields")}
	c.body = field
	return c
}

type FieldsAddCall struct{ call }

func (c *FieldsAddCall) Context(ctx context.Context) *FieldsAddCall {
	c.ctx = ctx
	return c
}

func (c *FieldsAddCall) Do() (*Field, error) {
	var f Field
	if err := c.do(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ItemsService reads and writes list items. Item payloads are raw JSON so
// callers decode into their own row types.
type ItemsService struct{ s *Service }

// List returns a call that fetches all items of a list.
func (r *ItemsService) List(listTitle string) *ItemsListCall {
	return &ItemsListCall{call: newCall(r.s, http.MethodGet, listPath(listTitle)+"/items")}
}

type ItemsListCall struct{ call }

// Select restricts the returned item properties.
func (c *ItemsListCall) Select(fields ...string) *ItemsListCall {
	c.params.Set("$select", strings.Join(fields, ","))
	return c
}

func (c *ItemsListCall) Context(ctx context.Context) *ItemsListCall {
	c.ctx = ctx
	return c
}

func (c *ItemsListCall) Do() ([]json.RawMessage, error) {
	var resp struct {
		Value []json.RawMessage `json:"value"`
	}
	if err := c.do(&resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// Get returns a call that fetches a single item by id.
func (r *ItemsService) Get(listTitle string, id int) *ItemsGetCall {
	return &ItemsGetCall{call: newCall(r.s, http.MethodGet, itemPath(listTitle, id))}
}

type ItemsGetCall struct{ call }

// Select restricts the returned item properties.
func (c *ItemsGetCall) Select(fields ...string) *ItemsGetCall {
	c.params.Set("$select", strings.Join(fields, ","))
	return c
}

func (c *ItemsGetCall) Context(ctx context.Context) *ItemsGetCall {
	c.ctx = ctx
	return c
}

func (c *ItemsGetCall) Do() (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Add returns a call that creates an item from the JSON encoding of fields.
func (r *ItemsService) Add(listTitle string, fields any) *ItemsAddCall {
	c := &ItemsAddCall{call: newCall(r.s, http.MethodPost, listPath(listTitle)+"/items")}
	c.body = fields
	return c
}

type ItemsAddCall struct{ call }

func (c *ItemsAddCall) Context(ctx context.Context) *ItemsAddCall {
	c.ctx = ctx
	return c
}

func (c *ItemsAddCall) Do() (*ItemRef, error) {
	var ref ItemRef
	if err := c.do(&ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// Update returns a call that merges fields into an existing item.
// The update is unconditional (IF-MATCH: *).
func (r *ItemsService) Update(listTitle string, id int, fields any) *ItemsUpdateCall {
	c := &ItemsUpdateCall{call: newCall(r.s, http.MethodPost, itemPath(listTitle, id))}
	c.body = fields
	c.header.Set("X-HTTP-Method", "MERGE")
	c.header.Set("IF-MATCH", "*")
	return c
}

type ItemsUpdateCall struct{ call }

func (c *ItemsUpdateCall) Context(ctx context.Context) *ItemsUpdateCall {
	c.ctx = ctx
	return c
}

func (c *ItemsUpdateCall) Do() error {
	return c.do(nil)
}

// Delete returns a call that removes an item.
func (r *ItemsService) Delete(listTitle string, id int) *ItemsDeleteCall {
	c := &ItemsDeleteCall{call: newCall(r.s, http.MethodPost, itemPath(listTitle, id))}
	c.header.Set("X-HTTP-Method", "DELETE")
	c.header.Set("IF-MATCH", "*")
	return c
}

type ItemsDeleteCall struct{ call }

func (c *ItemsDeleteCall) Context(ctx context.Context) *ItemsDeleteCall {
	c.ctx = ctx
	return c
}

func (c *ItemsDeleteCall) Do() error {
	return c.do(nil)
}
