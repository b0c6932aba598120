package service

// TaskItem represents one row of the task list.
type TaskItem struct {
	ID         int
	Title      string
	Status     string // "Pending", "In Progress", "Completed" or free-form
	DueDate    string // ISO date
	AssignedTo string
}

// TaskUpdate is a partial update. Nil fields are left unchanged.
type TaskUpdate struct {
	Title      *string
	Status     *string
	DueDate    *string
	AssignedTo *string
}

// Empty reports whether the update sets no fields.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Status == nil && u.DueDate == nil && u.AssignedTo == nil
}

// Apply returns t with the fields of u applied.
func (u TaskUpdate) Apply(t TaskItem) TaskItem {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.AssignedTo != nil {
		t.AssignedTo = *u.AssignedTo
	}
	return t
}
