// Package schema holds the task list name and field layout shared by the
// store client and the provisioning routine.
package schema

const (
	// DefaultListTitle is the title of the task list on the site.
	DefaultListTitle = "VATaskList"

	// GenericListTemplate is the SharePoint base template for a custom list.
	GenericListTemplate = 100
)

// Item field names read and written by the store client.
const (
	FieldID         = "Id"
	FieldTitle      = "Title"
	FieldStatus     = "Status"
	FieldDueDate    = "DueDate"
	FieldAssignedTo = "AssignedTo"
)

// Recognized task status values.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Statuses lists the recognized status values in display order.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// ListViewFields is the projection used when reading tasks.
// AssignedTo is part of the list but not read back.
var ListViewFields = []string{FieldID, FieldTitle, FieldStatus, FieldDueDate}

// FieldKind is a SharePoint FieldTypeKind value.
type FieldKind int

const (
	KindText     FieldKind = 2
	KindNote     FieldKind = 3
	KindDateTime FieldKind = 4
	KindBoolean  FieldKind = 8
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNote:
		return "note"
	case KindDateTime:
		return "datetime"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Field is a column added to the list at provisioning time.
type Field struct {
	Name string
	Kind FieldKind
}

// Fields is the provisioned column set, in creation order.
var Fields = []Field{
	{Name: "TaskTitle", Kind: KindText},
	{Name: "AssignedTo", Kind: KindText},
	{Name: "Completed", Kind: KindBoolean},
	{Name: "DueDate", Kind: KindDateTime},
	{Name: "Details", Kind: KindNote},
}

// IsKnownStatus reports whether s is one of the recognized status values.
func IsKnownStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
