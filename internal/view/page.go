// Package view models the loading/error/success state of a task page.
package view

import (
	"context"
	"fmt"
	"time"

	"vatask/internal/service"
)

// State is the load state of a page.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Banner texts shown to the user. Store failures are never told apart.
const (
	MsgLoadFailed    = "Failed to load tasks. Please try again later."
	MsgCreateFailed  = "Failed to create task. Please try again."
	MsgUpdateFailed  = "Failed to update task. Please try again."
	MsgDeleteFailed  = "Failed to delete task. Please try again."
	MsgTitleRequired = "Task title is required."
	MsgPingFailed    = "Could not reach the site. Check your connection settings."
	MsgLoading       = "Loading tasks..."
	MsgEmpty         = `No tasks found. Run "vatask add <title>" to create one.`
)

// Success banners.
const (
	MsgTaskCreated   = "Task created successfully!"
	MsgSettingsSaved = "Settings saved successfully!"
)

// SuccessBannerTTL is how long a success banner stays visible.
const SuccessBannerTTL = 3 * time.Second

// Page holds the state of one page. The zero value is an Idle page.
//
// Transitions: Idle|Loaded|Failed -> Loading on Begin; Loading -> Loaded on
// Succeed; Loading -> Failed on Fail. Other transitions are ignored.
type Page struct {
	state     State
	tasks     []service.TaskItem
	errMsg    string
	flash     string
	flashedAt time.Time
	now       func() time.Time
}

// NewPage returns an Idle page using clock for banner expiry. A nil clock means time.Now.
func NewPage(clock func() time.Time) *Page {
	return &Page{now: clock}
}

func (p *Page) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}

// State returns the current state.
func (p *Page) State() State { return p.state }

// Tasks returns the tasks of the last successful load.
func (p *Page) Tasks() []service.TaskItem { return p.tasks }

// Error returns the error banner, empty unless Failed or set by SetError.
func (p *Page) Error() string { return p.errMsg }

// Empty reports whether the page is Loaded with no tasks.
func (p *Page) Empty() bool { return p.state == Loaded && len(p.tasks) == 0 }

// Begin enters Loading and clears the error banner.
func (p *Page) Begin() bool {
	if p.state == Loading {
		return false
	}
	p.state = Loading
	p.errMsg = ""
	return true
}

// Succeed enters Loaded with tasks.
func (p *Page) Succeed(tasks []service.TaskItem) bool {
	if p.state != Loading {
		return false
	}
	p.state = Loaded
	p.tasks = tasks
	return true
}

// Fail enters Failed with the given banner. Tasks from an earlier load are kept.
func (p *Page) Fail(msg string) bool {
	if p.state != Loading {
		return false
	}
	p.state = Failed
	p.errMsg = msg
	return true
}

// SetError shows an error banner without changing state, for failed actions
// such as a rejected create.
func (p *Page) SetError(msg string) { p.errMsg = msg }

// Load runs fetch through Begin and Succeed/Fail. The returned error is the
// one from fetch; the page shows MsgLoadFailed instead.
func (p *Page) Load(ctx context.Context, fetch func(context.Context) ([]service.TaskItem, error)) error {
	if !p.Begin() {
		return fmt.Errorf("page is already loading")
	}
	tasks, err := fetch(ctx)
	if err != nil {
		p.Fail(MsgLoadFailed)
		return err
	}
	p.Succeed(tasks)
	return nil
}

// Flash shows a success banner for SuccessBannerTTL.
func (p *Page) Flash(msg string) {
	p.flash = msg
	p.flashedAt = p.clock()
}

// Success returns the success banner if it has not expired.
func (p *Page) Success() string {
	if p.flash == "" {
		return ""
	}
	if p.clock().Sub(p.flashedAt) >= SuccessBannerTTL {
		p.flash = ""
		return ""
	}
	return p.flash
}
