package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/hay-kot/criterio"

	"vatask/internal/exitcode"
	"vatask/internal/schema"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the single positional task id.
//
// The id must be a positive integer. Extra arguments are rejected so that
// flags given after the id are reported instead of ignored.
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task id: %s", ref)
	}
	id, err := strconv.Atoi(ref)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", ref)
	}
	return id, nil
}

// parseTaskIDOrFail parses the id and reports failures the way every
// id-taking command does. ok is false when the command should exit 1.
func parseTaskIDOrFail(args []string, errOut io.Writer) (id int, ok bool) {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, false
	}
	return id, true
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// dueLayout is the accepted due date format.
const dueLayout = "2006-01-02"

func validStatus(s string) error {
	if s == "" || schema.IsKnownStatus(s) {
		return nil
	}
	return fmt.Errorf("must be one of: %s", strings.Join(schema.Statuses, ", "))
}

func validDue(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dueLayout, s); err != nil {
		return fmt.Errorf("must be a date like 2025-01-31")
	}
	return nil
}

// validateTaskFields checks the optional status and due date of a task.
func validateTaskFields(status, due string) error {
	return criterio.ValidateStruct(
		criterio.Run("status", status, validStatus),
		criterio.Run("due", due, validDue),
	)
}

// reportInvalid prints validation errors one per line.
func reportInvalid(errOut io.Writer, err error) int {
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			fmt.Fprintf(errOut, "error: %s: %v\n", fe.Field, fe.Err)
		}
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// banner prints a generic store failure message.
func banner(errOut io.Writer, msg string) int {
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return exitcode.BackendError
}

// optString is a flag that remembers whether it was given.
type optString struct {
	val string
	set bool
}

func (o *optString) String() string { return o.val }

func (o *optString) Set(s string) error {
	o.val = s
	o.set = true
	return nil
}

// ptr returns nil for an unset flag.
func (o *optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.val
	return &v
}

// optInt is an int flag that remembers whether it was given.
type optInt struct {
	val int
	set bool
}

func (o *optInt) String() string { return strconv.Itoa(o.val) }

func (o *optInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("not a number")
	}
	o.val = v
	o.set = true
	return nil
}

// optSwitch accepts on/off (and true/false) and remembers whether it was given.
type optSwitch struct {
	val bool
	set bool
}

func (o *optSwitch) String() string {
	if o.val {
		return "on"
	}
	return "off"
}

func (o *optSwitch) Set(s string) error {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		o.val = true
	case "off", "false", "no", "0":
		o.val = false
	default:
		return errors.New("want on or off")
	}
	o.set = true
	return nil
}
