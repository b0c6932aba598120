package commands

import (
	"testing"
)

func TestRegistry_FindByNameAndAlias(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&RmCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"rm", "delete", "RM"} {
		cmd, ok := r.Find(name)
		if !ok || cmd.Name() != "rm" {
			t.Errorf("Find(%q) = %v, %v", name, cmd, ok)
		}
	}
	if _, ok := r.Find("remove"); ok {
		t.Error("unexpected match for remove")
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&TasksCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&TasksCmd{}); err == nil {
		t.Error("expected duplicate name to fail")
	}
}

func TestRegistry_AllSortedOnce(t *testing.T) {
	r := NewRegistry()
	for _, c := range []Command{&VersionCmd{}, &AddCmd{}, &RmCmd{}} {
		if err := r.Register(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all := r.All()
	var names []string
	for _, c := range all {
		names = append(names, c.Name())
	}
	want := []string{"add", "rm", "version"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestDefaultRegistry_HasEveryCommand(t *testing.T) {
	for _, name := range []string{
		"dashboard", "tasks", "ls", "show", "add", "new", "update", "edit",
		"done", "rm", "delete", "settings", "ping", "login", "logout", "version", "help",
	} {
		if _, ok := DefaultRegistry.Find(name); !ok {
			t.Errorf("command %q is not registered", name)
		}
	}
}
