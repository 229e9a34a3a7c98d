package task

import (
	"context"
	"testing"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	reg.Register("cleanup", func(ctx context.Context) error { return nil })
	reg.Register("archive", func(ctx context.Context) error { return nil })

	if reg.Lookup("cleanup") == nil {
		t.Error("Lookup should find a registered handler")
	}
	if reg.Lookup("missing") != nil {
		t.Error("Lookup should return nil for an unregistered name")
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "archive" || names[1] != "cleanup" {
		t.Errorf("Names() = %v, want [archive cleanup]", names)
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register("once", func(ctx context.Context) error { return nil })

	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate handler should panic")
		}
	}()
	reg.Register("once", func(ctx context.Context) error { return nil })
}
