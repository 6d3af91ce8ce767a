package callback

import (
	"reflect"
	"testing"

	"github.com/vango-dev/loom/internal/errors"
)

func TestDispatchInvokesHandler(t *testing.T) {
	r := NewRegistry()
	var got any
	r.Register("inc", "onClick", func(p any) { got = p })

	r.Dispatch("inc", 42)
	if got != 42 {
		t.Errorf("payload = %v, want 42", got)
	}
}

func TestDispatchUnknownIDIsFatal(t *testing.T) {
	r := NewRegistry()
	err := errors.Recover(func() { r.Dispatch("missing", nil) })
	if errors.Code(err) != "E107" {
		t.Errorf("Code = %q, want E107 (err=%v)", errors.Code(err), err)
	}

	r.Register("x", "onclick", func(any) {})
	err = errors.Recover(func() { r.DispatchEvent("x", "oninput", nil) })
	if errors.Code(err) != "E107" {
		t.Errorf("Code = %q, want E107 for unknown event", errors.Code(err))
	}
}

func TestPrimaryHandlerSelection(t *testing.T) {
	r := NewRegistry()
	var fired []string
	r.Register("field", "onInput", func(any) { fired = append(fired, "input") })
	r.Register("field", "onBlur", func(any) { fired = append(fired, "blur") })

	// No onClick: first event by name wins ("onblur" < "oninput").
	r.Dispatch("field", nil)

	r.Register("field", "ONCLICK", func(any) { fired = append(fired, "click") })
	r.Dispatch("field", nil)

	r.DispatchEvent("field", "oninput", nil)

	want := []string{"blur", "click", "input"}
	if !reflect.DeepEqual(fired, want) {
		t.Errorf("fired = %v, want %v", fired, want)
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	n := 0
	r.Register("a", "onclick", func(any) { n = 1 })
	r.Register("a", "onclick", func(any) { n = 2 })
	r.Dispatch("a", nil)
	if n != 2 {
		t.Errorf("n = %d, want 2 (latest handler)", n)
	}
}

func TestUnregisterAndReset(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "onclick", func(any) {})
	r.Register("b", "onclick", func(any) {})
	r.Register("b", "onclick", nil)

	if got := r.IDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("IDs() = %v", got)
	}
	r.Unregister("a")
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", r.Len())
	}
}

func TestWrap(t *testing.T) {
	called := 0
	tests := []struct {
		name string
		in   any
		ok   bool
	}{
		{"handler", Handler(func(any) { called++ }), true},
		{"func any", func(any) { called++ }, true},
		{"func no args", func() { called++ }, true},
		{"string", "nope", false},
		{"nil func", (func())(nil), false},
		{"wrong signature", func(int) {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := Wrap(tt.in)
			if ok != tt.ok {
				t.Fatalf("Wrap() ok = %v, want %v", ok, tt.ok)
			}
			if ok {
				before := called
				h(nil)
				if called != before+1 {
					t.Error("wrapped handler did not call through")
				}
			}
		})
	}
}
