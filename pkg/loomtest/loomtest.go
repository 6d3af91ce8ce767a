package loomtest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
)

// Harness drives one Root in a test.
type Harness struct {
	tb       testing.TB
	el       *element.Element
	root     *loom.Root
	registry *callback.Registry
}

// Render creates a Root and renders el. opts are applied after the
// harness's own registry option.
func Render(tb testing.TB, el *element.Element, opts ...loom.Option) *Harness {
	tb.Helper()
	reg := callback.NewRegistry()
	h := &Harness{
		tb:       tb,
		el:       el,
		registry: reg,
		root:     loom.CreateRoot(append([]loom.Option{loom.WithRegistry(reg)}, opts...)...),
	}
	h.do(func() { h.root.Render(el) })
	return h
}

// Root returns the underlying Root.
func (h *Harness) Root() *loom.Root { return h.root }

// Registry returns the harness's callback registry.
func (h *Harness) Registry() *callback.Registry { return h.registry }

// Output returns the serialized tree.
func (h *Harness) Output() string { return h.root.String() }

// Rerender renders el again, which reconciles the root if it changed.
func (h *Harness) Rerender(el *element.Element) *Harness {
	h.tb.Helper()
	h.el = el
	h.do(func() { h.root.Render(el) })
	return h
}

// Dispatch invokes the primary handler for id and flushes the resulting
// render.
func (h *Harness) Dispatch(id string, payload any) *Harness {
	h.tb.Helper()
	h.do(func() {
		h.registry.Dispatch(id, payload)
		h.root.Flush()
	})
	return h
}

// DispatchEvent invokes the handler for id and event and flushes.
func (h *Harness) DispatchEvent(id, event string, payload any) *Harness {
	h.tb.Helper()
	h.do(func() {
		h.registry.DispatchEvent(id, event, payload)
		h.root.Flush()
	})
	return h
}

func (h *Harness) do(fn func()) {
	h.tb.Helper()
	if err := errors.Recover(fn); err != nil {
		h.tb.Fatalf("render failed: %v", err)
	}
}

// ExpectOutput asserts that the serialized tree equals want.
func (h *Harness) ExpectOutput(want string) *Harness {
	h.tb.Helper()
	if diff := cmp.Diff(want, h.Output()); diff != "" {
		h.tb.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	return h
}

// ExpectContains asserts that the output contains expected.
func (h *Harness) ExpectContains(expected string) *Harness {
	h.tb.Helper()
	if out := h.Output(); !strings.Contains(out, expected) {
		h.tb.Errorf("expected output to contain %q, got:\n%s", expected, truncate(out, 500))
	}
	return h
}

// ExpectNotContains asserts that the output does not contain unexpected.
func (h *Harness) ExpectNotContains(unexpected string) *Harness {
	h.tb.Helper()
	if out := h.Output(); strings.Contains(out, unexpected) {
		h.tb.Errorf("expected output to NOT contain %q, got:\n%s", unexpected, truncate(out, 500))
	}
	return h
}

// ExpectElement asserts that the output contains a tag.
func (h *Harness) ExpectElement(tag string) *Harness {
	h.tb.Helper()
	out := h.Output()
	if !strings.Contains(out, "<"+tag+" ") && !strings.Contains(out, "<"+tag+">") {
		h.tb.Errorf("expected output to contain <%s> element, got:\n%s", tag, truncate(out, 500))
	}
	return h
}

// ExpectAttribute asserts that some element carries attr=value.
func (h *Harness) ExpectAttribute(attr, value string) *Harness {
	h.tb.Helper()
	out := h.Output()
	if !strings.Contains(out, " "+attr+"="+value+" ") &&
		!strings.Contains(out, " "+attr+"="+value+">") {
		h.tb.Errorf("expected attribute %s=%s not found, got:\n%s", attr, value, truncate(out, 500))
	}
	return h
}

// ExpectFatal asserts that fn panics with a loom error carrying code.
func ExpectFatal(tb testing.TB, code string, fn func()) {
	tb.Helper()
	err := errors.Recover(fn)
	if err == nil {
		tb.Fatalf("expected fatal %s, got none", code)
	}
	if got := errors.Code(err); got != code {
		tb.Fatalf("fatal code = %q, want %q (%v)", got, code, err)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
