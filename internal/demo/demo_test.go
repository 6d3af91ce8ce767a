package demo

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
	"github.com/vango-dev/loom/pkg/loomtest"
)

func newRoot() (*loom.Root, *callback.Registry) {
	reg := callback.NewRegistry()
	return loom.CreateRoot(loom.WithRegistry(reg)), reg
}

func TestCounterClamp(t *testing.T) {
	root, reg := newRoot()
	el := element.C(Counter, element.Props{"start": 7, "max": 5})
	out := root.Render(el)

	want := "<div class=counter>\n  <span>\n    5\n  </span>\n  <button id=inc>\n    +\n  </button>\n  <button id=dec>\n    -\n  </button>\n</div>"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("Render mismatch (-want +got):\n%s", diff)
	}

	reg.Dispatch("inc", nil)
	root.Flush()
	if got := root.Fiber().StateValues()[0]; got != 5 {
		t.Errorf("count = %v, want 5 after clamped increment", got)
	}
	reg.Dispatch("dec", nil)
	root.Flush()
	if got := root.Fiber().StateValues()[0]; got != 4 {
		t.Errorf("count = %v, want 4", got)
	}
}

func itemIDs(root *loom.Root) (keys []any, ids []uint64) {
	// section > ul > TodoItem...
	ul := root.Fiber().Child().Child()
	for c := ul.Child(); c != nil; c = c.Sibling() {
		keys = append(keys, c.Key())
		ids = append(ids, c.ID())
	}
	return keys, ids
}

func TestTodoListKeyedMoves(t *testing.T) {
	root, reg := newRoot()
	root.Render(element.C(TodoList, element.Props{"items": 3}))
	_, before := itemIDs(root)

	// Mark task 1 done; its state must follow it through moves.
	reg.Dispatch("todo-1", nil)
	root.Flush()

	reg.Dispatch("rotate", nil)
	root.Flush()
	keys, after := itemIDs(root)
	if diff := cmp.Diff([]any{int64(2), int64(3), int64(1)}, keys); diff != "" {
		t.Errorf("keys after rotate (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint64{before[1], before[2], before[0]}, after); diff != "" {
		t.Errorf("fibers were remounted (-want +got):\n%s", diff)
	}

	reg.Dispatch("reverse", nil)
	root.Flush()
	keys, _ = itemIDs(root)
	if diff := cmp.Diff([]any{int64(1), int64(3), int64(2)}, keys); diff != "" {
		t.Errorf("keys after reverse (-want +got):\n%s", diff)
	}

	first := root.Fiber().Child().Child().Child()
	if first.Kind() != fiber.KindComponent || first.StateValues()[0] != true {
		t.Errorf("task 1 should keep done=true, got %v", first.StateValues())
	}

	reg.Dispatch("add", "write tests")
	root.Flush()
	keys, _ = itemIDs(root)
	if len(keys) != 4 || keys[3] != int64(4) {
		t.Errorf("keys after add = %v", keys)
	}
}

func TestListHelpers(t *testing.T) {
	todos := Seed(3)
	if diff := cmp.Diff([]Todo{{2, "task 2"}, {3, "task 3"}, {1, "task 1"}}, Rotate(todos)); diff != "" {
		t.Errorf("Rotate (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Todo{{3, "task 3"}, {2, "task 2"}, {1, "task 1"}}, Reverse(todos)); diff != "" {
		t.Errorf("Reverse (-want +got):\n%s", diff)
	}
	added := Add(todos, "x")
	if len(todos) != 3 || added[3] != (Todo{4, "x"}) {
		t.Errorf("Add = %v", added)
	}
	if _, ok := App("nope", nil); ok {
		t.Error("App should reject unknown names")
	}
}

func TestTodoToggleHarness(t *testing.T) {
	el, ok := App("todo", element.Props{"items": 2})
	if !ok {
		t.Fatal("todo demo missing")
	}
	h := loomtest.Render(t, el)
	h.ExpectElement("section").
		ExpectAttribute("id", "todo-2").
		ExpectContains("<li done=false id=todo-1>")

	h.Dispatch("todo-1", nil).ExpectContains("<li done=true id=todo-1>")
	h.Dispatch("reverse", nil).ExpectContains("<li done=false id=todo-2>\n      task 2\n    </li>\n    <li done=true id=todo-1>")
}
