// Package demo holds the components rendered by the loom CLI.
package demo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
)

// Counter shows a number with increment and decrement buttons. The value is
// clamped to [min, max] during render; props "min" and "max" are optional
// ints.
var Counter = element.NewComponent("Counter", func(ctx context.Context, props element.Props) *element.Element {
	count, setCount := fiber.UseState(ctx, intProp(props, "start", 0))

	lo, hi := intProp(props, "min", 0), intProp(props, "max", 100)
	if count < lo {
		setCount.Set(lo)
	} else if count > hi {
		setCount.Set(hi)
	}

	return element.H("div", element.Props{"class": "counter"},
		element.H("span", nil, strconv.Itoa(count)),
		element.H("button", element.Props{
			"id":      "inc",
			"onClick": func() { setCount.Update(func(n int) int { return n + 1 }) },
		}, "+"),
		element.H("button", element.Props{
			"id":      "dec",
			"onClick": func() { setCount.Update(func(n int) int { return n - 1 }) },
		}, "-"),
	)
})

// Todo is one list entry.
type Todo struct {
	ID    int
	Title string
}

// TodoItem renders one entry and keeps its own done flag.
var TodoItem = element.NewComponent("TodoItem", func(ctx context.Context, props element.Props) *element.Element {
	todo := props["todo"].(Todo)
	done, setDone := fiber.UseState(ctx, false)

	return element.H("li", element.Props{
		"id":      fmt.Sprintf("todo-%d", todo.ID),
		"done":    done,
		"onClick": func() { setDone.Update(func(d bool) bool { return !d }) },
	}, todo.Title)
})

// TodoList renders a keyed list of TodoItem components with buttons that
// add, rotate and reverse the entries. Props: "items" (int, initial count).
var TodoList = element.NewComponent("TodoList", func(ctx context.Context, props element.Props) *element.Element {
	todos, setTodos := fiber.UseState(ctx, Seed(intProp(props, "items", 3)))

	return element.H("section", nil,
		element.H("ul", nil, element.Range(todos, func(t Todo, _ int) *element.Element {
			return element.Keyed(t.ID, element.C(TodoItem, element.Props{"todo": t}))
		})),
		element.H("button", element.Props{
			"id": "add",
			"onClick": func(payload any) {
				setTodos.Update(func(prev []Todo) []Todo {
					title, _ := payload.(string)
					if title == "" {
						title = fmt.Sprintf("task %d", len(prev)+1)
					}
					return Add(prev, title)
				})
			},
		}, "add"),
		element.H("button", element.Props{
			"id":      "rotate",
			"onClick": func() { setTodos.Update(Rotate) },
		}, "rotate"),
		element.H("button", element.Props{
			"id":      "reverse",
			"onClick": func() { setTodos.Update(Reverse) },
		}, "reverse"),
	)
})

// Seed returns n numbered todos.
func Seed(n int) []Todo {
	todos := make([]Todo, n)
	for i := range todos {
		todos[i] = Todo{ID: i + 1, Title: fmt.Sprintf("task %d", i+1)}
	}
	return todos
}

// Add returns a copy of todos with a new entry appended.
func Add(todos []Todo, title string) []Todo {
	next := 1
	for _, t := range todos {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	out := make([]Todo, len(todos), len(todos)+1)
	copy(out, todos)
	return append(out, Todo{ID: next, Title: title})
}

// Rotate returns a copy of todos with the first entry moved to the end.
func Rotate(todos []Todo) []Todo {
	if len(todos) < 2 {
		return todos
	}
	out := make([]Todo, 0, len(todos))
	out = append(out, todos[1:]...)
	return append(out, todos[0])
}

// Reverse returns a reversed copy of todos.
func Reverse(todos []Todo) []Todo {
	out := make([]Todo, len(todos))
	for i, t := range todos {
		out[len(todos)-1-i] = t
	}
	return out
}

func intProp(props element.Props, name string, def int) int {
	if v, ok := props[name].(int); ok {
		return v
	}
	return def
}

// App returns the named demo element.
func App(name string, props element.Props) (*element.Element, bool) {
	switch name {
	case "counter":
		return element.C(Counter, props), true
	case "todo":
		return element.C(TodoList, props), true
	}
	return nil, false
}

// Names lists the demos App accepts.
func Names() []string {
	return []string{"counter", "todo"}
}
