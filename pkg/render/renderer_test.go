package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/loom/pkg/callback"
	"github.com/vango-dev/loom/pkg/element"
	"github.com/vango-dev/loom/pkg/fiber"
)

func mount(t *testing.T, el *element.Element) *fiber.Fiber {
	t.Helper()
	root := fiber.NewRoot(fiber.WithRegistry(callback.NewRegistry()))
	root.Work(el)
	return root.Fiber()
}

func lines(s ...string) string {
	return strings.Join(s, "\n")
}

func TestRender(t *testing.T) {
	label := element.NewComponent("Label", func(ctx context.Context, props element.Props) *element.Element {
		return element.H("span", nil, props["text"].(string))
	})

	tests := []struct {
		name string
		el   *element.Element
		want string
	}{
		{
			name: "self-closed",
			el:   element.H("br", nil),
			want: "<br />",
		},
		{
			name: "sorted attributes",
			el:   element.H("input", element.Props{"type": "text", "disabled": true, "size": 3, "min": 1.5}),
			want: "<input disabled=true min=1.5 size=3 type=text />",
		},
		{
			name: "non-primitive props skipped",
			el:   element.H("button", element.Props{"id": "b", "onClick": func() {}, "data": []int{1}, "nil": nil}),
			want: "<button id=b />",
		},
		{
			name: "nested",
			el:   element.H("div", element.Props{"class": "box"}, element.H("p", nil, "hello"), element.H("hr", nil)),
			want: lines(
				"<div class=box>",
				"  <p>",
				"    hello",
				"  </p>",
				"  <hr />",
				"</div>",
			),
		},
		{
			name: "empty text suppressed",
			el:   element.H("p", nil, ""),
			want: lines("<p>", "</p>"),
		},
		{
			name: "transparent component and fragment",
			el: element.H("ul", nil,
				element.C(label, element.Props{"text": "a"}),
				element.Frag(element.H("li", nil, "b"), "c"),
			),
			want: lines(
				"<ul>",
				"  <span>",
				"    a",
				"  </span>",
				"  <li>",
				"    b",
				"  </li>",
				"  c",
				"</ul>",
			),
		},
		{
			name: "component root",
			el:   element.C(label, element.Props{"text": "x"}),
			want: lines("<span>", "  x", "</span>"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := String(mount(t, tt.el))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("String() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderNil(t *testing.T) {
	if got := String(nil); got != "" {
		t.Errorf("String(nil) = %q, want empty", got)
	}
}

func TestRenderIndent(t *testing.T) {
	f := mount(t, element.H("a", nil, element.H("b", nil, "c")))
	r := NewRenderer(Config{Indent: "\t"})
	want := lines("<a>", "\t<b>", "\t\tc", "\t</b>", "</a>")
	if diff := cmp.Diff(want, r.RenderToString(f)); diff != "" {
		t.Errorf("RenderToString() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderToWriter(t *testing.T) {
	f := mount(t, element.H("div", nil, element.H("p", nil, "x"), "y"))
	var buf bytes.Buffer
	if err := NewRenderer(Config{}).RenderToWriter(&buf, f); err != nil {
		t.Fatalf("RenderToWriter: %v", err)
	}
	if got, want := buf.String(), String(f); got != want {
		t.Errorf("RenderToWriter = %q, want %q", got, want)
	}
}

func TestAttrValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{"s", "s", true},
		{false, "false", true},
		{int64(-3), "-3", true},
		{uint8(7), "7", true},
		{2.0, "2", true},
		{float32(0.5), "0.5", true},
		{nil, "", false},
		{map[string]int{}, "", false},
	}
	for _, tt := range tests {
		got, ok := attrValue(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("attrValue(%v) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
