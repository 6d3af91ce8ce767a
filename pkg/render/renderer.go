package render

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/loom/pkg/fiber"
)

// Config configures the serializer.
type Config struct {
	// Indent is the string written once per depth level.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer serializes fiber trees.
type Renderer struct {
	config Config
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

var defaultRenderer = NewRenderer(Config{})

// String serializes f with the default configuration.
func String(f *fiber.Fiber) string {
	return defaultRenderer.RenderToString(f)
}

// RenderToString serializes the subtree rooted at f.
func (r *Renderer) RenderToString(f *fiber.Fiber) string {
	var lines []string
	r.renderNode(f, 0, func(line string) { lines = append(lines, line) })
	return strings.Join(lines, "\n")
}

// RenderToWriter streams the subtree rooted at f to w.
func (r *Renderer) RenderToWriter(w io.Writer, f *fiber.Fiber) error {
	bw := bufio.NewWriter(w)
	first := true
	var err error
	r.renderNode(f, 0, func(line string) {
		if err != nil {
			return
		}
		if !first {
			err = bw.WriteByte('\n')
		}
		first = false
		if err == nil {
			_, err = bw.WriteString(line)
		}
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// renderNode dispatches rendering based on fiber kind.
func (r *Renderer) renderNode(f *fiber.Fiber, depth int, emit func(string)) {
	if f == nil {
		return
	}

	switch f.Kind() {
	case fiber.KindHost:
		r.renderHost(f, depth, emit)
	case fiber.KindText:
		if text := f.Text(); text != "" {
			emit(r.indent(depth) + text)
		}
	default:
		// Components and fragments are transparent.
		for c := f.Child(); c != nil; c = c.Sibling() {
			r.renderNode(c, depth, emit)
		}
	}
}

// renderHost renders a host fiber with its attributes and children.
func (r *Renderer) renderHost(f *fiber.Fiber, depth int, emit func(string)) {
	pad := r.indent(depth)
	open := "<" + f.Tag() + formatAttributes(f.Props())
	if f.Child() == nil {
		emit(pad + open + " />")
		return
	}

	emit(pad + open + ">")
	for c := f.Child(); c != nil; c = c.Sibling() {
		r.renderNode(c, depth+1, emit)
	}
	emit(pad + "</" + f.Tag() + ">")
}

func (r *Renderer) indent(depth int) string {
	return strings.Repeat(r.config.Indent, depth)
}

// formatAttributes renders primitive props as " k=v" pairs sorted by name.
func formatAttributes(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		v, ok := attrValue(props[k])
		if !ok {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(v)
	}
	return sb.String()
}

// attrValue converts a prop value to its attribute text. Non-primitive
// values (handlers, slices, maps, nil) report false.
func attrValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int8:
		return strconv.FormatInt(int64(val), 10), true
	case int16:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}
