package fiber

import (
	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/element"
)

// mount creates a new fiber subtree for node. Host and fragment children are
// mounted immediately; component children wait for the render walk.
func (r *Root) mount(node any, parent *Fiber) *Fiber {
	var f *Fiber
	switch n := node.(type) {
	case string:
		f = newFiber(KindText, parent)
		f.text = n
	case *element.Element:
		if n == nil {
			errors.Fatal("E110", "cannot mount a nil element")
		}
		switch t := n.Type.(type) {
		case *element.Component:
			if t == nil {
				errors.Fatal("E110", "cannot mount a nil component")
			}
			f = newFiber(KindComponent, parent)
			f.typ = t
			f.props = n.Props
		case element.Tag:
			f = newFiber(KindHost, parent)
			f.typ = t
			f.props = n.Props.WithoutChildren()
			r.mountChildren(f, n.Props.Children())
		default:
			if n.Type == nil || n.Type != element.Fragment {
				errors.Fatal("E110", "unknown element type %T", n.Type)
			}
			f = newFiber(KindFragment, parent)
			f.typ = element.Fragment
			r.mountChildren(f, n.Props.Children())
		}
		f.key = n.Key
	default:
		errors.Fatal("E110", "cannot mount %T", node)
	}

	r.pass.Mounted++
	r.observer.FiberMounted(f.kind)
	return f
}

// mountChildren mounts a fresh child chain under parent.
func (r *Root) mountChildren(parent *Fiber, children any) {
	switch c := children.(type) {
	case nil:
		return
	case string:
		parent.child = r.mount(c, parent)
		return
	case *element.Element:
		if c != nil {
			parent.child = r.mount(c, parent)
		}
		return
	}

	items, ok := element.List(children)
	if !ok {
		errors.Fatal("E112", "unsupported children of type %T", children)
	}
	var prev *Fiber
	for _, item := range items {
		element.CheckChild(item)
		f := r.mount(item, parent)
		if prev == nil {
			parent.child = f
		} else {
			prev.sibling = f
		}
		prev = f
	}
}

// reconcileFiber returns prev updated to match el when their types are
// equal, or a freshly mounted fiber otherwise.
func (r *Root) reconcileFiber(parent, prev *Fiber, el *element.Element) *Fiber {
	if el == nil {
		errors.Fatal("E110", "cannot reconcile a nil element")
	}
	if prev == nil || !prev.sameType(el) {
		if prev != nil {
			r.logger.Debug("remount", "root", r.id, "from", prev.String(), "to", el.String())
		}
		return r.mount(el, parent)
	}

	prev.parent = parent
	prev.key = el.Key
	switch prev.kind {
	case KindHost:
		prev.props = el.Props.WithoutChildren()
		r.reconcileChildren(prev, el.Props.Children())
	case KindComponent:
		prev.props = el.Props
	case KindFragment:
		r.reconcileChildren(prev, el.Props.Children())
	}
	return prev
}

// reconcileChildren brings parent's child chain in line with children.
func (r *Root) reconcileChildren(parent *Fiber, children any) {
	switch c := children.(type) {
	case nil:
		clearChildren(parent)
		return
	case string:
		r.reconcileText(parent, c)
		return
	case *element.Element:
		if c == nil {
			clearChildren(parent)
			return
		}
		r.reconcileSingle(parent, c)
		return
	}

	items, ok := element.List(children)
	if !ok {
		errors.Fatal("E112", "unsupported children of type %T", children)
	}
	switch len(items) {
	case 0:
		clearChildren(parent)
	case 1:
		switch item := items[0].(type) {
		case string:
			r.reconcileText(parent, item)
		case *element.Element:
			r.reconcileSingle(parent, item)
		default:
			element.CheckChild(item)
		}
	default:
		r.reconcileMultipleChildren(parent, items)
	}
}

func (r *Root) reconcileSingle(parent *Fiber, el *element.Element) {
	child := r.reconcileFiber(parent, parent.child, el)
	child.sibling = nil
	parent.child = child
}

func (r *Root) reconcileText(parent *Fiber, text string) {
	if old := parent.child; old != nil && old.kind == KindText {
		old.text = text
		old.sibling = nil
		return
	}
	parent.child = r.mount(text, parent)
}

func clearChildren(parent *Fiber) {
	if parent.child != nil {
		parent.child.parent = nil
		parent.child = nil
	}
}

// reconcileMultipleChildren matches items against the existing chain by key
// first, then by position, and relinks the result as parent's new chain.
func (r *Root) reconcileMultipleChildren(parent *Fiber, items []any) {
	var old []*Fiber
	keyed := make(map[any]*Fiber)
	for f := parent.child; f != nil; f = f.sibling {
		old = append(old, f)
		if f.key != nil {
			keyed[f.key] = f
		}
	}

	placed := make(map[*Fiber]struct{}, len(items))
	var head, tail *Fiber
	for i, item := range items {
		// The cursor advances one step per item whether or not it matched.
		var match *Fiber
		if i < len(old) {
			match = old[i]
		}

		var next *Fiber
		switch n := item.(type) {
		case *element.Element:
			if n == nil {
				errors.Fatal("E112", "nil child at index %d", i)
			}
			if n.Key != nil {
				if hit, ok := keyed[n.Key]; ok {
					match = hit
				}
			}
			if _, dup := placed[match]; dup {
				match = nil
			}
			next = r.reconcileFiber(parent, match, n)
		case string:
			if _, dup := placed[match]; dup {
				match = nil
			}
			if match != nil && match.kind == KindText {
				match.text = n
				match.parent = parent
				match.key = nil
				next = match
			} else {
				next = r.mount(n, parent)
			}
		default:
			element.CheckChild(item)
		}

		placed[next] = struct{}{}
		if head == nil {
			head = next
		} else {
			tail.sibling = next
		}
		tail = next
	}

	if tail != nil {
		tail.sibling = nil
	}
	parent.child = head
}
