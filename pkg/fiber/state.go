package fiber

import (
	"math"
	"reflect"
)

// stateSlot is one persistent value cell, chained in UseState call order.
type stateSlot struct {
	value any
	next  *stateSlot
}

// update is a queued mutation of one state slot.
type update struct {
	fiber *Fiber
	slot  *stateSlot
	apply func(prev any) any
}

// run resolves the update, stores the result and reports whether the
// value changed.
func (u *update) run() bool {
	prev := u.slot.value
	next := u.apply(prev)
	u.slot.value = next
	return !sameValue(prev, next)
}

// sameValue compares with identity semantics: NaN equals NaN, +0 and -0
// differ, reference kinds compare by address, functions never compare
// equal, and other comparable values use ==.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}

	switch x := a.(type) {
	case float64:
		return sameFloat(x, b.(float64))
	case float32:
		return sameFloat(float64(x), float64(b.(float32)))
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Func:
		return false
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}

	if !ta.Comparable() {
		return false
	}
	return safeEqual(a, b)
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	if x == 0 && y == 0 {
		return math.Signbit(x) == math.Signbit(y)
	}
	return x == y
}

// safeEqual is a == b, treating a comparison panic (an interface field
// holding an uncomparable value) as "different".
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
