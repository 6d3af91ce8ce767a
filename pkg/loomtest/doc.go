// Package loomtest provides testing helpers for loom components.
//
// A Harness renders an element on a Root with a private callback registry,
// dispatches callbacks, flushes batched updates and asserts on the
// serialized output. Fatal runtime errors are reported through testing.TB
// instead of crashing the test binary.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := loomtest.Render(t, loom.C(Counter, nil))
//	    h.ExpectContains("0")
//	    h.Dispatch("inc", nil).ExpectContains("1")
//	}
//
// # Render Assertions
//
//	h.ExpectElement("button")
//	h.ExpectAttribute("id", "inc")
//	h.ExpectOutput("<div>\n  ...\n</div>")
//
// # Fatal Errors
//
//	loomtest.ExpectFatal(t, "E104", func() { h.Dispatch("toggle", nil) })
package loomtest
