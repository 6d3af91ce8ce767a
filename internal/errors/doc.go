// Package errors provides structured, coded errors for loom.
//
// Every fatal misuse in the runtime (hooks called outside a
// render, reentrant renders, runaway render-phase loops, unknown element
// shapes, unregistered callbacks) is raised as a panic carrying an *Error.
// The runtime never recovers these itself; drivers at the process edge use
// Recover to turn them back into ordinary errors and Format to print them.
//
// # Error Categories
//
//   - runtime: reconciler and hook misuse
//   - element: malformed element descriptors
//   - callback: callback registry lookups
//   - config: configuration loading and validation
//
// # Usage
//
//	panic(errors.New("E102").WithDetail("root " + id + " is already rendering"))
//
//	err := errors.Recover(func() { root.Render(app) })
//	if err != nil {
//	    errors.PrintError(err)
//	}
package errors
