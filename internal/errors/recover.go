package errors

// Recover runs fn and converts a panic into an error.
//
// Panics carrying an *Error are returned as-is. Other panic values are
// wrapped so the caller still sees an error rather than a crash; the Root
// that panicked must not be used again either way.
func Recover(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case *Error:
			err = v
		case error:
			err = Newf(CategoryRuntime, "panic: %v", v).Wrap(v)
		default:
			err = Newf(CategoryRuntime, "panic: %v", v)
		}
	}()
	fn()
	return nil
}
