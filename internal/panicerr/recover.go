// Package panicerr eases transitional use of panic-based error handling
// within code that presents a conventional error-returning interface.
package panicerr

import "fmt"

// Recover returns a non-nil error if the prior error is non-nil, or if a
// panic is recovered. Must be called under defer, with a pointer to the
// enclosing function's error return:
//
//	func outer() (rerr error) {
//		defer panicerr.Recover(&rerr)
//		// ... code that may panic(error) ...
//	}
func Recover(errp *error) {
	if err := AsError(recover()); *errp == nil {
		*errp = err
	}
}

// AsError coerces a recovered panic value to an error, wrapping non-error
// values in a paniced container.
func AsError(e interface{}) error {
	if e == nil {
		return nil
	}
	if err, ok := e.(error); ok {
		return err
	}
	return paniced{e}
}

type paniced struct{ val interface{} }

func (p paniced) Error() string { return fmt.Sprintf("paniced: %v", p.val) }
