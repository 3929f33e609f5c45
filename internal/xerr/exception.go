// Package xerr implements the panic/recover exception taxonomy used
// throughout cvs2git's rewrite passes: fatal invariant violations and
// user-policy failures abort the file being processed, everything else
// is handled in place by the caller.
//
// Go's panic/defer/recover is a weak primitive for catchable exceptions,
// but it is what the language gives us. Throw must pass its payload to
// panic(); Catch may only be called from a defer hook, with recover()
// as its argument, and it re-panics anything it wasn't asked to accept.
package xerr

import "fmt"

// Class names recognized by cvs2git's own passes. Collaborators may
// define additional classes; Throw does not validate the string.
const (
	ClassFatal  = "fatal"  // dangling id, bad root, exhausted search
	ClassPolicy = "policy" // a user-policy violation, e.g. tag<-branch-with-commits
)

// Exception is the payload carried by a thrown panic.
type Exception struct {
	Class   string
	Message string
}

func (e *Exception) Error() string {
	return e.Message
}

// Throw builds an Exception and panics with it. The caller should not
// expect Throw to return.
func Throw(class string, msg string, args ...interface{}) {
	panic(&Exception{Class: class, Message: fmt.Sprintf(msg, args...)})
}

// Catch is called from a deferred recover(). If x is nil there was no
// panic. If x is an *Exception of the requested class it is returned
// for the caller to inspect; any other value is re-panicked, since it
// was not meant for this handler.
func Catch(accept string, x interface{}) *Exception {
	if x == nil {
		return nil
	}
	if e, ok := x.(*Exception); ok {
		if e.Class == accept {
			return e
		}
	}
	panic(x)
}
