package vrtest

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

//Transient driver results. Backends report them as sentinels and the core turns
//them into skipped frames, they never reach the process boundary.
var (
	ErrNotReady = errors.New("not ready")
	ErrTimeout  = errors.New("timeout")
)

// FatalError is an environment or hardware mismatch the application cannot
// work around: no suitable adapter, a failed primitive creation, a failed
// submission. It terminates the process once it reaches the entry point.
type FatalError struct {
	Op    string
	Err   error
	frame string
}

func (e *FatalError) Error() string {
	if e.frame == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.frame)
}

func (e *FatalError) Unwrap() error { return e.Err }

func (e *FatalError) Cause() error { return e.Err }

// IsFatal reports whether err or any error it wraps is a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

//fatal classifies err as fatal for op. Errors that are already fatal only gain context.
func fatal(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsFatal(err) {
		return errors.Wrap(err, op)
	}
	return &FatalError{Op: op, Err: err, frame: callerFrame(2)}
}

func fatalf(op string, format string, args ...interface{}) error {
	return &FatalError{Op: op, Err: errors.Errorf(format, args...), frame: callerFrame(2)}
}

func callerFrame(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return fmt.Sprintf("%s:%d", fn.Name(), line)
}

// Fatal runs finalizers when err is set and hands err back to the caller.
func Fatal(err error, finalizers ...func()) error {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}
	}
	return err
}
