package errors

import (
	"runtime"
)

const stackDepth = 32

// StackTrace is a list of program counters, the first one is the place where the error was created.
type StackTrace []uintptr

// Frame returns file and line of the place where the error was created.
func (t StackTrace) Frame() (file string, line int, ok bool) {
	if len(t) == 0 {
		return "", 0, false
	}
	frame, _ := runtime.CallersFrames(t[:1]).Next()
	return frame.File, frame.Line, frame.File != ""
}

func callers() StackTrace {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(3, pcs)
	return pcs[0:n]
}
