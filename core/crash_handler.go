package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// crashCleanup restores the host (terminal screen) before the stack trace is printed
var crashCleanup atomic.Pointer[func()]

// SetCrashCleanup installs the function run before a crash report, replacing any previous one
func SetCrashCleanup(fn func()) {
	if fn == nil {
		crashCleanup.Store(nil)
		return
	}
	crashCleanup.Store(&fn)
}

// HandleCrash restores the host, prints the panic value and stack trace, and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if fn := crashCleanup.Load(); fn != nil {
		(*fn)()
	}

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mDUCKY CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so the terminal is restored on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
