// Package dispatch routes callbacks onto the UI goroutine. It exists below
// the runtime so element packages can schedule state mutations without
// depending on the runtime itself.
package dispatch

import "sync"

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// Register sets the dispatch function used to schedule callbacks on the UI
// goroutine. This is called once by the runtime during startup.
func Register(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch schedules a callback to run on the UI goroutine. Returns true
// if the callback was successfully scheduled, false if no dispatch
// function is registered or the callback is nil.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}
