package logger

import "sync"

// Component names used by datakit packages.
const (
	ComponentData      = "data"
	ComponentAlgorithm = "algorithm"
)

var (
	namedMu sync.RWMutex
	named   = make(map[string]*Logger)
)

// Register makes l the logger returned by Get(name).
func Register(name string, l *Logger) {
	namedMu.Lock()
	named[name] = l
	namedMu.Unlock()
}

// Get returns the logger registered under name, or the global logger tagged
// with name as its component. The fallback is resolved on every call so it
// follows a later Init.
func Get(name string) *Logger {
	namedMu.RLock()
	l, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
