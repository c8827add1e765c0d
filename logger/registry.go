package logger

import (
	"sync"
)

// componentLoggers memoizes per-component loggers so every package that
// asks for the same component shares one instance.
var componentLoggers = struct {
	sync.Mutex
	byName map[string]*Logger
}{byName: make(map[string]*Logger)}

// Get returns the logger for a component, deriving and registering one
// from the global logger on first use.
func Get(name string) *Logger {
	componentLoggers.Lock()
	defer componentLoggers.Unlock()

	if l, ok := componentLoggers.byName[name]; ok {
		return l
	}
	l := GetGlobalLogger().WithComponent(name)
	componentLoggers.byName[name] = l
	return l
}

// Register replaces the logger for a component. Use after Init to point
// a component at a differently configured logger.
func Register(name string, l *Logger) {
	componentLoggers.Lock()
	defer componentLoggers.Unlock()
	componentLoggers.byName[name] = l
}

// resetRegistry drops all memoized component loggers. Init calls this so
// loggers derived from a stale global config are not served afterwards.
func resetRegistry() {
	componentLoggers.Lock()
	defer componentLoggers.Unlock()
	componentLoggers.byName = make(map[string]*Logger)
}
