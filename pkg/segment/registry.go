package segment

import (
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Detector{
		"native": func() Detector { return NativeDetector{} },
	}
)

// Register makes a detector available under name. Detectors that need cgo
// register themselves from an init function in a build-tagged package.
func Register(name string, factory func() Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Lookup returns a new detector registered under name
func Lookup(name string) (Detector, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Registered lists the names of the available detectors
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
