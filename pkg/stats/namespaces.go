package stats

import (
	"strings"
	"sync/atomic"
)

// CustomNamespaces is the registry of name prefixes that Prometheus output
// exports without the default namespace prefix.
//
// Reads are lock free; Register and Replace swap in a new immutable set, so a
// reload never disturbs a render in progress.
type CustomNamespaces struct {
	set atomic.Pointer[map[string]struct{}]
}

// NewCustomNamespaces creates a registry holding the given namespaces.
func NewCustomNamespaces(namespaces ...string) *CustomNamespaces {
	c := &CustomNamespaces{}
	c.Replace(namespaces)
	return c
}

// Register adds a namespace.
func (c *CustomNamespaces) Register(namespace string) {
	for {
		old := c.set.Load()
		next := make(map[string]struct{}, c.Len()+1)
		if old != nil {
			for ns := range *old {
				next[ns] = struct{}{}
			}
		}
		next[namespace] = struct{}{}
		if c.set.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Replace swaps the whole namespace set.
func (c *CustomNamespaces) Replace(namespaces []string) {
	next := make(map[string]struct{}, len(namespaces))
	for _, ns := range namespaces {
		next[ns] = struct{}{}
	}
	c.set.Store(&next)
}

// Registered reports whether namespace is registered.
func (c *CustomNamespaces) Registered(namespace string) bool {
	if c == nil {
		return false
	}
	set := c.set.Load()
	if set == nil {
		return false
	}
	_, ok := (*set)[namespace]
	return ok
}

// Len returns the number of registered namespaces.
func (c *CustomNamespaces) Len() int {
	if c == nil {
		return 0
	}
	set := c.set.Load()
	if set == nil {
		return 0
	}
	return len(*set)
}

// StripRegisteredPrefix returns name without its first dot-segment when that
// segment is a registered namespace. ok is false otherwise.
func (c *CustomNamespaces) StripRegisteredPrefix(name string) (stripped string, ok bool) {
	if c.Len() == 0 {
		return "", false
	}
	ns, rest, found := strings.Cut(name, ".")
	if !found || !c.Registered(ns) {
		return "", false
	}
	return rest, true
}
