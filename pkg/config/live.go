package config

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Live holds the active configuration and swaps it atomically on reload.
//
// Readers call Get on every use and never observe a partially applied
// configuration. A failed reload leaves the previous configuration in place.
type Live struct {
	path    string
	current atomic.Pointer[Config]

	mu        sync.Mutex
	listeners []func(old, new *Config)
}

// NewLive wraps cfg, which was loaded from path. Reload rereads path.
func NewLive(path string, cfg *Config) *Live {
	l := &Live{path: path}
	l.current.Store(cfg)
	return l
}

// Get returns the active configuration. It is safe for concurrent use.
func (l *Live) Get() *Config {
	return l.current.Load()
}

// Path returns the file the configuration is reloaded from.
func (l *Live) Path() string {
	return l.path
}

// OnReload registers fn to be called after every successful reload with the
// previous and the new configuration.
func (l *Live) OnReload(fn func(old, new *Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Reload rereads the configuration file with environment overrides applied
// and, if it validates, makes it the active configuration.
func (l *Live) Reload() error {
	cfg, err := LoadConfigWithEnvOverrides(l.path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	l.Swap(cfg)
	return nil
}

// Swap installs cfg as the active configuration and notifies listeners.
func (l *Live) Swap(cfg *Config) {
	l.mu.Lock()
	listeners := append([]func(old, new *Config){}, l.listeners...)
	old := l.current.Swap(cfg)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(old, cfg)
	}
}
