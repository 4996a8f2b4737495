package config

import (
	"os"
	"sync"
	"testing"
)

func TestLive_Reload(t *testing.T) {
	path := writeConfig(t, "stats:\n  custom_namespaces: [wasm]\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	live := NewLive(path, cfg)

	var gotOld, gotNew *Config
	live.OnReload(func(old, new *Config) {
		gotOld, gotNew = old, new
	})

	if err := os.WriteFile(path, []byte("stats:\n  custom_namespaces: [wasm, lua]\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	if err := live.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if n := len(live.Get().Stats.CustomNamespaces); n != 2 {
		t.Errorf("expected 2 namespaces after reload, got %d", n)
	}
	if gotOld != cfg {
		t.Error("expected listener to receive the previous configuration")
	}
	if gotNew != live.Get() {
		t.Error("expected listener to receive the active configuration")
	}
}

func TestLive_ReloadFailureKeepsCurrent(t *testing.T) {
	path := writeConfig(t, "")
	cfg := NewDefaultConfig()
	live := NewLive(path, cfg)

	called := false
	live.OnReload(func(_, _ *Config) { called = true })

	if err := os.WriteFile(path, []byte("stats:\n  default_bucket_mode: sideways\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	if err := live.Reload(); err == nil {
		t.Fatal("expected reload error, got nil")
	}
	if live.Get() != cfg {
		t.Error("expected failed reload to keep the previous configuration")
	}
	if called {
		t.Error("expected listeners not to run on failed reload")
	}
}

func TestLive_ConcurrentAccess(t *testing.T) {
	live := NewLive("", NewDefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if live.Get() == nil {
					t.Error("Get() returned nil")
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				live.Swap(NewDefaultConfig())
			}
		}()
	}
	wg.Wait()
}
