package main

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	})

	Version = "0.1.0-test"
	GitCommit = "abc123"
	BuildDate = "2026-10-16"

	info := currentVersion()
	if info.Version != "0.1.0-test" {
		t.Errorf("Version = %q, want %q", info.Version, "0.1.0-test")
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q, want %q", info.GitCommit, "abc123")
	}
	if info.BuildDate != "2026-10-16" {
		t.Errorf("BuildDate = %q, want %q", info.BuildDate, "2026-10-16")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestVersionCommandExists(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
	if versionCmd.RunE == nil {
		t.Error("versionCmd.RunE should not be nil")
	}
}

func TestVersionCommand_Output(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "Statsrender "+Version+"\n") {
		t.Errorf("text output = %q", out)
	}

	out, err = execute(t, "version", "--output", "json")
	if err != nil {
		t.Fatalf("version --output json error = %v", err)
	}
	var info versionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("json output %q: %v", out, err)
	}
	if info != currentVersion() {
		t.Errorf("json output = %+v, want %+v", info, currentVersion())
	}

	if _, err := execute(t, "version", "--output", "xml"); err == nil {
		t.Error("version --output xml error = nil, want error")
	}
}
