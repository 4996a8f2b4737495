package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"mercator-hq/statsrender/pkg/cli"
)

// execute runs the root command with args and returns its stdout. Flag
// variables are reset first because cobra keeps them between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	renderFlags.format = "text"
	renderFlags.buckets, renderFlags.filter, renderFlags.statType = "", "", ""
	renderFlags.usedOnly, renderFlags.textReadouts = false, false
	serveFlags.listenAddress, serveFlags.logLevel, serveFlags.dryRun = "", "", false
	validateFlags.print = false
	versionFlags.output = "text"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

// writeConfig writes a configuration file with the runtime bridge disabled
// so rendered output is deterministic.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "stats:\n  runtime:\n    disabled: true\n" + extra
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	path := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "text",
			args: nil,
			want: "server.version: \"" + Version + "\"\n",
		},
		{
			name: "json",
			args: []string{"--format", "json"},
			want: `{"stats":[{"name":"server.version","value":"` + Version + `"}]}`,
		},
		{
			name: "prometheus text readouts",
			args: []string{"--format", "prometheus", "--text-readouts"},
			want: "# TYPE envoy_server_version gauge\nenvoy_server_version{text_value=\"" + Version + "\"} 0\n",
		},
		{
			name: "type filter",
			args: []string{"--type", "Counters"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--config", path}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("render error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRenderCommand_RuntimeBridge(t *testing.T) {
	path := writeConfig(t, "")
	if err := os.WriteFile(path, []byte("stats:\n  runtime:\n    prefix: proc\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "render", "--config", path, "--type", "Gauges", "--filter", `^proc\.go_goroutines$`)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.HasPrefix(out, "proc.go_goroutines: ") {
		t.Errorf("output = %q, want the goroutine gauge", out)
	}
}

func TestRenderCommand_InvalidParams(t *testing.T) {
	path := writeConfig(t, "")

	for _, args := range [][]string{
		{"--format", "xml"},
		{"--histogram-buckets", "detailed"},
		{"--filter", "("},
		{"--type", "Timers"},
	} {
		_, err := execute(t, append([]string{"render", "--config", path}, args...)...)
		if err == nil {
			t.Errorf("render %v error = nil, want error", args)
			continue
		}
		if code := cli.ExitCode(err); code != cli.ExitFailure {
			t.Errorf("render %v exit code = %d, want %d", args, code, cli.ExitFailure)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	path := writeConfig(t, "")

	out, err := execute(t, "validate", "--config", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if out != path+" is valid\n" {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, "validate", "--config", path, "--print")
	if err != nil {
		t.Fatalf("validate --print error = %v", err)
	}
	if !strings.Contains(out, "listen_address:") || !strings.Contains(out, "127.0.0.1:9901") {
		t.Errorf("--print output missing effective listen address:\n%s", out)
	}
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeConfig(t, "  default_bucket_mode: sideways\n")

	_, err := execute(t, "validate", "--config", path)
	if err == nil {
		t.Fatal("validate error = nil, want config error")
	}
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("exit code = %d, want %d", code, cli.ExitConfig)
	}
}

func TestServeCommand_DryRun(t *testing.T) {
	path := writeConfig(t, "")

	out, err := execute(t, "serve", "--config", path, "--dry-run", "--log-level", "error")
	if err != nil {
		t.Fatalf("serve --dry-run error = %v", err)
	}
	if out != "configuration valid\n" {
		t.Errorf("output = %q, want %q", out, "configuration valid\n")
	}

	_, err = execute(t, "serve", "--config", path, "--dry-run", "--listen", "no-port")
	if code := cli.ExitCode(err); code != cli.ExitConfig {
		t.Errorf("bad --listen exit code = %d, want %d (err %v)", code, cli.ExitConfig, err)
	}
}

func TestLoadConfig_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	origCfgFile := cfgFile
	t.Cleanup(func() { cfgFile = origCfgFile })

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&cfgFile, "config", "config.yaml", "")

	cfg, fromFile, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if fromFile {
		t.Error("fromFile = true, want defaults")
	}
	if cfg.Admin.ListenAddress != "127.0.0.1:9901" {
		t.Errorf("ListenAddress = %q, want default", cfg.Admin.ListenAddress)
	}

	if err := cmd.Flags().Set("config", "missing.yaml"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadConfig(cmd); cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("explicit missing file error = %v, want config error", err)
	}
}
