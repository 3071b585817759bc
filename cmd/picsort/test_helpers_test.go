package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"picsort/internal/config"
	"picsort/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv(config.TargetDirEnv, "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg, "")
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestConfig renders the path, naming and transfer settings of cfg plus
// any extra TOML appended verbatim.
func writeTestConfig(t *testing.T, path string, cfg *config.Config, extra string) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\nsource_dirs = [%q]\ntarget_dir = %q\nstate_dir = %q\n\n",
		cfg.Paths.SourceDirs[0], cfg.Paths.TargetDir, cfg.Paths.StateDir)
	fmt.Fprintf(&b, "[naming]\nkeep_original_name = %t\nprepend_timestamp = %t\n\n",
		cfg.Naming.KeepOriginalName, cfg.Naming.PrependTimestamp)
	fmt.Fprintf(&b, "[transfer]\ncopy = %t\n\n", cfg.Transfer.Copy)
	fmt.Fprintf(&b, "[history]\nenabled = %t\n\n", cfg.History.Enabled)
	fmt.Fprintf(&b, "[logging]\nlevel = %q\n\n", "debug")
	b.WriteString(extra)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
