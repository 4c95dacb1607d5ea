package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCacheDir(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)

	t.Run("FromSettings", func(t *testing.T) {
		c.Settings.Cache.Dir = "/var/cache/ts"
		if got := c.cacheDir(); got != "/var/cache/ts" {
			t.Errorf("cacheDir() = %q, want /var/cache/ts", got)
		}
	})

	t.Run("Default", func(t *testing.T) {
		c.Settings.Cache.Dir = ""
		dir := c.cacheDir()
		if !strings.HasSuffix(dir, "turtlyscope") && !strings.HasSuffix(dir, "turtlyscope-cache") {
			t.Errorf("cacheDir() = %q, should end with turtlyscope", dir)
		}
	})
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "entry.json"), []byte(`{"data":"eA=="}`), 0o644); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(t.TempDir(), "turtlyscope.toml")
	if err := os.WriteFile(config, []byte("[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := New(io.Discard, log.InfoLevel).RootCommand()
		root.SetOut(&out)
		root.SetErr(io.Discard)
		root.SetArgs(append([]string{"--config", config}, args...))
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got := strings.TrimSpace(run("cache", "path")); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}

	run("cache", "clear")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
