package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepviz.yaml")
	yml := "baseInterval: 250ms\nspeed: 2\nlogLevel: debug\nscriptsDir: ./scripts\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := load(path, env.Options{Prefix: EnvPrefix, Environment: map[string]string{
		"STEPVIZ_SPEED":             "4",
		"STEPVIZ_MAX_EVENTS":        "500",
		"STEPVIZ_TRACING":           "true",
		"STEPVIZ_MAX_SCRIPT_EVENTS": "100",
		"OTHER_SPEED":               "8",
	}})
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.BaseInterval = 250 * time.Millisecond
	want.Speed = 4
	want.LogLevel = "debug"
	want.ScriptsDir = "./scripts"
	want.MaxEvents = 500
	want.MaxScriptEvents = 100
	want.Tracing = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	_, err = load(path, env.Options{Prefix: EnvPrefix, Environment: map[string]string{"STEPVIZ_MAX_EVENTS": "500"}})
	if err == nil || !strings.Contains(err.Error(), "maxScriptEvents") {
		t.Fatalf("script cap above the event cap accepted: %v", err)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	cfg, err := load("", env.Options{Prefix: EnvPrefix, Environment: map[string]string{
		"STEPVIZ_BASE_INTERVAL": "1s",
		"STEPVIZ_LOG_FILE":      "/tmp/stepviz.log",
	}})
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.BaseInterval = time.Second
	want.LogFile = "/tmp/stepviz.log"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("speed: [1"), 0o600); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("speed: 20\nlogLevel: loud\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		path string
		env  map[string]string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), nil, "failed to read"},
		{"bad yaml", bad, nil, "failed to parse"},
		{"bad env", "", map[string]string{"STEPVIZ_SPEED": "fast"}, "parse env"},
		{"invalid speed", invalid, nil, "speed must be between 0.25 and 8"},
		{"invalid level", invalid, nil, "logLevel"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(tc.path, env.Options{Prefix: EnvPrefix, Environment: tc.env})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err=%v want %q", err, tc.want)
			}
		})
	}
}
