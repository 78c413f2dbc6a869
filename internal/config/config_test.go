package config

import (
	"strings"
	"testing"
)

func TestSupportsWhitespaceSeparatedCommandLines(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = "/app/run-me.sh using these args"
`), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run := cfg.Processes[0].Run
	if run.Program != "/app/run-me.sh" {
		t.Errorf("program = %q", run.Program)
	}
	if got := strings.Join(run.Args, " "); got != "using these args" {
		t.Errorf("args = %q", got)
	}
}

func TestSupportsCommandVectors(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = ["/app/run-me.sh", "using", "these", "args"]
`), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run := cfg.Processes[0].Run
	if run.Program != "/app/run-me.sh" {
		t.Errorf("program = %q", run.Program)
	}
	if got := strings.Join(run.Args, " "); got != "using these args" {
		t.Errorf("args = %q", got)
	}
}

func TestSupportsDetailedCommandTable(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = { user = "app", env-vars = ["USER", "HOME"], command = ["/app/run-me.sh", "using", "these", "args"] }
`), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run := cfg.Processes[0].Run
	if run.User != "app" {
		t.Errorf("user = %q, want app", run.User)
	}
	if got := strings.Join(run.EnvVars, ","); got != "USER,HOME" {
		t.Errorf("env-vars = %q", got)
	}
	if run.Program != "/app/run-me.sh" {
		t.Errorf("program = %q", run.Program)
	}
}

func TestDetailedCommandTableRejectsUnknownKeys(t *testing.T) {
	_, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = { command = "/app/run-me.sh", bogus = "x" }
`), "test.toml")
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestDetailedCommandTableRequiresCommand(t *testing.T) {
	_, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = { user = "app" }
`), "test.toml")
	if err == nil {
		t.Fatal("expected error for missing command key")
	}
}

func TestStopDefaultsToSIGTERM(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = "sleep 100"
`), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stop := cfg.Processes[0].Stop
	if !stop.IsSignal() || stop.Signal != "SIGTERM" {
		t.Errorf("stop = %+v, want default SIGTERM", stop)
	}
}

func TestStopAcceptsSignalName(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = "sleep 100"
stop = "SIGINT"
`), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stop := cfg.Processes[0].Stop
	if !stop.IsSignal() || stop.Signal != "SIGINT" {
		t.Errorf("stop = %+v, want SIGINT", stop)
	}
}

func TestStopAcceptsCommand(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = "sleep 100"
stop = "/app/graceful-stop.sh"
`), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stop := cfg.Processes[0].Stop
	if stop.IsSignal() {
		t.Fatal("expected a command stop mechanism")
	}
	if stop.Command.Program != "/app/graceful-stop.sh" {
		t.Errorf("program = %q", stop.Command.Program)
	}
}

func TestOneShotHasNoRun(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
[[processes]]
name = "a"
pre = "echo a-pre"
post = "echo a-post"
`), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Processes[0].IsOneShot() {
		t.Fatal("expected process to be classified as one-shot")
	}
}

func TestValidateRejectsEmptyName(t *testing.T) {
	_, err := LoadBytes([]byte(`
[[processes]]
name = ""
run = "sleep 1"
`), "test.toml")
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	_, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = "sleep 1"

[[processes]]
name = "a"
run = "sleep 2"
`), "test.toml")
	if err == nil {
		t.Fatal("expected error for duplicate name")
	}
}

func TestUnrecognizedSignalNameIsTreatedAsCommand(t *testing.T) {
	// SIGKILL is not one of the three recognized stop signals, so it is
	// decoded as a (rather unusual) command to run instead, matching the
	// untagged-enum decode this was ported from.
	cfg, err := LoadBytes([]byte(`
[[processes]]
name = "a"
run = "sleep 1"
stop = "SIGKILL"
`), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stop := cfg.Processes[0].Stop
	if stop.IsSignal() {
		t.Fatal("expected SIGKILL to decode as a command, not a signal")
	}
	if stop.Command.Program != "SIGKILL" {
		t.Errorf("program = %q", stop.Command.Program)
	}
}

func TestEmptyProcessesIsValid(t *testing.T) {
	cfg, err := LoadBytes([]byte(``), "test.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Processes) != 0 {
		t.Errorf("expected no processes, got %d", len(cfg.Processes))
	}
}
