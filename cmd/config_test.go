package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestConfigSetAndShow(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("config", "set", "goals.weekly_days", "3")
	if !strings.Contains(out, "Configuration saved.") {
		t.Errorf("config set output = %q", out)
	}
	c.mustRun("config", "set", "default_protocol", "18:6")

	out = c.mustRun("--json", "config", "show")
	var cfg map[string]interface{}
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if cfg["goals.weekly_days"] != float64(3) {
		t.Errorf("goals.weekly_days = %v, want 3", cfg["goals.weekly_days"])
	}
	if cfg["default_protocol"] != "18:6" {
		t.Errorf("default_protocol = %v, want 18:6", cfg["default_protocol"])
	}

	out = c.mustRun("protocols")
	if !strings.Contains(out, "* 18:6") {
		t.Errorf("new default should be marked, got %q", out)
	}
}

func TestConfigSet_Invalid(t *testing.T) {
	c := newCLI(t)

	if _, err := c.run("", "config", "set", "goals.weekly_days", "9"); err == nil {
		t.Error("weekly goal above 7 should fail")
	}
	if _, err := c.run("", "config", "set", "colour", "red"); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestConfigMenu(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("g\n4\n\n", "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Goals: 4 days a week") {
		t.Errorf("config menu output = %q", out)
	}

	out, err = c.run("a\n", "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Auto-finalize:     on") || !strings.Contains(out, "Configuration saved.") {
		t.Errorf("config menu output = %q", out)
	}
	if show := c.mustRun("config", "show"); !strings.Contains(show, "Auto-finalize:     off") {
		t.Errorf("auto-finalize should be toggled off, got %q", show)
	}

	out, err = c.run("q\n", "config")
	if err != nil || !strings.Contains(out, "No changes made.") {
		t.Errorf("quit: %v %q", err, out)
	}
}
