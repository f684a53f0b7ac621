package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// setters maps the editable keys to their parsers.
var setters = map[string]func(c *Config, value string) error{
	"default_protocol": func(c *Config, value string) error {
		catalog, err := c.Catalog()
		if err != nil {
			return err
		}
		p, err := catalog.Find(value)
		if err != nil {
			return err
		}
		c.DefaultProtocol = p.Name
		return nil
	},
	"auto_finalize":         boolSetter(func(c *Config) *bool { return &c.AutoFinalize }),
	"notifications.enabled": boolSetter(func(c *Config) *bool { return &c.Notifications.Enabled }),
	"notifications.sound":   boolSetter(func(c *Config) *bool { return &c.Notifications.Sound }),
	"mcp.enabled":           boolSetter(func(c *Config) *bool { return &c.MCP.Enabled }),
	"log.debug":             boolSetter(func(c *Config) *bool { return &c.Log.Debug }),
	"goals.weekly_days": func(c *Config, value string) error {
		n, err := parseDays(value, 7)
		if err != nil {
			return err
		}
		c.Goals.WeeklyDays = n
		return nil
	},
	"goals.streak_days": func(c *Config, value string) error {
		n, err := parseDays(value, 365)
		if err != nil {
			return err
		}
		c.Goals.StreakDays = n
		return nil
	},
	"storage.data_dir": func(c *Config, value string) error {
		dir, err := expandHome(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		c.Storage.DataDir = dir
		return nil
	},
	"log.file": func(c *Config, value string) error {
		c.Log.File = strings.TrimSpace(value)
		return nil
	},
}

// Keys lists the settings accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value and assigns it to the setting named by key.
func (c *Config) Set(key, value string) error {
	set, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown setting %q (one of: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := set(c, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func boolSetter(field func(c *Config) *bool) func(c *Config, value string) error {
	return func(c *Config, value string) error {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "on", "yes", "y":
			*field(c) = true
			return nil
		case "off", "no", "n":
			*field(c) = false
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%q is not a boolean", value)
		}
		*field(c) = b
		return nil
	}
}

func parseDays(value string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", value)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("must be between 1 and %d", max)
	}
	return n, nil
}
