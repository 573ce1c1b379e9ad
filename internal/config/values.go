package config

import (
	"fmt"
	"time"

	ozzo "github.com/go-ozzo/ozzo-config"
)

// JSON отдает числа как float64, YAML и TOML - как целые,
// поэтому значения приводятся вручную.

func getString(c *ozzo.Config, path string, dst *string) error {
	v := c.Get(path)
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s: expected string, got %T", path, v)
	}
	*dst = s
	return nil
}

func getInt(c *ozzo.Config, path string, dst *int) error {
	v := c.Get(path)
	switch n := v.(type) {
	case nil:
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case float64:
		if n != float64(int(n)) {
			return fmt.Errorf("%s: expected integer, got %g", path, n)
		}
		*dst = int(n)
	default:
		return fmt.Errorf("%s: expected integer, got %T", path, v)
	}
	return nil
}

func getFloat(c *ozzo.Config, path string, dst *float64) error {
	v := c.Get(path)
	switch n := v.(type) {
	case nil:
	case float64:
		*dst = n
	case int:
		*dst = float64(n)
	case int64:
		*dst = float64(n)
	default:
		return fmt.Errorf("%s: expected number, got %T", path, v)
	}
	return nil
}

func getBool(c *ozzo.Config, path string, dst *bool) error {
	v := c.Get(path)
	if v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("%s: expected bool, got %T", path, v)
	}
	*dst = b
	return nil
}

// getDuration принимает строку ("40s") или число миллисекунд.
func getDuration(c *ozzo.Config, path string, dst *time.Duration) error {
	v := c.Get(path)
	switch d := v.(type) {
	case nil:
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		*dst = parsed
	default:
		var ms int
		if err := getInt(c, path, &ms); err != nil {
			return err
		}
		*dst = time.Duration(ms) * time.Millisecond
	}
	return nil
}
