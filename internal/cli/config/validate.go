package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)", configKey(fe.Namespace()), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// configKey maps a validator namespace like Config.UI.Port to ui.port.
func configKey(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

var keyNames = map[string]string{
	"DataDir":       "data_dir",
	"StatePath":     "state_path",
	"OutputFormat":  "output",
	"UI":            "ui",
	"Port":          "port",
	"ToastMS":       "toast_ms",
	"SessionSecret": "session_secret",
	"Explorer":      "explorer",
	"PageSize":      "page_size",
}

func snake(field string) string {
	if k, ok := keyNames[field]; ok {
		return k
	}
	return strings.ToLower(field)
}
