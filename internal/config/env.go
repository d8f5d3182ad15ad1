package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadEnvFile reads variable bindings from a YAML (or JSON) mapping of
// name to number.
func LoadEnvFile(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	env := map[string]float64{}
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse env file %s: %w", path, err)
	}
	return env, nil
}

// ParseBindings parses name=value pairs as given on the command line.
func ParseBindings(pairs []string) (map[string]float64, error) {
	env := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, val, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("binding %q: want name=value", p)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", p, err)
		}
		env[strings.TrimSpace(name)] = f
	}
	return env, nil
}
