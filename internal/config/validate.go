package config

import "fmt"

// Validate checks the config for semantic errors and returns the first one
// found.
func Validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Processes))

	for i, p := range cfg.Processes {
		if p.Name == "" {
			return fmt.Errorf("processes[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("processes[%d]: duplicate process name %q", i, p.Name)
		}
		seen[p.Name] = true

		for _, cmd := range []*CommandValue{p.Pre, p.Run, p.Post} {
			if cmd != nil && cmd.Program == "" {
				return fmt.Errorf("process %q: command program must not be empty", p.Name)
			}
		}
		if p.Stop.Command != nil && p.Stop.Command.Program == "" {
			return fmt.Errorf("process %q: stop command program must not be empty", p.Name)
		}
	}

	return nil
}
