// Package config handles loading and validating Ground Control
// configuration.
package config

// Config is the top-level Ground Control configuration.
type Config struct {
	Processes []ProcessSpec `toml:"processes"`
}

// ProcessSpec is a single declared process.
type ProcessSpec struct {
	Name string `toml:"name"`

	Pre  *CommandValue `toml:"pre"`
	Run  *CommandValue `toml:"run"`
	Post *CommandValue `toml:"post"`

	Stop StopValue `toml:"stop"`
}

// IsOneShot reports whether a process has no run command, and therefore
// only executes its pre and post phases.
func (p ProcessSpec) IsOneShot() bool {
	return p.Run == nil
}
