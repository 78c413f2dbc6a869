package config

import "fmt"

// recognizedSignals lists the stop-signal names accepted in a stop value.
var recognizedSignals = map[string]bool{
	"SIGINT":  true,
	"SIGQUIT": true,
	"SIGTERM": true,
}

// StopValue is the decoded form of a process's stop mechanism: either a
// recognized signal name, or a command to run in place of signalling.
//
// A plain string that is not one of the recognized signal names is treated
// as a whitespace-split command line, matching the untagged-enum decode
// used by the original implementation this was ported from.
type StopValue struct {
	Signal  string
	Command *CommandValue
}

// IsSignal reports whether this stop value names a signal rather than a
// command.
func (s StopValue) IsSignal() bool {
	return s.Signal != ""
}

// UnmarshalTOML decodes a stop value from its TOML primitive form.
func (s *StopValue) UnmarshalTOML(data interface{}) error {
	if str, ok := data.(string); ok && recognizedSignals[str] {
		s.Signal = str
		return nil
	}

	cmd := &CommandValue{}
	if err := cmd.UnmarshalTOML(data); err != nil {
		return fmt.Errorf("stop value must be a recognized signal name (%s) or a command: %w",
			"SIGINT, SIGQUIT, SIGTERM", err)
	}
	s.Command = cmd
	return nil
}

// defaultStopSignal is applied to any ProcessSpec whose stop value was not
// set in the config document.
const defaultStopSignal = "SIGTERM"

func (s StopValue) isZero() bool {
	return s.Signal == "" && s.Command == nil
}
