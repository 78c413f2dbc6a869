package process

// CommandSpec is the engine's own, collaborator-free rendering of a
// command: a program, its arguments, the user to run it as, and the set
// of environment variables allowed through from the supervisor.
type CommandSpec struct {
	Program string
	Args    []string
	User    string
	EnvVars []string
}

// StopMechanism is either a signal name (one of SIGINT, SIGQUIT, SIGTERM)
// or a command to run in place of signalling. Exactly one is set.
type StopMechanism struct {
	Signal  string
	Command *CommandSpec
}

// Spec is a single declared process: an optional pre-start command, an
// optional run command (its presence is what makes a process a daemon
// rather than a one-shot), an optional post-stop command, and a stop
// mechanism.
type Spec struct {
	Name string
	Pre  *CommandSpec
	Run  *CommandSpec
	Post *CommandSpec
	Stop StopMechanism
}

// IsOneShot reports whether this spec has no run command.
func (s Spec) IsOneShot() bool {
	return s.Run == nil
}
