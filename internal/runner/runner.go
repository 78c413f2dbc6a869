// Package runner is the Command Runner: it spawns a single child process
// in its own process group, applies environment scrubbing and `{{VAR}}`
// template substitution to its arguments, optionally drops to a named
// user, and reports the child's terminal ExitOutcome exactly once.
package runner

import (
	"fmt"
	"os"
	"syscall"
)

// Spec describes a single command to run: a program, its arguments, the
// user to run it as (empty means the supervisor's own user), and the set
// of environment variables allowed through from the supervisor's
// environment.
type Spec struct {
	Program string
	Args    []string
	User    string
	EnvVars []string
}

func (s Spec) String() string {
	return fmt.Sprintf("%s %v", s.Program, s.Args)
}

// ExitOutcome is the disciplined terminal state of a spawned command:
// Exited carries a numeric exit code, Killed means the process was
// terminated by a signal and reported no code.
type ExitOutcome struct {
	Killed bool
	Code   int
}

// Success reports whether the outcome is Exited(0), the only outcome the
// engine treats as success.
func (o ExitOutcome) Success() bool {
	return !o.Killed && o.Code == 0
}

func (o ExitOutcome) String() string {
	if o.Killed {
		return "killed"
	}
	return fmt.Sprintf("exited(%d)", o.Code)
}

// Handle is the control handle for a running command: it retains the
// child's process-group leader PID and can deliver a signal to the whole
// group.
type Handle struct {
	pid     int
	process SpawnedProcess
}

// Pid returns the child's process ID, which doubles as its process-group
// ID since every spawned command is its own group leader.
func (h *Handle) Pid() int { return h.pid }

// Kill delivers sig to the child's entire process group. The group
// addressing itself is the spawner's concern: ExecSpawner's SpawnedProcess
// targets the negative pid, while a test double can record the call
// directly.
func (h *Handle) Kill(sig syscall.Signal) error {
	return h.process.Signal(sig)
}

// Monitor is a single-consumer, one-shot receiver for a command's
// ExitOutcome.
type Monitor <-chan ExitOutcome

// Run spawns spec as the leader of a new process group and returns a
// control Handle plus a Monitor that yields the command's ExitOutcome
// exactly once. supervisorEnv is the supervisor's own environment, used
// both to populate the child's allowed variables and to resolve `{{VAR}}`
// template references in its arguments.
func Run(spawner ProcessSpawner, spec Spec, supervisorEnv map[string]string) (*Handle, Monitor, error) {
	env, err := buildChildEnv(supervisorEnv, spec.EnvVars)
	if err != nil {
		return nil, nil, err
	}

	args, err := expandArgs(spec.Args, supervisorEnv)
	if err != nil {
		return nil, nil, err
	}

	cred, err := resolveCredential(spec.User)
	if err != nil {
		return nil, nil, err
	}

	proc, err := spawner.Spawn(SpawnConfig{
		Program:    spec.Program,
		Args:       args,
		Env:        env,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Credential: cred,
	})
	if err != nil {
		return nil, nil, err
	}

	monitor := make(chan ExitOutcome, 1)
	go waitAndReport(proc, monitor)

	return &Handle{pid: proc.Pid(), process: proc}, monitor, nil
}

// RunAndWait spawns spec and blocks until it terminates, returning its
// ExitOutcome. It is used for the synchronous pre/stop/post phases, which
// always run to completion before the next phase is considered.
func RunAndWait(spawner ProcessSpawner, spec Spec, supervisorEnv map[string]string) (ExitOutcome, error) {
	_, monitor, err := Run(spawner, spec, supervisorEnv)
	if err != nil {
		return ExitOutcome{}, err
	}
	return <-monitor, nil
}

// waitAndReport awaits the child's termination and sends exactly one
// ExitOutcome. An error from the underlying wait is mapped to Killed,
// since it means the engine can no longer learn the real exit status.
func waitAndReport(proc SpawnedProcess, monitor chan<- ExitOutcome) {
	outcome, err := proc.Wait()
	if err != nil {
		outcome = ExitOutcome{Killed: true}
	}
	monitor <- outcome
}
