// Package process orchestrates a single declared process through its
// pre -> run -> (monitor) -> stop -> post phases, classifying it as a
// daemon (has a run command) or a one-shot (no run command).
package process

import (
	"fmt"
	"log/slog"
	"syscall"

	"github.com/malyn/groundcontrol/internal/metrics"
	"github.com/malyn/groundcontrol/internal/runner"
	"github.com/malyn/groundcontrol/internal/shutdown"
)

// Process drives a single Spec through its lifecycle.
type Process struct {
	spec    Spec
	spawner runner.ProcessSpawner
	env     map[string]string
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a Process bound to spec. env is the supervisor's own
// environment, consulted for env-var scrubbing and `{{VAR}}` substitution.
// collector may be nil, in which case no metrics are recorded.
func New(spec Spec, spawner runner.ProcessSpawner, env map[string]string, logger *slog.Logger, collector *metrics.Collector) *Process {
	return &Process{
		spec:    spec,
		spawner: spawner,
		env:     env,
		logger:  logger.With("process", spec.Name),
		metrics: collector,
	}
}

// Name returns the process's declared name.
func (p *Process) Name() string { return p.spec.Name }

// Start runs pre (if present), then spawns run (if present). On success it
// returns a RunningProcess that Stop later consumes. shutdownProducer is
// where the daemon's background exit-watcher reports completion or
// failure; it is unused for one-shot processes.
func (p *Process) Start(shutdownProducer shutdown.Producer) (*RunningProcess, error) {
	if p.spec.Pre != nil {
		outcome, err := runner.RunAndWait(p.spawner, toRunnerSpec(*p.spec.Pre), p.env)
		if err != nil {
			return nil, &PreRunFailedError{Name: p.spec.Name, Cause: err}
		}
		switch {
		case outcome.Killed:
			return nil, &PreRunKilledError{Name: p.spec.Name}
		case outcome.Code != 0:
			return nil, &PreRunAbortedError{Name: p.spec.Name, Code: outcome.Code}
		}
	}

	if p.spec.Run == nil {
		return &RunningProcess{spec: p.spec, kind: kindOneShot, spawner: p.spawner, env: p.env}, nil
	}

	handle, monitor, err := runner.Run(p.spawner, toRunnerSpec(*p.spec.Run), p.env)
	if err != nil {
		return nil, &RunFailedError{Name: p.spec.Name, Cause: err}
	}

	exitLatch := make(chan runner.ExitOutcome, 1)
	go watchDaemonExit(p.spec.Name, monitor, exitLatch, shutdownProducer, p.metrics)

	return &RunningProcess{
		spec:      p.spec,
		kind:      kindDaemon,
		spawner:   p.spawner,
		env:       p.env,
		handle:    handle,
		exitLatch: exitLatch,
	}, nil
}

// watchDaemonExit forwards a daemon's terminal ExitOutcome onto its
// exit-latch and reports completion or failure on the shutdown trigger.
// This deliberately does not confirm the daemon stayed alive after spawn:
// an immediate exit simply produces a shutdown signal the supervisor
// observes in its steady state.
func watchDaemonExit(name string, monitor runner.Monitor, exitLatch chan<- runner.ExitOutcome, shutdownProducer shutdown.Producer, collector *metrics.Collector) {
	outcome := <-monitor
	exitLatch <- outcome
	if collector != nil {
		collector.IncProcessExit(name, outcome.Success())
	}
	if outcome.Success() {
		shutdownProducer.Send(shutdown.DaemonExited)
	} else {
		shutdownProducer.Send(shutdown.DaemonFailed)
	}
}

// kind classifies a RunningProcess.
type kind int

const (
	kindDaemon kind = iota
	kindOneShot
)

// RunningProcess is produced by a successful Start and consumed by Stop.
type RunningProcess struct {
	spec    Spec
	kind    kind
	spawner runner.ProcessSpawner
	env     map[string]string

	handle    *runner.Handle
	exitLatch <-chan runner.ExitOutcome
}

// Name returns the underlying process's declared name.
func (r *RunningProcess) Name() string { return r.spec.Name }

// Stop tears the process down: for a daemon, it applies the stop
// mechanism (unless the daemon already exited) and awaits the daemon's
// final ExitOutcome; it then runs post, if present, unconditionally. Stop
// and post failures are logged, never returned, matching the contract
// that a failing stop must not prevent post from running, and a failing
// post must not prevent the caller from moving on to the next process.
func (r *RunningProcess) Stop(logger *slog.Logger) {
	logger = logger.With("process", r.spec.Name)

	if r.kind == kindDaemon {
		select {
		case outcome := <-r.exitLatch:
			logger.Info("process already exited before stop was requested", "outcome", outcome.String())
		default:
			if err := r.applyStopMechanism(); err != nil {
				logger.Warn("stop mechanism failed", "error", err)
			}
			outcome := <-r.exitLatch
			logger.Info("process stopped", "outcome", outcome.String())
		}
	}

	if r.spec.Post != nil {
		outcome, err := runner.RunAndWait(r.spawner, toRunnerSpec(*r.spec.Post), r.env)
		switch {
		case err != nil:
			logger.Warn("post command failed to start", "error", err)
		case !outcome.Success():
			logger.Warn("post command did not exit cleanly", "outcome", outcome.String())
		}
	}
}

func (r *RunningProcess) applyStopMechanism() error {
	if r.spec.Stop.Command != nil {
		outcome, err := runner.RunAndWait(r.spawner, toRunnerSpec(*r.spec.Stop.Command), r.env)
		if err != nil {
			return err
		}
		if !outcome.Success() {
			return fmt.Errorf("stop command did not exit cleanly: %s", outcome)
		}
		return nil
	}

	sig, err := signalFromName(r.spec.Stop.Signal)
	if err != nil {
		return err
	}
	return r.handle.Kill(sig)
}

func signalFromName(name string) (syscall.Signal, error) {
	switch name {
	case "SIGINT":
		return syscall.SIGINT, nil
	case "SIGQUIT":
		return syscall.SIGQUIT, nil
	case "SIGTERM":
		return syscall.SIGTERM, nil
	default:
		return 0, fmt.Errorf("unrecognized stop signal %q", name)
	}
}

func toRunnerSpec(c CommandSpec) runner.Spec {
	return runner.Spec{
		Program: c.Program,
		Args:    c.Args,
		User:    c.User,
		EnvVars: c.EnvVars,
	}
}
