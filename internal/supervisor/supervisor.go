// Package supervisor starts every declared process in order, watches for
// the first signal that ends steady state, and tears everything down in
// reverse order.
package supervisor

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/malyn/groundcontrol/internal/config"
	"github.com/malyn/groundcontrol/internal/metrics"
	"github.com/malyn/groundcontrol/internal/process"
	"github.com/malyn/groundcontrol/internal/runner"
	"github.com/malyn/groundcontrol/internal/shutdown"
)

// Process state codes reported on the groundcontrol_process_state gauge.
const (
	stateStarting = 0
	stateRunning  = 1
	stateStopped  = 2
)

// Result classifies how a Run call ended.
type Result int

const (
	// ResultOK means an external signal arrived, a daemon exited cleanly,
	// or the process set was empty or entirely one-shots.
	ResultOK Result = iota
	// ResultStartupAborted means a pre or run command failed during
	// startup; the error returned alongside carries the cause.
	ResultStartupAborted
	// ResultAbnormalShutdown means a daemon exited non-zero or was killed
	// during steady state.
	ResultAbnormalShutdown
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultStartupAborted:
		return "startup-aborted"
	case ResultAbnormalShutdown:
		return "abnormal-shutdown"
	default:
		return "unknown"
	}
}

// StartupAbortedError chains the process name, the cause, and (if it
// carries an exit code) that code. errors.Unwrap follows to the
// underlying process-package classification (PreRunFailedError,
// PreRunAbortedError, PreRunKilledError, RunFailedError) and, further,
// to the runner-layer cause.
type StartupAbortedError struct {
	ProcessName string
	Cause       error
}

func (e *StartupAbortedError) Error() string {
	return fmt.Sprintf("startup aborted: %v", e.Cause)
}

func (e *StartupAbortedError) Unwrap() error { return e.Cause }

// Options configures a Run.
type Options struct {
	Config  *config.Config
	Spawner runner.ProcessSpawner
	Env     map[string]string
	Logger  *slog.Logger

	// ExternalShutdown, if non-nil, is an additional caller-supplied
	// shutdown input (closing it is treated as an ExternalSignal).
	ExternalShutdown <-chan struct{}

	// Metrics, if non-nil, is observed as the state machine is driven.
	// Nothing in the engine ever reads it back to make a decision.
	Metrics *metrics.Collector
}

// Run starts every process in opts.Config in declaration order, blocks
// until shutdown is triggered, and tears processes down in reverse order.
func Run(opts Options) (Result, error) {
	logger := opts.Logger

	if _, breakGlass := opts.Env["BREAK_GLASS"]; breakGlass {
		logger.Warn("BREAK_GLASS set: starting no processes")
		trigger := shutdown.New()
		stopSignals := forwardSignals(trigger.Producer())
		defer stopSignals()
		forwardExternal(opts.ExternalShutdown, trigger.Producer())
		trigger.Recv()
		return ResultOK, nil
	}

	specs := convertSpecs(opts.Config.Processes)

	trigger := shutdown.New()
	stopSignals := forwardSignals(trigger.Producer())
	defer stopSignals()
	forwardExternal(opts.ExternalShutdown, trigger.Producer())

	startupBegan := time.Now()

	var running []*process.RunningProcess
	hasDaemon := false
	for _, spec := range specs {
		if opts.Metrics != nil {
			opts.Metrics.SetProcessState(spec.Name, stateStarting)
			opts.Metrics.IncProcessStart(spec.Name)
		}

		p := process.New(spec, opts.Spawner, opts.Env, logger, opts.Metrics)
		rp, err := p.Start(trigger.Producer())
		if err != nil {
			cause := &StartupAbortedError{ProcessName: spec.Name, Cause: err}
			logger.Error("startup aborted", "process", spec.Name, "error", err)
			unwind(running, logger, opts.Metrics)
			return ResultStartupAborted, cause
		}
		running = append(running, rp)
		if !spec.IsOneShot() {
			hasDaemon = true
		}
		if opts.Metrics != nil {
			opts.Metrics.SetProcessState(spec.Name, stateRunning)
		}
	}

	if opts.Metrics != nil {
		opts.Metrics.ObserveStartupDuration(time.Since(startupBegan).Seconds())
		opts.Metrics.SetProcessCount("running", len(running))
	}

	if !hasDaemon {
		// Every process was a one-shot (or there were none at all), so
		// there is no daemon left to ever fire the shutdown trigger.
		// Running each one-shot's post now and returning Ok matches
		// treating daemon-exit-with-code-0 as a completion signal: an
		// all-one-shot run is the degenerate case of that.
		unwind(running, logger, opts.Metrics)
		return ResultOK, nil
	}

	reason := trigger.Recv()
	logger.Info("shutdown triggered", "reason", reason.String())

	unwind(running, logger, opts.Metrics)

	if reason == shutdown.DaemonFailed {
		return ResultAbnormalShutdown, fmt.Errorf("daemon exited abnormally during steady state")
	}
	return ResultOK, nil
}

// unwind invokes Stop on every running process in reverse declaration
// order. Individual stop failures are already logged inside Stop; teardown
// continues unconditionally.
func unwind(running []*process.RunningProcess, logger *slog.Logger, collector *metrics.Collector) {
	for i := len(running) - 1; i >= 0; i-- {
		running[i].Stop(logger)
		if collector != nil {
			collector.SetProcessState(running[i].Name(), stateStopped)
		}
	}
	if collector != nil {
		collector.SetProcessCount("running", 0)
		collector.SetProcessCount("stopped", len(running))
	}
}

// forwardSignals converts SIGINT/SIGTERM into ExternalSignal on the
// trigger. The returned func stops the forwarder and should be deferred.
func forwardSignals(producer shutdown.Producer) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				producer.Send(shutdown.ExternalSignal)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// forwardExternal converts a close of ch into a single ExternalSignal.
func forwardExternal(ch <-chan struct{}, producer shutdown.Producer) {
	if ch == nil {
		return
	}
	go func() {
		<-ch
		producer.Send(shutdown.ExternalSignal)
	}()
}

func convertSpecs(specs []config.ProcessSpec) []process.Spec {
	out := make([]process.Spec, len(specs))
	for i, s := range specs {
		out[i] = process.Spec{
			Name: s.Name,
			Pre:  convertCommand(s.Pre),
			Run:  convertCommand(s.Run),
			Post: convertCommand(s.Post),
			Stop: convertStop(s.Stop),
		}
	}
	return out
}

func convertCommand(c *config.CommandValue) *process.CommandSpec {
	if c == nil {
		return nil
	}
	return &process.CommandSpec{
		Program: c.Program,
		Args:    c.Args,
		User:    c.User,
		EnvVars: c.EnvVars,
	}
}

func convertStop(s config.StopValue) process.StopMechanism {
	if s.IsSignal() {
		return process.StopMechanism{Signal: s.Signal}
	}
	return process.StopMechanism{Command: convertCommand(s.Command)}
}
