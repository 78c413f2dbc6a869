package config

// ApplyDefaults fills in zero-value fields with their default values.
// The only default in the Ground Control schema is the stop mechanism,
// which falls back to SIGTERM when a process table does not set one.
func ApplyDefaults(cfg *Config) {
	for i := range cfg.Processes {
		if cfg.Processes[i].Stop.isZero() {
			cfg.Processes[i].Stop.Signal = defaultStopSignal
		}
	}
}
