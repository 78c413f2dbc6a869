package runner

// buildChildEnv constructs the environment passed to a spawned command:
// PATH, if the supervisor has one, plus every variable named in
// allowedVars. Each allowed variable must exist in the supervisor's own
// environment or the command never spawns.
func buildChildEnv(supervisorEnv map[string]string, allowedVars []string) ([]string, error) {
	var env []string

	if path, ok := supervisorEnv["PATH"]; ok {
		env = append(env, "PATH="+path)
	}

	for _, name := range allowedVars {
		value, ok := supervisorEnv[name]
		if !ok {
			return nil, &MissingEnvironmentVariableError{Name: name}
		}
		env = append(env, name+"="+value)
	}

	return env, nil
}
