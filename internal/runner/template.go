package runner

import "regexp"

// templateVarPattern matches `{{NAME}}`, tolerating optional whitespace
// around the variable name so that `{{ NAME }}` and `{{NAME}}` are
// equivalent.
var templateVarPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// expandArgs substitutes every `{{NAME}}` occurrence in each argument with
// the named variable's value in the supervisor's environment. Substitution
// is not recursive: a value that itself contains `{{...}}` is not expanded
// again. A reference to a variable that is unset fails the whole command.
func expandArgs(args []string, supervisorEnv map[string]string) ([]string, error) {
	expanded := make([]string, len(args))
	for i, arg := range args {
		out, err := expandOne(arg, supervisorEnv)
		if err != nil {
			return nil, err
		}
		expanded[i] = out
	}
	return expanded, nil
}

func expandOne(arg string, supervisorEnv map[string]string) (string, error) {
	var missing *TemplateExpansionFailedError

	result := templateVarPattern.ReplaceAllStringFunc(arg, func(match string) string {
		if missing != nil {
			return match
		}
		name := templateVarPattern.FindStringSubmatch(match)[1]
		value, ok := supervisorEnv[name]
		if !ok {
			missing = &TemplateExpansionFailedError{Name: name}
			return match
		}
		return value
	})

	if missing != nil {
		return "", missing
	}
	return result, nil
}
