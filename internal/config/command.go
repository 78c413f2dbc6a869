package config

import (
	"fmt"
	"strings"
)

// CommandValue is the decoded form of a command value, however it was
// written in the TOML document: a whitespace-split string, a list of
// strings, or a detailed table naming a command plus a user and an
// allowed-environment set.
//
// It implements toml.Unmarshaler so BurntSushi/toml hands it the raw
// decoded value (string, []interface{}, or map[string]interface{})
// instead of trying to match it against a single Go shape.
type CommandValue struct {
	Program string
	Args    []string
	User    string
	EnvVars []string
}

var _ interface {
	UnmarshalTOML(interface{}) error
} = (*CommandValue)(nil)

// UnmarshalTOML decodes a command value from its TOML primitive form.
func (c *CommandValue) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		program, args, err := splitCommandLine(v)
		if err != nil {
			return err
		}
		c.Program, c.Args = program, args
		return nil

	case []interface{}:
		program, args, err := commandVector(v)
		if err != nil {
			return err
		}
		c.Program, c.Args = program, args
		return nil

	case map[string]interface{}:
		return c.unmarshalDetailed(v)

	default:
		return fmt.Errorf("command value must be a string, a list of strings, or a table, got %T", data)
	}
}

func (c *CommandValue) unmarshalDetailed(table map[string]interface{}) error {
	for key := range table {
		switch key {
		case "command", "user", "env-vars":
		default:
			return fmt.Errorf("unknown key %q in command table", key)
		}
	}

	commandVal, ok := table["command"]
	if !ok {
		return fmt.Errorf("command table requires a %q key", "command")
	}

	switch v := commandVal.(type) {
	case string:
		program, args, err := splitCommandLine(v)
		if err != nil {
			return err
		}
		c.Program, c.Args = program, args
	case []interface{}:
		program, args, err := commandVector(v)
		if err != nil {
			return err
		}
		c.Program, c.Args = program, args
	default:
		return fmt.Errorf("command table %q must be a string or a list of strings, got %T", "command", commandVal)
	}

	if userVal, ok := table["user"]; ok {
		user, ok := userVal.(string)
		if !ok {
			return fmt.Errorf("command table %q must be a string, got %T", "user", userVal)
		}
		c.User = user
	}

	if envVal, ok := table["env-vars"]; ok {
		list, ok := envVal.([]interface{})
		if !ok {
			return fmt.Errorf("command table %q must be a list of strings, got %T", "env-vars", envVal)
		}
		vars := make([]string, len(list))
		for i, e := range list {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("command table %q must contain only strings, got %T at index %d", "env-vars", e, i)
			}
			vars[i] = s
		}
		c.EnvVars = vars
	}

	return nil
}

// splitCommandLine parses the whitespace-split string form of a command
// value. It does not understand quoting; a complex command line should use
// the list form instead.
func splitCommandLine(line string) (string, []string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("command line must not be empty")
	}
	return fields[0], fields[1:], nil
}

func commandVector(raw []interface{}) (string, []string, error) {
	if len(raw) == 0 {
		return "", nil, fmt.Errorf("command vector must not be empty")
	}
	parts := make([]string, len(raw))
	for i, e := range raw {
		s, ok := e.(string)
		if !ok {
			return "", nil, fmt.Errorf("command vector must contain only strings, got %T at index %d", e, i)
		}
		parts[i] = s
	}
	return parts[0], parts[1:], nil
}
