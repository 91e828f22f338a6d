package credentials

import "os"

// Environment looks up a variable by name, reporting whether it is set.
type Environment func(name string) (string, bool)

// OSEnvironment reads the process environment.
func OSEnvironment() Environment {
	return os.LookupEnv
}

// MapEnvironment serves lookups from a fixed map.
func MapEnvironment(vars map[string]string) Environment {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// lookup returns the value of name, treating unset and empty the same.
func (e Environment) lookup(name string) string {
	if e == nil {
		return ""
	}
	v, ok := e(name)
	if !ok {
		return ""
	}
	return v
}

// homeDir returns the first non-empty of HOME, HOMEPATH and USERPROFILE.
func (e Environment) homeDir() string {
	for _, name := range homeVars {
		if v := e.lookup(name); v != "" {
			return v
		}
	}
	return ""
}
