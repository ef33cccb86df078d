package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadDotEnv parses KEY=VALUE lines from path. A missing file yields an
// empty map.
func ReadDotEnv(path string) (map[string]string, error) {
	vars := make(map[string]string)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return vars, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = unquote(strings.TrimSpace(value))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}

// ApplyDotEnv exports vars into the process environment and returns the set
// of keys it now owns. owned is the set returned by the previous call: those
// keys may be overwritten, and are unset when they disappear from vars.
// Any other variable already in the environment is left untouched.
func ApplyDotEnv(vars map[string]string, owned map[string]struct{}) (map[string]struct{}, error) {
	next := make(map[string]struct{}, len(vars))
	for key, value := range vars {
		_, ours := owned[key]
		if _, set := os.LookupEnv(key); set && !ours {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
		next[key] = struct{}{}
	}
	for key := range owned {
		if _, kept := next[key]; kept {
			continue
		}
		if err := os.Unsetenv(key); err != nil {
			return nil, fmt.Errorf("unset %s: %w", key, err)
		}
	}
	return next, nil
}

// unquote strips one pair of matching surrounding quotes.
func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
