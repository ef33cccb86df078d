package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileName is the service configuration file inside the config directory.
const FileName = "service.yaml"

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:default} patterns in a string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		varName := submatch[1]
		defaultVal := ""
		if len(submatch) >= 3 {
			defaultVal = submatch[2]
		}
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return defaultVal
	})
}

// LoadFile reads a YAML file, expands env vars, and unmarshals into dest.
func LoadFile(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), dest); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Loader manages configuration loading and hot-reload via fsnotify.
type Loader struct {
	configDir string
	mu        sync.RWMutex
	cfg       *Config
	watchers  []func()
	logger    *slog.Logger

	envMu   sync.Mutex
	envKeys map[string]struct{} // variables this loader exported from .env
}

func NewLoader(configDir string, logger *slog.Logger) *Loader {
	return &Loader{
		configDir: configDir,
		logger:    logger,
	}
}

// Load reads <dir>/.env (if present) and then <dir>/service.yaml on top of
// DefaultConfig. A missing service.yaml leaves the defaults in place.
// On reload, values that came from .env follow the file; variables set in
// the real environment always win.
func (l *Loader) Load() error {
	if err := l.loadDotEnv(); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg := DefaultConfig()
	path := filepath.Join(l.configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		if err := LoadFile(path, cfg); err != nil {
			return fmt.Errorf("load service config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat service config: %w", err)
	} else {
		l.logger.Warn("service config not found, using defaults", "path", path)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()

	l.logger.Info("configuration loaded", "dir", l.configDir)
	return nil
}

func (l *Loader) loadDotEnv() error {
	vars, err := ReadDotEnv(filepath.Join(l.configDir, ".env"))
	if err != nil {
		return err
	}
	l.envMu.Lock()
	defer l.envMu.Unlock()
	owned, err := ApplyDotEnv(vars, l.envKeys)
	if err != nil {
		return err
	}
	l.envKeys = owned
	return nil
}

func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// AI returns the current delegate settings; safe to call per request.
func (l *Loader) AI() AIConfig {
	return l.Config().AI
}

func (l *Loader) Identity() IdentityConfig {
	return l.Config().Identity
}

func (l *Loader) Filter() FilterConfig {
	return l.Config().Filter
}

func (l *Loader) RateLimit() RateLimitConfig {
	return l.Config().RateLimit
}

// OnReload registers a callback that fires after config is reloaded.
func (l *Loader) OnReload(fn func()) {
	l.watchers = append(l.watchers, fn)
}

// reloadDelay coalesces the burst of events editors emit for one save.
const reloadDelay = 200 * time.Millisecond

// Watch reloads the configuration when service.yaml or .env in the config
// directory changes, until ctx is done. Reload callbacks run only after a
// successful load; a broken file keeps the previous configuration.
func (l *Loader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(l.configDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config dir %s: %w", l.configDir, err)
	}

	go func() {
		defer watcher.Close()
		timer := time.NewTimer(reloadDelay)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !l.watched(event) {
					continue
				}
				l.logger.Debug("config file changed", "file", event.Name, "op", event.Op.String())
				timer.Reset(reloadDelay)
			case <-timer.C:
				l.reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Error("fsnotify error", "error", err)
			}
		}
	}()

	return nil
}

func (l *Loader) watched(event fsnotify.Event) bool {
	switch filepath.Base(event.Name) {
	case FileName, ".env":
	default:
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (l *Loader) reload() {
	if err := l.Load(); err != nil {
		l.logger.Error("failed to reload config", "error", err)
		return
	}
	for _, fn := range l.watchers {
		fn()
	}
}
