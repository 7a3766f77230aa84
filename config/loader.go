package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Files is the filesystem access the loader needs.
type Files interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFiles struct{}

func (osFiles) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFiles) LoadEnv(path string) error { return godotenv.Load(path) }

// Sources names the config and .env files to read. An empty field is
// searched for.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

type loader struct {
	files  Files
	src    Sources
	prefix string
}

// LoaderOption customizes LoadConfig.
type LoaderOption func(*loader)

// WithFiles replaces the filesystem used to find and read files.
func WithFiles(f Files) LoaderOption {
	return func(l *loader) { l.files = f }
}

// WithConfigFile reads path instead of searching for a config file.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.src.ConfigFile = path }
}

// WithEnvFile reads path instead of searching for a .env file.
func WithEnvFile(path string) LoaderOption {
	return func(l *loader) { l.src.EnvFile = path }
}

// WithEnvPrefix replaces the environment variable prefix, which defaults to
// the upper-cased service name followed by "_".
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *loader) { l.prefix = prefix }
}

// resolve fills the empty fields of src with the first existing file from
// the search paths of service:
//
//	./config/{service}.yml  ./{service}.yml  ./config/config.yml  ./config.yml  (then .yaml)
//	./config/.env.{service}  ./.env.{service}  ./config/.env  ./.env
func resolve(files Files, service string, src Sources) Sources {
	first := func(paths []string) string {
		for _, p := range paths {
			if files.Exists(p) {
				return p
			}
		}
		return ""
	}
	if src.ConfigFile == "" {
		var paths []string
		for _, ext := range []string{"yml", "yaml"} {
			paths = append(paths,
				"./config/"+service+"."+ext,
				"./"+service+"."+ext,
				"./config/config."+ext,
				"./config."+ext,
			)
		}
		src.ConfigFile = first(paths)
	}
	if src.EnvFile == "" {
		src.EnvFile = first([]string{
			"./config/.env." + service,
			"./.env." + service,
			"./config/.env",
			"./.env",
		})
	}
	return src
}

// LoadConfig decodes the settings of service into cfg. The config file is
// read first, then the .env file is loaded into the process environment,
// and finally every prefixed variable (e.g. DATAKIT_LOGGING_LEVEL)
// overrides the file. Missing files are skipped.
func LoadConfig(service string, cfg interface{}, opts ...LoaderOption) error {
	l := loader{files: osFiles{}, prefix: envPrefix(service)}
	for _, opt := range opts {
		opt(&l)
	}
	src := resolve(l.files, service, l.src)

	v := viper.New()
	if src.ConfigFile != "" && l.files.Exists(src.ConfigFile) {
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", src.ConfigFile, err)
		}
	}
	if src.EnvFile != "" && l.files.Exists(src.EnvFile) {
		if err := l.files.LoadEnv(src.EnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", src.EnvFile, err)
		}
	}
	overrideFromEnv(v, l.prefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to decode config for %s: %w", service, err)
	}
	return nil
}

func envPrefix(service string) string {
	return strings.ToUpper(strings.ReplaceAll(service, "-", "_")) + "_"
}

// overrideFromEnv sets each PREFIX_KEY=value under every nested key KEY
// could stand for.
func overrideFromEnv(v *viper.Viper, prefix string, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key, ok := strings.CutPrefix(name, prefix)
		if !ok || key == "" {
			continue
		}
		for _, k := range keyVariants(key) {
			v.Set(k, value)
		}
	}
}

// keyVariants lists the config keys an underscore-separated variable name
// may address, since "_" is both the nesting separator and part of keys:
//
//	LOGGING_LEVEL          -> logging_level, logging.level
//	ANALYSIS_TRACE_PREFIX  -> analysis_trace_prefix, analysis.trace.prefix, analysis.trace_prefix
func keyVariants(name string) []string {
	flat := strings.ToLower(name)
	parts := strings.Split(flat, "_")
	if len(parts) == 1 {
		return []string{flat}
	}
	out := []string{flat, strings.Join(parts, ".")}
	for i := 1; i < len(parts)-1; i++ {
		out = append(out, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return out
}
