package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// AppName names the configuration directory.
const AppName = "call-summary"

// Config keys.
const (
	KeyUploadsDir    = "uploads-dir"
	KeyAddr          = "addr"
	KeyCompany       = "company"
	KeyCompanyDomain = "company-domain"
	KeyLogLevel      = "log-level"
	KeyMaxUploadMB   = "max-upload-mb"
	KeyMaxRetries    = "max-retries"
)

// Environment variable fallbacks.
const (
	EnvUploadsDir    = "CALLSUMMARY_UPLOADS_DIR"
	EnvAddr          = "CALLSUMMARY_ADDR"
	EnvCompany       = "CALLSUMMARY_COMPANY"
	EnvCompanyDomain = "CALLSUMMARY_COMPANY_DOMAIN"
	EnvLogLevel      = "CALLSUMMARY_LOG_LEVEL"
	EnvMaxUploadMB   = "CALLSUMMARY_MAX_UPLOAD_MB"
	EnvMaxRetries    = "CALLSUMMARY_MAX_RETRIES"
)

// Defaults applied when neither the file nor the environment sets a key.
const (
	DefaultUploadsDir    = "uploads"
	DefaultAddr          = ":8501"
	DefaultCompany       = "Sunwire Inc."
	DefaultCompanyDomain = "sunwire.ca"
	DefaultLogLevel      = "info"
	DefaultMaxUploadMB   = 25
	DefaultMaxRetries    = 0
)

// maxRetriesLimit bounds max-retries.
const maxRetriesLimit = 10

// ErrUnknownKey indicates a key that is not a recognized setting.
var ErrUnknownKey = errors.New("unknown config key")

// Sentinel errors.
var (
	ErrInvalidValue = errors.New("invalid config value")
	ErrInvalidKey   = errors.New("invalid config key")
	ErrNotDirectory = errors.New("path is not a directory")
	ErrNotWritable  = errors.New("directory is not writable")
)

// Config holds user configuration loaded from ~/.config/call-summary/config.
type Config struct {
	UploadsDir    string
	Addr          string
	Company       string
	CompanyDomain string
	LogLevel      string
	MaxUploadMB   int
	MaxRetries    int
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// setting binds a key to its env fallback and default.
type setting struct {
	key  string
	env  string
	def  string
	kind func(string) error
}

var settings = []setting{
	{KeyUploadsDir, EnvUploadsDir, DefaultUploadsDir, nonEmpty},
	{KeyAddr, EnvAddr, DefaultAddr, nonEmpty},
	{KeyCompany, EnvCompany, DefaultCompany, nonEmpty},
	{KeyCompanyDomain, EnvCompanyDomain, DefaultCompanyDomain, anyValue},
	{KeyLogLevel, EnvLogLevel, DefaultLogLevel, logLevel},
	{KeyMaxUploadMB, EnvMaxUploadMB, strconv.Itoa(DefaultMaxUploadMB), intRange(1, 1024)},
	{KeyMaxRetries, EnvMaxRetries, strconv.Itoa(DefaultMaxRetries), intRange(0, maxRetriesLimit)},
}

// Keys returns all recognized keys in display order.
func Keys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	return keys
}

// EnvName returns the environment variable backing key, or "".
func EnvName(key string) string {
	for _, s := range settings {
		if s.key == key {
			return s.env
		}
	}
	return ""
}

// DefaultValue returns the default for key, or "".
func DefaultValue(key string) string {
	for _, s := range settings {
		if s.key == key {
			return s.def
		}
	}
	return ""
}

// Validate checks that value is acceptable for key.
func Validate(key, value string) error {
	for _, s := range settings {
		if s.key == key {
			if err := s.kind(value); err != nil {
				return fmt.Errorf("%w for %s: %w", ErrInvalidValue, key, err)
			}
			return nil
		}
	}
	return CheckKey(key)
}

// CheckKey returns ErrUnknownKey unless key is a recognized setting.
func CheckKey(key string) error {
	for _, s := range settings {
		if s.key == key {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/call-summary.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks,
// then defaults. A missing file is not an error.
func Load() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}

	data, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		v := data[s.key]
		if v == "" {
			v = os.Getenv(s.env)
		}
		if v == "" {
			v = s.def
		}
		if err := s.kind(v); err != nil {
			return Config{}, fmt.Errorf("%w for %s: %w", ErrInvalidValue, s.key, err)
		}
		values[s.key] = v
	}

	// Validated above.
	maxUpload, _ := strconv.Atoi(values[KeyMaxUploadMB])
	maxRetries, _ := strconv.Atoi(values[KeyMaxRetries])

	return Config{
		UploadsDir:    ExpandPath(values[KeyUploadsDir]),
		Addr:          values[KeyAddr],
		Company:       values[KeyCompany],
		CompanyDomain: values[KeyCompanyDomain],
		LogLevel:      values[KeyLogLevel],
		MaxUploadMB:   maxUpload,
		MaxRetries:    maxRetries,
	}, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n\r#") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("%w: value must be a single line", ErrInvalidValue)
	}

	p, err := path()
	if err != nil {
		return err
	}

	d := filepath.Dir(p)
	if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file, keys sorted.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// EnsureUploadsDir checks that d can serve as the uploads directory,
// creating it (with parents) if needed.
func EnsureUploadsDir(d string) error {
	if d == "" {
		return fmt.Errorf("uploads-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- uploads dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, d)
	}

	// Check if writable by attempting to create a temp file.
	testFile := filepath.Join(d, ".call-summary-write-test")
	f, err := os.Create(testFile) // #nosec G304 -- path is constructed from validated dir
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotWritable, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(testFile)
		return fmt.Errorf("%w: %w", ErrNotWritable, err)
	}
	_ = os.Remove(testFile)

	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}

// Dir returns the configuration directory path (exported for testing).
func Dir() (string, error) {
	return dir()
}

// ParseFile reads a key=value config file (exported for testing).
func ParseFile(p string) (map[string]string, error) {
	return parseFile(p)
}

// --- value checks ---

func anyValue(string) error { return nil }

func nonEmpty(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func logLevel(v string) error {
	switch strings.ToLower(v) {
	case "debug", "info", "warn", "warning", "error", "disabled", "off":
		return nil
	}
	return fmt.Errorf("%q is not one of debug, info, warn, error, disabled", v)
}

func intRange(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%q is not an integer", v)
		}
		if n < lo || n > hi {
			return fmt.Errorf("%d is out of range [%d, %d]", n, lo, hi)
		}
		return nil
	}
}
