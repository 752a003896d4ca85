package clientcli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUsername is used when a profile does not set a username.
	DefaultUsername = "ownpaste"

	// DefaultProfile is the profile used when neither the caller nor the
	// config file names one.
	DefaultProfile = "default"
)

const (
	settingsSection   = "settings"
	profileSectionPfx = "profile:"
)

// iniOptions keeps values as written: '#' and ';' only start a comment at the
// beginning of a line, and quotes or a trailing backslash are not special.
var iniOptions = ini.LoadOptions{
	InsensitiveKeys:         true,
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// Profile holds the settings of a single named server profile.
type Profile struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

// ConfigFile holds every profile declared in a config file.
type ConfigFile struct {
	DefaultProfile string    `yaml:"default_profile,omitempty"`
	Profiles       []Profile `yaml:"profiles"`
}

// ProfileNames returns a list of all profile names.
func (c *ConfigFile) ProfileNames() []string {
	names := make([]string, len(c.Profiles))
	for i := range c.Profiles {
		names[i] = c.Profiles[i].Name
	}
	return names
}

// ActiveProfileName returns the profile that is used when no explicit name
// is given: the file's default_profile, or DefaultProfile.
func (c *ConfigFile) ActiveProfileName() string {
	if c.DefaultProfile != "" {
		return c.DefaultProfile
	}
	return DefaultProfile
}

// GetProfile returns the profile by name.
// If name is empty, returns the active profile.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.ActiveProfileName()
	}
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// AddProfile adds a new profile. Returns ErrProfileExists if a profile
// with the same name already exists. Use UpdateProfile to modify an existing profile.
func (c *ConfigFile) AddProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
		}
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// UpdateProfile updates an existing profile. Returns ErrProfileNotFound
// if the profile doesn't exist. Use AddProfile to create a new profile.
func (c *ConfigFile) UpdateProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			c.Profiles[i] = p
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, p.Name)
}

// RemoveProfile removes a profile by name.
// Removing the default profile clears the default.
func (c *ConfigFile) RemoveProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			if c.DefaultProfile == name {
				c.DefaultProfile = ""
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// SetDefault sets the default profile by name.
func (c *ConfigFile) SetDefault(name string) error {
	if _, err := c.GetProfile(name); err != nil {
		return err
	}
	c.DefaultProfile = name
	return nil
}

// Resolve picks the active profile and returns its validated Config.
//
// The profile name is, in order: name, the file's default_profile, or
// DefaultProfile. Every failure is a *ConfigError.
func (c *ConfigFile) Resolve(name string) (*Config, error) {
	if name == "" {
		name = c.ActiveProfileName()
	}

	p, err := c.GetProfile(name)
	if err != nil {
		return nil, &ConfigError{Message: "Invalid profile: " + name, Err: err}
	}

	cfg := &Config{
		Profile:  p.Name,
		Username: p.Username,
		Password: p.Password,
		BaseURL:  p.BaseURL,
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the specified path.
// The format is YAML for .yaml/.yml files and INI otherwise. An existing INI
// file is edited in place: comments, other sections and unknown keys are kept.
// Creates the parent directory if it doesn't exist.
func (c *ConfigFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(cleanPath) {
		data, err = yaml.Marshal(c)
	} else {
		var existing []byte
		existing, err = os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided config file
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config file: %w", err)
		}
		data, err = c.marshalINI(existing)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// marshalINI applies c to the INI document in existing, which may be empty.
func (c *ConfigFile) marshalINI(existing []byte) ([]byte, error) {
	f := ini.Empty(iniOptions)
	if len(existing) > 0 {
		var err error
		if f, err = ini.LoadSources(iniOptions, existing); err != nil {
			return nil, err
		}
	}

	if c.DefaultProfile != "" {
		f.Section(settingsSection).Key("default_profile").SetValue(c.DefaultProfile)
	} else if sec, err := f.GetSection(settingsSection); err == nil {
		sec.DeleteKey("default_profile")
	}

	keep := make(map[string]bool, len(c.Profiles))
	for i := range c.Profiles {
		keep[profileSectionPfx+c.Profiles[i].Name] = true
	}
	for _, name := range f.SectionStrings() {
		if strings.HasPrefix(name, profileSectionPfx) && !keep[name] {
			f.DeleteSection(name)
		}
	}

	for i := range c.Profiles {
		p := &c.Profiles[i]
		sec := f.Section(profileSectionPfx + p.Name)
		for _, kv := range [][2]string{
			{"username", p.Username},
			{"password", p.Password},
			{"base_url", p.BaseURL},
		} {
			if kv[1] == "" {
				sec.DeleteKey(kv[0])
				continue
			}
			sec.Key(kv[0]).SetValue(kv[1])
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadConfigFile loads the config file from the specified path.
// A missing or unparsable file is reported as a *ConfigError.
func LoadConfigFile(path string) (*ConfigFile, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided config file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Message: fmt.Sprintf("File not found: %q", path), Err: err}
		}
		return nil, &ConfigError{Message: fmt.Sprintf("read config file: %v", err), Err: err}
	}

	var cfg *ConfigFile
	if isYAML(cleanPath) {
		cfg, err = parseYAML(data)
	} else {
		cfg, err = parseINI(data)
	}
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("parse config file: %v", err), Err: err}
	}
	return cfg, nil
}

func parseYAML(data []byte) (*ConfigFile, error) {
	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseINI(data []byte) (*ConfigFile, error) {
	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, err
	}

	cfg := &ConfigFile{}
	if sec, secErr := f.GetSection(settingsSection); secErr == nil && sec.HasKey("default_profile") {
		cfg.DefaultProfile = sec.Key("default_profile").String()
	}

	for _, sec := range f.Sections() {
		name, ok := strings.CutPrefix(sec.Name(), profileSectionPfx)
		if !ok {
			continue
		}
		cfg.Profiles = append(cfg.Profiles, Profile{
			Name:     name,
			Username: sec.Key("username").String(),
			Password: sec.Key("password").String(),
			BaseURL:  sec.Key("base_url").String(),
		})
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// DefaultConfigPath returns the default config file path (~/.oprc).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".oprc")
}

// Load reads the config file at path and resolves profile into a Config.
// An empty profile selects the file's default profile.
func Load(path, profile string) (*Config, error) {
	file, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return file.Resolve(profile)
}

// Config holds the resolved settings of the active profile.
// This is what the Session uses after profile resolution.
type Config struct {
	Profile  string
	Username string `validate:"required"`
	Password string `validate:"required"`
	BaseURL  string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// configMessages maps a missing field to the message shown to the user.
var configMessages = map[string]string{
	"Username": "You should provide a username!",
	"Password": "You should provide a password!",
	"BaseURL":  "You should provide the base URL of an ownpaste server!",
}

// Validate checks that every required field is set.
// The first missing field is reported as a *ConfigError.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].StructField()
		if msg, ok := configMessages[field]; ok {
			return &ConfigError{Message: msg, Err: err}
		}
		return configErrorf("invalid %s", field)
	}
	return &ConfigError{Message: err.Error(), Err: err}
}

// WithDefaults returns a copy of the config with default values applied.
// The username defaults to DefaultUsername and trailing slashes are
// stripped from the base URL.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg
}
