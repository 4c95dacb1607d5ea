package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "TURTLYSCOPE_"

// Load reads settings from path, applies environment overrides and
// validates the result. An empty path loads only defaults and environment.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		if err := s.decodeFile(path); err != nil {
			return Settings{}, err
		}
	}
	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = s.decodeTOML(data)
	case ".yaml", ".yml":
		err = s.decodeYAML(data)
	default:
		return tserrors.New(tserrors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

// decodeTOML rejects keys that do not map to a field.
func (s *Settings) decodeTOML(data []byte) error {
	md, err := toml.Decode(string(data), s)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func (s *Settings) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// =============================================================================
// Environment
// =============================================================================

type envBinding struct {
	name string
	set  func(s *Settings, v string) error
}

var envBindings = []envBinding{
	{"APP_NAME", func(s *Settings, v string) error { s.AppName = v; return nil }},
	{"DEBUG", boolVar(func(s *Settings) *bool { return &s.Debug })},
	{"MAX_INPUT_BYTES", intVar(func(s *Settings) *int { return &s.MaxInputBytes })},
	{"LITERALS", func(s *Settings, v string) error { s.Graph.Literals = v; return nil }},
	{"DEFAULT_PREFIXES", boolVar(func(s *Settings) *bool { return &s.Graph.DefaultPrefixes })},
	{"MAX_LABEL_LENGTH", intVar(func(s *Settings) *int { return &s.Graph.MaxLabelLength })},
	{"ITERATIONS", intVar(func(s *Settings) *int { return &s.Layout.Iterations })},
	{"SEED", func(s *Settings, v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		s.Layout.Seed = n
		return err
	}},
	{"COMMUNITY", func(s *Settings, v string) error { s.Layout.Community = v; return nil }},
	{"MAX_NODES", intVar(func(s *Settings) *int { return &s.Layout.MaxNodes })},
	{"MAX_EDGES", intVar(func(s *Settings) *int { return &s.Layout.MaxEdges })},
	{"THEME_BGCOLOR", func(s *Settings, v string) error { s.Theme.Background = v; return nil }},
	{"THEME_FONTCOLOR", func(s *Settings, v string) error { s.Theme.Font = v; return nil }},
	{"ADDR", func(s *Settings, v string) error { s.Server.Addr = v; return nil }},
	{"CORS_ORIGINS", func(s *Settings, v string) error { s.Server.CORSOrigins = splitList(v); return nil }},
	{"ALLOWED_HOSTS", func(s *Settings, v string) error { s.Server.AllowedHosts = splitList(v); return nil }},
	{"REQUEST_TIMEOUT", func(s *Settings, v string) error {
		d, err := time.ParseDuration(v)
		s.Server.RequestTimeout = d
		return err
	}},
	{"CACHE_BACKEND", func(s *Settings, v string) error { s.Cache.Backend = v; return nil }},
	{"CACHE_DIR", func(s *Settings, v string) error { s.Cache.Dir = v; return nil }},
	{"REDIS_ADDR", func(s *Settings, v string) error { s.Cache.RedisAddr = v; return nil }},
	{"REDIS_PASSWORD", func(s *Settings, v string) error { s.Cache.RedisPassword = v; return nil }},
	{"REDIS_DB", intVar(func(s *Settings) *int { return &s.Cache.RedisDB })},
	{"MONGO_URI", func(s *Settings, v string) error { s.Cache.MongoURI = v; return nil }},
	{"MONGO_DATABASE", func(s *Settings, v string) error { s.Cache.MongoDatabase = v; return nil }},
}

// ApplyEnv overlays TURTLYSCOPE_* variables found by lookup.
// Pass os.LookupEnv for the process environment.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		if err := b.set(s, strings.TrimSpace(v)); err != nil {
			return tserrors.Wrap(tserrors.ErrCodeInvalidConfig, err, "invalid %s%s", EnvPrefix, b.name)
		}
	}
	return nil
}

// EnvNames lists every recognized environment variable.
func EnvNames() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = EnvPrefix + b.name
	}
	return names
}

func boolVar(field func(*Settings) *bool) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		*field(s) = b
		return err
	}
}

func intVar(field func(*Settings) *int) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		*field(s) = n
		return err
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// =============================================================================
// Validation
// =============================================================================

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		// The tag name is constant, so registration cannot fail.
		_ = validate.RegisterValidation("hostpattern", validHostPattern)
	})
	return validate
}

// validHostPattern accepts "*", a host name or IP, or "*." followed by a
// host name.
func validHostPattern(fl validator.FieldLevel) bool {
	h := fl.Field().String()
	if h == "*" {
		return true
	}
	h = strings.TrimPrefix(h, "*.")
	return validate.Var(h, "hostname_rfc1123|ip") == nil
}

// Validate checks field constraints. Failures are INVALID_CONFIG errors
// naming every offending field.
func (s Settings) Validate() error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return tserrors.Wrap(tserrors.ErrCodeInvalidConfig, err, "validate settings")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fieldMessage(fe)
	}
	return tserrors.New(tserrors.ErrCodeInvalidConfig, "invalid settings: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	// Namespace is "Settings.server.addr"; drop the root type.
	_, field, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color, got %q", field, fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", field, fe.Value())
	case "hostpattern":
		return fmt.Sprintf("%s must be a host name, IP, *.domain or *, got %q", field, fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %q", field, fe.Tag())
}
