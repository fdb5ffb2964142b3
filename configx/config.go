package configx

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/spf13/pflag"

	"github.com/mab1k/tests-upload-zip-files/errorx"
)

const (
	KeyTestFiles           = "test_files"
	KeyUploadURL           = "upload_url"
	KeyExpectedExtension   = "expected_extension"
	KeyZipFileDirectory    = "zip_file_directory"
	KeyUploadTimeout       = "upload_timeout"
	KeyLogLevel            = "log_level"
	KeyLogFormat           = "log_format"
	KeyInsecureSkipVerify  = "insecure_skip_verify"
	KeyTracerProvider      = "tracer_provider"
	KeyTracerSamplingRatio = "tracer_sampling_ratio"
	KeyTracerPretty        = "tracer_pretty"

	// EnvConfigPath names the variable that points at the config file.
	EnvConfigPath     = "UPLOADZIP_CONFIG"
	DefaultConfigPath = "config.json"
	DefaultEnvPrefix  = "UPLOADZIP_"

	DefaultUploadTimeout = 60 * time.Second
)

var requiredKeys = []string{
	KeyTestFiles,
	KeyUploadURL,
	KeyExpectedExtension,
	KeyZipFileDirectory,
}

// Config is read once per run and never mutated afterwards.
type Config struct {
	testFiles []string

	UploadURL          string
	ExpectedExtension  string
	ZipFileDirectory   string
	UploadTimeout      time.Duration
	InsecureSkipVerify bool
	LogLevel           string
	LogFormat          string

	// TracerProvider is empty for no tracing or "stdout". A zero
	// TracerSamplingRatio samples every trace.
	TracerProvider      string
	TracerSamplingRatio float64
	TracerPretty        bool
}

// TestFiles returns a copy of the configured file names, in order.
func (c Config) TestFiles() []string {
	return slices.Clone(c.testFiles)
}

type provider struct {
	flags             *pflag.FlagSet
	forcedValues      map[string]interface{}
	disableEnvLoading bool
	envPrefix         string
}

// PathFromEnv returns the config path named by UPLOADZIP_CONFIG, or config.json.
func PathFromEnv() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Load reads the config file at path. A missing or malformed file, or any
// missing required key, is a setup error; missing keys are reported together.
func Load(path string, opts ...OptionModifier) (Config, error) {
	p := &provider{
		forcedValues: map[string]interface{}{},
		envPrefix:    DefaultEnvPrefix,
	}
	for _, o := range opts {
		o(p)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return Config{}, errorx.WrapSetup(err, "could not load config file %q", path)
	}

	if !p.disableEnvLoading {
		prefix := p.envPrefix
		err := k.Load(env.Provider(prefix, ".", func(s string) string {
			key := strings.ToLower(strings.TrimPrefix(s, prefix))
			if key == KeyTestFiles {
				// lists are only read from the file or from flags
				return ""
			}
			return key
		}), nil)
		if err != nil {
			return Config{}, errorx.WrapSetup(err, "could not load config from environment")
		}
	}

	overrides := flagValues(p.flags)
	for key, value := range p.forcedValues {
		overrides[key] = value
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return Config{}, errorx.WrapSetup(err, "could not apply config overrides")
		}
	}

	var missing []*errorx.Error
	for _, key := range requiredKeys {
		if !k.Exists(key) {
			missing = append(missing, errorx.SetupErrorf("%s", key))
		}
	}
	if len(missing) > 0 {
		return Config{}, errorx.SetupErrorf("config file %q is missing required keys", path).WithDetails(missing...)
	}

	c := Config{
		testFiles:         k.Strings(KeyTestFiles),
		UploadURL:         k.String(KeyUploadURL),
		ExpectedExtension: k.String(KeyExpectedExtension),
		ZipFileDirectory:  k.String(KeyZipFileDirectory),
		UploadTimeout:     DefaultUploadTimeout,
		LogLevel:          "info",
		LogFormat:         "text",
	}
	if k.Exists(KeyUploadTimeout) {
		d, err := durationValue(k.Get(KeyUploadTimeout))
		if err != nil {
			return Config{}, errorx.WrapSetup(err, "invalid %s", KeyUploadTimeout)
		}
		c.UploadTimeout = d
	}
	if v := k.String(KeyLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := k.String(KeyLogFormat); v != "" {
		c.LogFormat = v
	}
	c.InsecureSkipVerify = k.Bool(KeyInsecureSkipVerify)
	c.TracerProvider = k.String(KeyTracerProvider)
	c.TracerPretty = k.Bool(KeyTracerPretty)
	if k.Exists(KeyTracerSamplingRatio) {
		ratio := k.Float64(KeyTracerSamplingRatio)
		if ratio < 0 || ratio > 1 {
			return Config{}, errorx.SetupErrorf("invalid %s %v, expected a value between 0 and 1", KeyTracerSamplingRatio, k.Get(KeyTracerSamplingRatio))
		}
		c.TracerSamplingRatio = ratio
	}

	return c, nil
}

// durationValue accepts Go duration strings and plain numbers of seconds.
func durationValue(v interface{}) (time.Duration, error) {
	switch t := v.(type) {
	case time.Duration:
		return t, nil
	case string:
		return time.ParseDuration(strings.TrimSpace(t))
	case float64:
		return time.Duration(t * float64(time.Second)), nil
	case int:
		return time.Duration(t) * time.Second, nil
	case int64:
		return time.Duration(t) * time.Second, nil
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".toml":
		return toml.Parser()
	default:
		return json.Parser()
	}
}

func flagValues(flags *pflag.FlagSet) map[string]interface{} {
	values := map[string]interface{}{}
	if flags == nil {
		return values
	}
	flags.Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		switch f.Value.Type() {
		case "stringSlice":
			if v, err := flags.GetStringSlice(f.Name); err == nil {
				values[key] = v
			}
		case "duration":
			if v, err := flags.GetDuration(f.Name); err == nil {
				values[key] = v
			}
		default:
			values[key] = f.Value.String()
		}
	})
	return values
}
