package configx

import (
	"strings"

	"github.com/spf13/pflag"
)

type (
	OptionModifier func(p *provider)
)

// WithFlags applies every flag that was set on the command line as an
// override. Flag names map to keys by replacing dashes with underscores.
func WithFlags(flags *pflag.FlagSet) OptionModifier {
	return func(p *provider) {
		p.flags = flags
	}
}

func WithValue(key string, value interface{}) OptionModifier {
	return func(p *provider) {
		p.forcedValues[key] = value
	}
}

func WithValues(values map[string]interface{}) OptionModifier {
	return func(p *provider) {
		for key, value := range values {
			p.forcedValues[key] = value
		}
	}
}

func DisableEnvLoading() OptionModifier {
	return func(p *provider) {
		p.disableEnvLoading = true
	}
}

// WithEnvPrefix replaces the default UPLOADZIP_ prefix for env overrides.
func WithEnvPrefix(prefix string) OptionModifier {
	return func(p *provider) {
		p.envPrefix = strings.ToUpper(prefix)
	}
}
