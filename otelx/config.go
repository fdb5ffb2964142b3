package otelx

import (
	"io"
)

const (
	ProviderNone   = ""
	ProviderStdout = "stdout"
)

type StdoutConfig struct {
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

type TracerConfig struct {
	ServiceName   string
	Provider      string
	SamplingRatio float64
	Stdout        StdoutConfig
}
