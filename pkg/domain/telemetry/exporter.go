package telemetry

import (
	"context"
)

// Exporter is a telemetry sink. A registered exporter acts as a prototype:
// WithSettings builds the configured instance that Handle is then called on.
type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	Handle(ctx context.Context, evt Event) error
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Close()
}

// ExporterConfig selects and configures one exporter by name.
type ExporterConfig struct {
	Name     string                 `json:"name" mapstructure:"name"`
	Settings map[string]interface{} `json:"settings" mapstructure:"settings"`
}
