package telemetry

import (
	"fmt"

	"github.com/autoshield/autoshield/pkg/domain/telemetry"
)

type ExporterLocator struct {
	exporters map[string]telemetry.Exporter
}

func NewExporterLocator(opts ...ExporterLocatorOption) *ExporterLocator {
	el := &ExporterLocator{
		exporters: make(map[string]telemetry.Exporter),
	}
	for _, opt := range opts {
		opt(el)
	}
	return el
}

func (p *ExporterLocator) GetExporter(cfg telemetry.ExporterConfig) (telemetry.Exporter, error) {
	base, ok := p.exporters[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("unknown exporter: %s", cfg.Name)
	}
	if err := base.ValidateConfig(cfg.Settings); err != nil {
		return nil, err
	}
	exporter, err := base.WithSettings(cfg.Settings)
	if err != nil {
		return nil, err
	}
	return exporter, nil
}

func (p *ExporterLocator) ValidateExporter(cfg telemetry.ExporterConfig) error {
	base, ok := p.exporters[cfg.Name]
	if !ok {
		return fmt.Errorf("unknown exporter: %s", cfg.Name)
	}
	return base.ValidateConfig(cfg.Settings)
}

// Resolve materializes every configured exporter or fails on the first
// misconfigured one.
func (p *ExporterLocator) Resolve(configs []telemetry.ExporterConfig) ([]telemetry.Exporter, error) {
	exporters := make([]telemetry.Exporter, 0, len(configs))
	for _, cfg := range configs {
		exporter, err := p.GetExporter(cfg)
		if err != nil {
			return nil, fmt.Errorf("exporter %s: %w", cfg.Name, err)
		}
		exporters = append(exporters, exporter)
	}
	return exporters, nil
}
