package telemetry

import "github.com/autoshield/autoshield/pkg/domain/telemetry"

// ExporterLocatorOption configures an ExporterLocator during construction.
type ExporterLocatorOption func(*ExporterLocator)

// WithExporter registers exporter under name, replacing any previous
// registration of that name.
func WithExporter(name string, exporter telemetry.Exporter) ExporterLocatorOption {
	return func(el *ExporterLocator) {
		el.exporters[name] = exporter
	}
}
