package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/autoshield/autoshield/pkg/domain/telemetry"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExporter records handled events and fails on demand.
type stubExporter struct {
	name        string
	validateErr error
	buildErr    error
	built       telemetry.Exporter

	mu      sync.Mutex
	handled []telemetry.Event
}

func (s *stubExporter) Name() string { return s.name }

func (s *stubExporter) ValidateConfig(settings map[string]interface{}) error {
	return s.validateErr
}

func (s *stubExporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	if s.buildErr != nil {
		return nil, s.buildErr
	}
	if s.built != nil {
		return s.built, nil
	}
	return s, nil
}

func (s *stubExporter) Handle(ctx context.Context, evt telemetry.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handled = append(s.handled, evt)
	return nil
}

func (s *stubExporter) Close() {}

func (s *stubExporter) handledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handled)
}

func TestGetExporter_UnknownName(t *testing.T) {
	locator := NewExporterLocator()

	exporter, err := locator.GetExporter(telemetry.ExporterConfig{Name: "syslog"})

	assert.Nil(t, exporter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter: syslog")
}

func TestGetExporter_BuildsFromSettings(t *testing.T) {
	built := &stubExporter{name: "audit-built"}
	locator := NewExporterLocator(
		WithExporter("audit", &stubExporter{name: "audit", built: built}),
	)

	exporter, err := locator.GetExporter(telemetry.ExporterConfig{
		Name:     "audit",
		Settings: map[string]interface{}{"path": "/var/log/audit.jsonl"},
	})

	require.NoError(t, err)
	assert.Same(t, built, exporter)
}

func TestGetExporter_LastRegistrationWins(t *testing.T) {
	stale := &stubExporter{name: "audit", validateErr: errors.New("stale")}
	fresh := &stubExporter{name: "audit"}
	locator := NewExporterLocator(
		WithExporter("audit", stale),
		WithExporter("audit", fresh),
	)

	exporter, err := locator.GetExporter(telemetry.ExporterConfig{Name: "audit"})

	require.NoError(t, err)
	assert.Same(t, fresh, exporter)
}

func TestGetExporter_RejectsBadSettings(t *testing.T) {
	locator := NewExporterLocator(
		WithExporter("audit", &stubExporter{name: "audit", validateErr: errors.New("path is required")}),
	)

	exporter, err := locator.GetExporter(telemetry.ExporterConfig{Name: "audit"})

	assert.Nil(t, exporter)
	assert.EqualError(t, err, "path is required")
}

func TestGetExporter_PropagatesBuildFailure(t *testing.T) {
	locator := NewExporterLocator(
		WithExporter("audit", &stubExporter{name: "audit", buildErr: errors.New("dial failed")}),
	)

	exporter, err := locator.GetExporter(telemetry.ExporterConfig{Name: "audit"})

	assert.Nil(t, exporter)
	assert.EqualError(t, err, "dial failed")
}

func TestValidateExporter(t *testing.T) {
	locator := NewExporterLocator(
		WithExporter("audit", &stubExporter{name: "audit"}),
		WithExporter("strict", &stubExporter{name: "strict", validateErr: errors.New("topic is required")}),
	)

	assert.NoError(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "audit"}))
	assert.EqualError(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "strict"}), "topic is required")

	err := locator.ValidateExporter(telemetry.ExporterConfig{Name: "syslog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter: syslog")
}

func TestResolve_MaterializesConfiguredExporters(t *testing.T) {
	locator := NewExporterLocator(
		WithExporter("audit", &stubExporter{name: "audit"}),
		WithExporter("stream", &stubExporter{name: "stream"}),
	)

	exporters, err := locator.Resolve([]telemetry.ExporterConfig{
		{Name: "audit", Settings: map[string]interface{}{"path": "/var/log/audit.jsonl"}},
		{Name: "stream"},
	})

	require.NoError(t, err)
	assert.Len(t, exporters, 2)
}

func TestResolve_FailsOnFirstUnknownExporter(t *testing.T) {
	locator := NewExporterLocator(
		WithExporter("audit", &stubExporter{name: "audit"}),
	)

	exporters, err := locator.Resolve([]telemetry.ExporterConfig{
		{Name: "audit"},
		{Name: "nope"},
	})

	assert.Nil(t, exporters)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporter nope")
}

func TestEmitter_DeliversToEveryExporter(t *testing.T) {
	first := &stubExporter{name: "first"}
	second := &stubExporter{name: "second"}

	em := NewEmitter([]telemetry.Exporter{first, second}, logrus.New())
	em.Emit(telemetry.NewRunEvent(telemetry.RunEvent{RunID: "run-1", Status: "ok"}))

	assert.Eventually(t, func() bool { return first.handledCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return second.handledCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}
