package telemetry

import (
	"context"
	"time"

	"github.com/autoshield/autoshield/pkg/domain/telemetry"
	"github.com/sirupsen/logrus"
)

const emitTimeout = 10 * time.Second

// Emitter fans events out to every resolved exporter. Delivery is
// asynchronous and best-effort; a failing exporter is logged and never
// touches the caller.
type Emitter interface {
	Emit(evt telemetry.Event)
	Close()
}

type emitter struct {
	exporters []telemetry.Exporter
	logger    *logrus.Logger
}

func NewEmitter(exporters []telemetry.Exporter, logger *logrus.Logger) Emitter {
	return &emitter{
		exporters: exporters,
		logger:    logger,
	}
}

func (e *emitter) Emit(evt telemetry.Event) {
	for _, exp := range e.exporters {
		go func(exp telemetry.Exporter) {
			ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
			defer cancel()
			if err := exp.Handle(ctx, evt); err != nil {
				e.logger.WithError(err).WithField("exporter", exp.Name()).
					Error("failed to export telemetry event")
			}
		}(exp)
	}
}

func (e *emitter) Close() {
	for _, exp := range e.exporters {
		exp.Close()
	}
}
