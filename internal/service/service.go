package service

import (
	"github.com/juju/loggo/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-retail-store/internal/ws"
)

var (
	logger = loggo.GetLogger("retail.service")
	tracer = otel.Tracer("go-retail-store/internal/service")
)

// Notifier receives events after the change they describe has committed.
type Notifier interface {
	Notify(event ws.Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(ws.Event) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
