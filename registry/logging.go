package registry

import (
	"go.uber.org/zap"

	"github.com/wippyai/shared"
)

var eventNames = map[EventType]string{
	EventCreated:   "created",
	EventRetained:  "retained",
	EventReleased:  "released",
	EventDestroyed: "destroyed",
	EventUpdated:   "updated",
}

// LogObserver logs handle lifecycle events.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an observer that logs events to l.
// A nil logger falls back to the library logger.
func NewLogObserver(l *zap.Logger) *LogObserver {
	if l == nil {
		l = shared.Logger()
	}
	return &LogObserver{log: l}
}

// OnHandleEvent implements Observer.
func (o *LogObserver) OnHandleEvent(e Event) {
	o.log.Debug("handle lifecycle event",
		zap.String("event", eventNames[e.Type]),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Int("count", e.Count),
	)
}
