package module

import (
	"context"

	gedom "eventscope/internal/services/api/groupevents/domain"
	gesvc "eventscope/internal/services/api/groupevents/service"
)

// Ports exposes the service to other modules as a domain.ServicePort
func (m *Module) Ports() any { return adaptGroupEventsPort{svc: m.svc} }

// adaptGroupEventsPort adapts the service to the domain port interface
type adaptGroupEventsPort struct{ svc gesvc.Service }

var _ gedom.ServicePort = adaptGroupEventsPort{}

// List implements the domain ServicePort interface
func (a adaptGroupEventsPort) List(ctx context.Context, in gedom.ListInput, v gedom.Viewer) (gedom.ListResult, error) {
	return a.svc.List(ctx, in, v)
}

// Detail implements the domain ServicePort interface
func (a adaptGroupEventsPort) Detail(ctx context.Context, in gedom.DetailInput, v gedom.Viewer) (*gedom.EventDetail, error) {
	return a.svc.Detail(ctx, in, v)
}
