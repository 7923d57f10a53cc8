// Package analytics sends privacy-gated telemetry events.
//
// Every event passes through the consent manager before it reaches a sink.
// Identity and payment fields are stripped first, so nothing personal is
// ever buffered or sent.
package analytics

import (
	"context"
	"maps"

	"github.com/Domenick1991/agentair/internal/consent"
	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/metrics"
)

const (
	ParamConsentStatus     = "consent_status"
	ParamConsentTimestamp  = "consent_timestamp"
	ParamInteractionSource = "interaction_source"
)

// piiKeys never leave the process.
var piiKeys = []string{"name", "passenger_name", "email", "card", "card_number", "expiry", "cvv"}

type Emitter struct {
	consent *consent.Manager
	sink    Sink
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewEmitter installs itself as the manager's flusher so buffered events
// reach sink once consent is granted.
func NewEmitter(mgr *consent.Manager, sink Sink, log logger.Logger, m *metrics.Metrics) *Emitter {
	e := &Emitter{consent: mgr, sink: sink, log: log, metrics: m}
	mgr.SetFlusher(e.deliver)
	return e
}

func (e *Emitter) Emit(ctx context.Context, source domain.InteractionSource, name string, payload map[string]any) {
	e.dispatch(ctx, domain.Event{
		Kind:    domain.EventStandard,
		Name:    name,
		Source:  source,
		Payload: e.strip(name, payload),
	})
}

func (e *Emitter) EmitCommerce(ctx context.Context, source domain.InteractionSource, name string, commerce, extra map[string]any) {
	e.dispatch(ctx, domain.Event{
		Kind:     domain.EventCommerce,
		Name:     name,
		Source:   source,
		Commerce: e.strip(name, commerce),
		Extra:    e.strip(name, extra),
	})
}

func (e *Emitter) dispatch(ctx context.Context, ev domain.Event) {
	e.consent.Send(ctx, ev)
}

// deliver stamps consent metadata at send time. It only runs once
// consent is granted.
func (e *Emitter) deliver(ctx context.Context, ev domain.Event) {
	meta := map[string]any{
		ParamConsentStatus:     string(domain.ConsentGranted),
		ParamInteractionSource: string(ev.Source),
	}
	if ts := e.consent.Timestamp(); ts != "" {
		meta[ParamConsentTimestamp] = ts
	}

	d := domain.Delivery{Name: ev.Name, Kind: ev.Kind}
	if ev.Kind == domain.EventCommerce {
		d.Commerce = ev.Commerce
		d.Extra = merge(ev.Extra, meta)
	} else {
		d.Payload = merge(ev.Payload, meta)
	}

	if err := e.sink.Send(ctx, d); err != nil {
		e.log.Warn("analytics delivery failed", "event", ev.Name, "sink", e.sink.Name(), "error", err)
		e.metrics.SinkError(e.sink.Name())
		return
	}
	e.metrics.Event("sent")
}

func (e *Emitter) strip(event string, in map[string]any) map[string]any {
	out := maps.Clone(in)
	if out == nil {
		return map[string]any{}
	}
	var removed []string
	for _, k := range piiKeys {
		if _, ok := out[k]; ok {
			delete(out, k)
			removed = append(removed, k)
		}
	}
	if len(removed) > 0 {
		e.log.Warn("personal data stripped from analytics event", "event", event, "keys", removed)
		e.metrics.Event("stripped")
	}
	return out
}

func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}
