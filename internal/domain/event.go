package domain

type EventKind string

const (
	EventStandard EventKind = "standard"
	EventCommerce EventKind = "commerce"
)

type InteractionSource string

const (
	SourceHuman InteractionSource = "human"
	SourceAgent InteractionSource = "agent"
)

// Event is an analytics event before consent metadata is attached.
// Payload is set for standard events, Commerce and Extra for commerce events.
type Event struct {
	Kind     EventKind         `json:"kind"`
	Name     string            `json:"name"`
	Source   InteractionSource `json:"interaction_source"`
	Payload  map[string]any    `json:"payload,omitempty"`
	Commerce map[string]any    `json:"ecommerce,omitempty"`
	Extra    map[string]any    `json:"extra,omitempty"`
}

// Delivery is what a telemetry sink receives.
type Delivery struct {
	Name     string         `json:"name"`
	Kind     EventKind      `json:"kind"`
	Payload  map[string]any `json:"payload,omitempty"`
	Commerce map[string]any `json:"ecommerce,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}
