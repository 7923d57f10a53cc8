// Package tools is the agent-facing tool layer. Every tool has a fixed
// name, a JSON Schema for its arguments and a handler. Calls are decoded,
// validated and dispatched by the Registry, which never panics and never
// returns a Go error: failures come back as error Results.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/metrics"
)

type sourceKey struct{}

// WithSource tags ctx with the actor issuing the call.
func WithSource(ctx context.Context, src domain.InteractionSource) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

// SourceFrom returns the actor on ctx. Untagged calls come from the agent.
func SourceFrom(ctx context.Context) domain.InteractionSource {
	if src, ok := ctx.Value(sourceKey{}).(domain.InteractionSource); ok {
		return src
	}
	return domain.SourceAgent
}

type handler func(ctx context.Context, args json.RawMessage) (any, error)

// Descriptor is the public description of a tool.
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

type tool struct {
	Descriptor
	handle handler
}

// Registry runs one tool call at a time, so a handler's reads and writes
// against the stores are never interleaved with another call's.
type Registry struct {
	mu      sync.Mutex
	tools   []*tool
	byName  map[string]*tool
	log     logger.Logger
	metrics *metrics.Metrics
}

func newRegistry(log logger.Logger, m *metrics.Metrics, tools ...*tool) *Registry {
	r := &Registry{byName: make(map[string]*tool, len(tools)), log: log, metrics: m}
	for _, t := range tools {
		r.tools = append(r.tools, t)
		r.byName[t.Name] = t
	}
	return r
}

// List returns the tools in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.tools))
	for i, t := range r.tools {
		out[i] = t.Descriptor
	}
	return out
}

func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Call dispatches one tool invocation. args may be empty or null for tools
// without required parameters.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (res Result) {
	start := time.Now()
	source := SourceFrom(ctx)

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("tool handler panicked", "tool", name, "panic", p)
			res = errorResult(&Error{Category: CategoryInternal, Message: "internal error"})
		}
		outcome := "ok"
		if res.IsError {
			outcome = res.ErrorInfo.Category
		}
		r.metrics.ToolCall(name, string(source), outcome, time.Since(start).Seconds())
	}()

	t, ok := r.byName[name]
	if !ok {
		return errorResult(notFound(fmt.Sprintf("unknown tool %q", name), nil))
	}

	out, err := r.invoke(ctx, t, args)
	if err != nil {
		te := asError(err)
		r.log.Debug("tool call failed", "tool", name, "source", source, "category", te.Category, "error", te.Message)
		return errorResult(te)
	}
	r.log.Debug("tool call succeeded", "tool", name, "source", source)
	return successResult(out)
}

func (r *Registry) invoke(ctx context.Context, t *tool, args json.RawMessage) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return t.handle(ctx, args)
}

// newTool binds a typed handler. Arguments are decoded into P and checked
// against its validate tags before fn runs.
func newTool[P any](v *validator.Validate, name, description string, fn func(context.Context, P) (any, error)) *tool {
	return &tool{
		Descriptor: Descriptor{
			Name:        name,
			Description: description,
			InputSchema: schemaFor[P](),
		},
		handle: func(ctx context.Context, args json.RawMessage) (any, error) {
			var params P
			if err := decodeArgs(args, &params); err != nil {
				return nil, err
			}
			if err := v.Struct(params); err != nil {
				return nil, describeValidation(err)
			}
			return fn(ctx, params)
		},
	}
}

func decodeArgs(args json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return validationError(fmt.Sprintf("%s must be %s", typeErr.Field, jsonKind(typeErr.Type)))
		}
		if errors.As(err, &typeErr) {
			return validationError("arguments must be a JSON object")
		}
		return validationError("invalid arguments: " + err.Error())
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return validationError(err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return validationError(strings.Join(msgs, "; "))
}
