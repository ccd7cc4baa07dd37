// Package tool implements the dataset query tools the model can invoke.
// Each tool wraps one CSV-backed table (or family of tables) in a fixed
// pipeline: filter, time/range resolution, optional resampling and
// aggregation, sorting, truncation, response assembly.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Tool is the contract every dataset tool satisfies. Execute receives the
// raw JSON arguments the model produced and returns a JSON result string;
// it never returns tool-internal failures as errors, only malformed
// argument payloads.
type Tool interface {
	Name() string
	Description() string
	Parameters() openai.FunctionParameters
	Execute(ctx context.Context, arguments string) (string, error)
}

// UnknownFunctionResult is returned when the model requests a tool that
// was never registered. This happens at the registry, not inside a tool.
const UnknownFunctionResult = `{"status":"error","data":["Unknown function requested by the model."]}`

// Registry maps tool names to tools. Built once at startup; lookups are
// misses, not fallthrough branches.
type Registry struct {
	tools map[string]Tool
	order []string

	invocations metric.Int64Counter
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: map[string]Tool{}}
	for _, t := range tools {
		if _, dup := r.tools[t.Name()]; dup {
			panic(fmt.Sprintf("tool registered twice: %s", t.Name()))
		}
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}

	counter, err := otel.Meter("climascope.tools").Int64Counter(
		"tool.invocations",
		metric.WithDescription("Number of tool invocations by name and outcome"),
	)
	if err != nil {
		slog.Warn("Tool invocation counter unavailable", "error", err)
	} else {
		r.invocations = counter
	}
	return r
}

// Definitions renders every registered tool as an OpenAI function tool.
func (r *Registry) Definitions() []openai.ChatCompletionToolUnionParam {
	defs := make([]openai.ChatCompletionToolUnionParam, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  t.Parameters(),
			},
		))
	}
	return defs
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Execute runs the named tool. An unknown name produces the canned error
// result; only malformed arguments surface as an error.
func (r *Registry) Execute(ctx context.Context, name, arguments string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		slog.WarnContext(ctx, "Unknown tool requested", "name", name)
		r.count(ctx, name, "unknown")
		return UnknownFunctionResult, nil
	}

	out, err := t.Execute(ctx, arguments)
	if err != nil {
		r.count(ctx, name, "invalid_arguments")
		return "", fmt.Errorf("executing %s: %w", name, err)
	}
	r.count(ctx, name, "ok")
	return out, nil
}

func (r *Registry) count(ctx context.Context, name, outcome string) {
	if r.invocations == nil {
		return
	}
	r.invocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.outcome", outcome),
	))
}

// respond marshals a tool result for the model.
func respond(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(b), nil
}
