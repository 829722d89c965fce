// Package router maps free-text chat messages to exactly one named
// destination. Routing is deliberately infallible: every model,
// parsing, or schema failure degrades to the Default destination so a
// malformed model response can never break a chat turn.
package router

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

//go:embed template/router.txt
var routerPromptRaw string

// llmDecision is the raw parse target of the router model's output.
// next_inputs may be an object or a bare string.
type llmDecision struct {
	Destination string          `json:"destination"`
	NextInputs  json.RawMessage `json:"next_inputs"`
}

// IntentRouter issues one structured generation call per message.
// Decisions are not cached; each call is independent.
type IntentRouter struct {
	runner       compose.Runnable[map[string]any, llmDecision]
	destinations string
	known        map[contractx.Destination]struct{}
}

// New compiles the routing graph. knownDestinations is the set the
// model may pick from; destinationCatalog is the "Name: description"
// listing injected into the prompt.
func New(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	destinationCatalog string,
	knownDestinations []contractx.Destination,
) (*IntentRouter, error) {
	if strings.TrimSpace(destinationCatalog) == "" {
		return nil, fmt.Errorf("%w: destination catalog is empty", contractx.ErrValidation)
	}

	runner, err := compileRouterGraph(ctx, chatModel)
	if err != nil {
		return nil, err
	}

	known := make(map[contractx.Destination]struct{}, len(knownDestinations))
	for _, d := range knownDestinations {
		known[d] = struct{}{}
	}

	return &IntentRouter{
		runner:       runner,
		destinations: destinationCatalog,
		known:        known,
	}, nil
}

// Route classifies message. The returned decision always names either a
// known destination or Default; it never reports an error.
func (r *IntentRouter) Route(ctx context.Context, message string) contractx.RouterDecision {
	fallback := contractx.RouterDecision{
		Destination: contractx.DestinationDefault,
		Inputs:      map[string]string{"input": message},
	}

	out, err := r.runner.Invoke(ctx, map[string]any{
		"input":        message,
		"destinations": r.destinations,
	})
	if err != nil {
		log.Warn().Err(fmt.Errorf("%w: %v", contractx.ErrRoutingFailure, err)).
			Str("message", message).
			Msg("router output unparseable, falling back to Default")
		return fallback
	}

	dest := contractx.Destination(strings.TrimSpace(out.Destination))
	if strings.EqualFold(string(dest), "default") {
		return fallback
	}
	if _, ok := r.known[dest]; !ok {
		log.Warn().
			Str("destination", string(dest)).
			Str("message", message).
			Msg("router picked unknown destination, falling back to Default")
		return fallback
	}

	return contractx.RouterDecision{
		Destination: dest,
		Inputs:      normalizeInputs(out.NextInputs, message),
	}
}

// normalizeInputs coerces next_inputs into a string map and guarantees
// an "input" key.
func normalizeInputs(raw json.RawMessage, message string) map[string]string {
	inputs := map[string]string{}

	if len(raw) > 0 {
		var asMap map[string]any
		var asString string
		if err := json.Unmarshal(raw, &asMap); err == nil {
			for k, v := range asMap {
				inputs[k] = fmt.Sprint(v)
			}
		} else if err := json.Unmarshal(raw, &asString); err == nil {
			inputs["input"] = asString
		}
	}

	if strings.TrimSpace(inputs["input"]) == "" {
		inputs["input"] = message
	}
	return inputs
}

func compileRouterGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[map[string]any, llmDecision], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(strings.TrimSpace(routerPromptRaw)),
	)

	parser := schema.NewMessageJSONParser[llmDecision](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, llmDecision]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add router prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add router model node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_json", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add router parser node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add router edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add router edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "parse_json"); err != nil {
		return nil, fmt.Errorf("add router edge model->parse: %w", err)
	}
	if err := graph.AddEdge("parse_json", compose.END); err != nil {
		return nil, fmt.Errorf("add router edge parse->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("router.decision_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}
