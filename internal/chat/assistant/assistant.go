// Package assistant drives the OpenAI tool-calling loop that turns a
// climate question into a grounded answer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atlasgrove/climascope/internal/chat/tool"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
)

const systemPrompt = "You are a climate data assistant. Answer questions using the provided tools, which query " +
	"curated climate datasets: greenhouse gas emissions, surface temperature change, sector and energy emissions, " +
	"country climate ratings, daily CO2 monitoring, projected temperatures, renewable capacity factors, " +
	"deforestation rates and historical weather. Always fetch data through the tools rather than answering from " +
	"memory. Present results in a friendly tone, using bullet points for lists of figures, and include the units " +
	"the data carries. If a tool reports that some requested data isn't available, tell the user what was missing " +
	"and answer with what remains. Never show raw tool errors or JSON to the user."

type Assistant struct {
	cli      openai.Client
	model    shared.ChatModel
	registry *tool.Registry
}

func New(registry *tool.Registry, model shared.ChatModel) *Assistant {
	if model == "" {
		model = openai.ChatModelGPT4_1
	}
	return &Assistant{
		cli:      openai.NewClient(),
		model:    model,
		registry: registry,
	}
}

// Answer runs the tool-calling loop for one question and returns the
// model's final prose reply.
func (a *Assistant) Answer(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", errors.New("empty question")
	}

	slog.InfoContext(ctx, "Answering question", "question", question)

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(question),
	}

	for i := 0; i < 15; i++ {
		resp, err := a.cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    a.model,
			Messages: msgs,
			Tools:    a.registry.Definitions(),
		})

		if err != nil {
			return "", err
		}

		if len(resp.Choices) == 0 {
			return "", errors.New("no choices returned by OpenAI")
		}

		message := resp.Choices[0].Message

		if len(message.ToolCalls) > 0 {
			msgs = append(msgs, message.ToParam())

			for _, call := range message.ToolCalls {
				slog.InfoContext(ctx, "Tool call received",
					"name", call.Function.Name,
					"args", call.Function.Arguments)

				result, err := a.registry.Execute(ctx, call.Function.Name, call.Function.Arguments)
				if err != nil {
					slog.ErrorContext(ctx, "Tool execution failed",
						"tool", call.Function.Name,
						"error", err)
					result = fmt.Sprintf("Tool execution failed: %v", err)
				}

				msgs = append(msgs, openai.ToolMessage(result, call.ID))
			}
			continue
		}

		return message.Content, nil
	}

	return "", errors.New("too many tool calls, unable to generate reply")
}
