package agent

import (
	"context"
	"testing"
	"time"

	"github.com/planline-ai/event-pipeline/internal/llm"
)

type fakeLLM struct {
	lastReq *llm.CompletionRequest
	reply   string
}

func (f *fakeLLM) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	return &llm.CompletionResponse{Content: f.reply}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func TestLLMRunnerSendsSingleUserTurn(t *testing.T) {
	client := &fakeLLM{reply: "[]"}
	r := NewLLMRunner(client, time.Second)

	out, err := r.Run(context.Background(), "session-1", "текст запроса")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[]" {
		t.Errorf("output = %q, want the raw completion", out)
	}

	req := client.lastReq
	if req == nil {
		t.Fatal("no completion request sent")
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v, want one user turn", req.Messages)
	}
	if req.Messages[0].Content != "текст запроса" {
		t.Errorf("content = %q", req.Messages[0].Content)
	}
	if req.Temperature != completionTemperature {
		t.Errorf("temperature = %v, want %v", req.Temperature, completionTemperature)
	}
}
