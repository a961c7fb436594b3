package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/planline-ai/event-pipeline/internal/llm"
	"github.com/planline-ai/event-pipeline/pkg/logger"
)

// Runner invokes the external agent with a prompt and returns its raw text
// output. Implementations must respect ctx cancellation.
type Runner interface {
	Run(ctx context.Context, sessionID, prompt string) (string, error)
}

// ExecRunner launches the agent CLI binary. Its stdout is a JSON envelope
// ({"result":{"payloads":[{"text":...}]}}); payload texts are joined into the
// returned output.
type ExecRunner struct {
	bin     string
	timeout time.Duration
	log     *logger.Logger
}

// NewExecRunner creates a subprocess-backed runner.
func NewExecRunner(bin string, timeout time.Duration, log *logger.Logger) *ExecRunner {
	return &ExecRunner{bin: bin, timeout: timeout, log: log}
}

type cliEnvelope struct {
	Result struct {
		Payloads []struct {
			Text string `json:"text"`
		} `json:"payloads"`
	} `json:"result"`
}

// Run executes the agent binary with a bounded timeout.
func (r *ExecRunner) Run(ctx context.Context, sessionID, prompt string) (string, error) {
	// The CLI gets the same timeout; the context adds a small grace period
	// so the process can exit on its own first.
	ctx, cancel := context.WithTimeout(ctx, r.timeout+5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.bin,
		"agent",
		"--session-id", sessionID,
		"--message", prompt,
		"--json",
		"--timeout", strconv.Itoa(int(r.timeout.Seconds())),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.log.Error("agent process failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()),
		)
		return "", fmt.Errorf("run agent: %w", err)
	}

	var envelope cliEnvelope
	if err := json.Unmarshal(stdout.Bytes(), &envelope); err != nil {
		return "", fmt.Errorf("decode agent envelope: %w", err)
	}

	var out bytes.Buffer
	for _, p := range envelope.Result.Payloads {
		if p.Text == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(p.Text)
	}
	return out.String(), nil
}

// LLMRunner drives an LLM provider directly with the same prompts.
type LLMRunner struct {
	client  llm.Client
	timeout time.Duration
}

// completionTemperature keeps extraction output near-deterministic.
const completionTemperature = 0.1

// NewLLMRunner creates an LLM-backed runner.
func NewLLMRunner(client llm.Client, timeout time.Duration) *LLMRunner {
	return &LLMRunner{client: client, timeout: timeout}
}

// Run sends the prompt as a single user turn. The session ID is not used:
// provider APIs are stateless and every prompt carries its full context.
func (r *LLMRunner) Run(ctx context.Context, _ string, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Messages:    []llm.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: completionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}
	return resp.Content, nil
}
