package dependency

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/secagent/secagent/internal/agent"
	"github.com/secagent/secagent/internal/config"
	"github.com/secagent/secagent/internal/prompts"
	"github.com/secagent/secagent/internal/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Tools.WorkingDir = t.TempDir()
	return &cfg
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.Assistant().(*agent.Agent); !ok {
		t.Errorf("assistant = %T, want *agent.Agent", c.Assistant())
	}
	if c.Registry().Len() != 21 {
		t.Errorf("registry has %d tools", c.Registry().Len())
	}
	if c.Telemetry().Enabled() {
		t.Error("telemetry should be disabled by default")
	}
	if err := c.Close(context.Background()); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNew_TracingDecoratesAgent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.OTLPEndpoint = "http://127.0.0.1:1"

	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := c.Assistant().(*telemetry.TracedAgent); !ok {
		t.Errorf("assistant = %T, want *telemetry.TracedAgent", c.Assistant())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = c.Close(ctx)
}

func TestNew_InvalidSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = "pirate"
	if _, err := New(context.Background(), cfg); err == nil || !strings.Contains(err.Error(), prompts.ErrUnknownMode.Error()) {
		t.Errorf("unknown mode: err = %v", err)
	}

	cfg = testConfig(t)
	cfg.Backend = "grpc"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}
