package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestSpinnerProgress_PlainOutput(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	sink := NewSpinnerProgress(&buf, false)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "compiling", Message: "Compiling Token.sol", Spinner: true})
	sink.Info("Network: local (chain 31337)")
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "submitting", Message: "Deploying Token", Spinner: true})
	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "complete", Message: "Token deployed at 0xabc"})
	sink.Error("[handoff] disk full")

	out := buf.String()
	assert.Contains(t, out, "● Compiling Token.sol\n")
	assert.Contains(t, out, "Network: local (chain 31337)\n")
	assert.Contains(t, out, "✓ Compiling Token.sol (")
	assert.Contains(t, out, "✓ Deploying Token (")
	assert.Contains(t, out, "✓ Token deployed at 0xabc\n")
	assert.Contains(t, out, "[handoff] disk full\n")
}

func TestSpinnerProgress_SettleStageStopsAnimation(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	sink := NewSpinnerProgress(&buf, true)
	ctx := context.Background()

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "connecting", Message: "Connecting to sepolia", Spinner: true})

	sink.OnProgress(ctx, usecase.ProgressEvent{Stage: "connecting", Message: "Connected to sepolia (chain 11155111)"})
	assert.False(t, sink.spinner.Active())
	assert.Contains(t, buf.String(), "✓ Connected to sepolia (chain 11155111)\n")
}
