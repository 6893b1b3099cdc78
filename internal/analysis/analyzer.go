package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/heatwatch/heatwatch/internal/logger"
)

// DefaultPrompt is the anomaly-detection instruction sent alongside each plot.
const DefaultPrompt = "Detect and rank sensors that show anomalous readings or patterns compared to normal operational ranges in the Waste Heat Recovery System datasets. Focus on statistical outliers, sudden spikes or drops, and values that correlate with event alerts or warnings. Highlight the sensors most likely responsible for process deviations or abnormal events."

const systemPrompt = `You are an industrial process monitoring analyst reviewing dashboards for a Waste Heat Recovery System. You are shown a multi-panel plot of recent sensor readings and event values. Ground every observation in what is visible on the plot, name the panels and sensors you refer to, and keep the analysis concise and actionable.`

// Result holds the outcome of one vision analysis call.
type Result struct {
	// Text is the model's anomaly analysis.
	Text string
	// InputTokens and OutputTokens are the usage for this single call.
	InputTokens  int64
	OutputTokens int64
}

// VisionAnalyzer sends rendered plot images to Claude for anomaly analysis.
type VisionAnalyzer struct {
	client    *Client
	prompt    string
	maxTokens int64
	log       logger.Logger
}

// AnalyzerOption configures a VisionAnalyzer.
type AnalyzerOption func(*VisionAnalyzer)

// WithPrompt overrides the default anomaly-detection prompt.
func WithPrompt(prompt string) AnalyzerOption {
	return func(a *VisionAnalyzer) {
		if prompt != "" {
			a.prompt = prompt
		}
	}
}

// WithMaxTokens sets the response token cap for each analysis call.
func WithMaxTokens(n int64) AnalyzerOption {
	return func(a *VisionAnalyzer) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithLogger sets the logger used for call diagnostics.
func WithLogger(log logger.Logger) AnalyzerOption {
	return func(a *VisionAnalyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// NewVisionAnalyzer creates an analyzer bound to an API client.
func NewVisionAnalyzer(client *Client, opts ...AnalyzerOption) *VisionAnalyzer {
	a := &VisionAnalyzer{
		client:    client,
		prompt:    DefaultPrompt,
		maxTokens: 1024,
		log:       logger.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze sends the PNG plot to the model and returns its anomaly analysis.
// The image travels base64-encoded in a single vision message.
func (a *VisionAnalyzer) Analyze(ctx context.Context, png []byte) (Result, error) {
	if len(png) == 0 {
		return Result{}, fmt.Errorf("analyze: empty plot image")
	}

	encoded := base64.StdEncoding.EncodeToString(png)
	a.log.Debug("analysis: sending plot to %s (%d image bytes)", a.client.Model(), len(png))

	resp, err := a.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.client.Model(),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/png", encoded),
				anthropic.NewTextBlock(a.prompt),
			),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("analysis request failed: %w", err)
	}

	a.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(variant.Text)
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return Result{}, fmt.Errorf("analysis response contained no text")
	}

	a.log.Debug("analysis: received %d output tokens", resp.Usage.OutputTokens)

	return Result{
		Text:         out,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
