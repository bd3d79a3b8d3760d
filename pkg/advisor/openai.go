package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	adviceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gradebook",
		Subsystem: "advisor",
		Name:      "request_duration_seconds",
		Help:      "Duration of study-advice generation requests",
	}, []string{"model"})

	adviceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradebook",
		Subsystem: "advisor",
		Name:      "request_failures_total",
		Help:      "Number of failed study-advice generation requests",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI advisor.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIAdvisor generates study advice via the OpenAI chat completion API.
type OpenAIAdvisor struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIAdvisor builds an advisor using the provided configuration.
func NewOpenAIAdvisor(cfg OpenAIConfig) (*OpenAIAdvisor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIAdvisor{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/gradebook-api/pkg/advisor/openai"),
		logger: logger,
	}, nil
}

// Advise asks the model for a short, encouraging advice paragraph.
func (a *OpenAIAdvisor) Advise(parent context.Context, input AdviceInput) (string, error) {
	ctx, span := a.tracer.Start(parent, "openai.advise", trace.WithAttributes(
		attribute.String("model", a.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a supportive academic advisor. Write one short paragraph of concrete study advice for the student described. Plain text, no lists, no headings.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildAdvicePrompt(input),
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	adviceDuration.WithLabelValues(a.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		adviceFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai advise: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		adviceFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildAdvicePrompt(input AdviceInput) string {
	builder := strings.Builder{}
	fmt.Fprintf(&builder, "Student: %s\nTerm: %d\nAverage: %.2f (%s)\n", input.StudentName, input.Term, input.Average, input.Classification)
	if len(input.WeakSubjects) > 0 {
		builder.WriteString("Needs work:\n")
		for _, subject := range input.WeakSubjects {
			fmt.Fprintf(&builder, "- %s: %.1f\n", subject.DisplayName, subject.Score)
		}
	}
	if len(input.StrongSubjects) > 0 {
		builder.WriteString("Strengths:\n")
		for _, subject := range input.StrongSubjects {
			fmt.Fprintf(&builder, "- %s: %.1f\n", subject.DisplayName, subject.Score)
		}
	}
	return builder.String()
}
