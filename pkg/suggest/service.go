package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Service asks a Generator for suggestions, degrading to an empty list when
// the generator fails.
type Service struct {
	generator Generator
	logger    *slog.Logger
	count     int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used to report degraded answers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCount sets how many suggestions are asked for.
func WithCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.count = n
		}
	}
}

// NewService creates a Service. A nil generator disables suggestions: every
// call returns an empty list.
func NewService(generator Generator, opts ...Option) *Service {
	s := &Service{
		generator: generator,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		count:     DefaultCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest returns search suggestions for query. Only an unknown user type is
// reported as an error; every other failure yields an empty list.
func (s *Service) Suggest(ctx context.Context, query string, userType UserType) ([]string, error) {
	if _, err := ParseUserType(string(userType)); err != nil {
		return nil, err
	}

	if s.generator == nil {
		s.logger.Warn("suggestions disabled: no generator configured")
		return []string{}, nil
	}

	prompt, err := RenderPrompt(Request{Query: query, UserType: userType}, s.count)
	if err != nil {
		s.logger.Error("failed to build suggestion prompt", "error", err)
		return []string{}, nil
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("failed to generate suggestions", "error", err)
		return []string{}, nil
	}

	suggestions, err := ParseResponse(raw)
	if err != nil {
		s.logger.Error("failed to parse suggestions", "error", err)
		return []string{}, nil
	}
	s.logger.Debug("suggestions generated", "user_type", userType, "count", len(suggestions))
	return suggestions, nil
}

// ParseResponse reads a model answer, either {"suggestions": [...]} or a bare
// array of strings. Blank suggestions are dropped.
func ParseResponse(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var list []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("failed to decode suggestions: %w", err)
		}
	} else {
		var resp Response
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			return nil, fmt.Errorf("failed to decode suggestions: %w", err)
		}
		list = resp.Suggestions
	}

	out := []string{}
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
