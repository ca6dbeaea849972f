package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig tunes the circuit breaker in front of the parse service.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// HTTPService is a client for a spaCy-compatible parse service exposing
// POST /parse and GET /models.
type HTTPService struct {
	client  *http.Client
	baseURL string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

type parseRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type wireToken struct {
	I          int    `json:"i"`
	Text       string `json:"text"`
	Lemma      string `json:"lemma"`
	Pos        string `json:"pos"`
	Tag        string `json:"tag"`
	Dep        string `json:"dep"`
	Head       int    `json:"head"`
	SpaceAfter *bool  `json:"space_after,omitempty"`
}

type wireSentence struct {
	Text       string      `json:"text"`
	Tokens     []wireToken `json:"tokens"`
	NounChunks []NounChunk `json:"noun_chunks"`
}

type parseResponse struct {
	Model     string         `json:"model"`
	Sentences []wireSentence `json:"sentences"`
}

type modelsResponse struct {
	Models []string `json:"models"`
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("parse service returned %d: %s", e.Code, e.Body)
}

// NewHTTPService creates a client for the service at baseURL.
func NewHTTPService(baseURL string, timeout time.Duration, cfg BreakerConfig, logger *zap.Logger) *HTTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = "http://127.0.0.1:8080"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s := &HTTPService{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(url, "/"),
		logger:  logger,
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "parse-service",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Client-side mistakes say nothing about the service's health.
			var se *statusError
			if errors.As(err, &se) && se.Code < 500 {
				return true
			}
			return errors.Is(err, context.Canceled)
		},
	})
	return s
}

// Models lists the model names the service can load.
func (s *HTTPService) Models(ctx context.Context) ([]string, error) {
	var out modelsResponse
	if err := s.do(ctx, http.MethodGet, "/models", nil, &out); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return out.Models, nil
}

// Open returns a parser bound to model, after checking the service offers it.
func (s *HTTPService) Open(ctx context.Context, model string) (Parser, error) {
	models, err := s.Models(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(models, model) {
		return nil, fmt.Errorf("%w: %s", ErrParseUnavailable, model)
	}
	return &HTTPParser{service: s, model: model}, nil
}

func (s *HTTPService) do(ctx context.Context, method, path string, body any, out any) error {
	_, err := s.breaker.Execute(func() (any, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		}
		return nil, json.NewDecoder(resp.Body).Decode(out)
	})
	return err
}

// HTTPParser parses text with one model of an HTTPService.
type HTTPParser struct {
	service *HTTPService
	model   string
}

func (p *HTTPParser) Model() string {
	return p.model
}

func (p *HTTPParser) Parse(ctx context.Context, text string) (*Doc, error) {
	var out parseResponse
	if err := p.service.do(ctx, http.MethodPost, "/parse", parseRequest{Text: text, Model: p.model}, &out); err != nil {
		return nil, fmt.Errorf("parse with %s: %w", p.model, err)
	}

	doc := &Doc{Model: p.model}
	if out.Model != "" {
		doc.Model = out.Model
	}
	for _, ws := range out.Sentences {
		tokens := make([]Token, len(ws.Tokens))
		for j, wt := range ws.Tokens {
			tokens[j] = Token{
				Index:        wt.I,
				Text:         wt.Text,
				Lemma:        wt.Lemma,
				Pos:          wt.Pos,
				Tag:          wt.Tag,
				Dep:          wt.Dep,
				Head:         wt.Head,
				NoSpaceAfter: wt.SpaceAfter != nil && !*wt.SpaceAfter,
			}
		}
		doc.Add(ws.Text, tokens, ws.NounChunks)
	}
	return doc, nil
}
