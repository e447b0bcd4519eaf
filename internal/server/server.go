package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"yashubustudio/sentiment/sentiment"
)

// Classifier is the part of *sentiment.Classifier the HTTP surface needs.
type Classifier interface {
	Classify(ctx context.Context, text string) (sentiment.Result, error)
	Explain(ctx context.Context, text string) (sentiment.Explanation, error)
	Signature() sentiment.Signature
}

// Server exposes a Classifier over JSON.
type Server struct {
	classifier Classifier
	maxBatch   int
	clock      func() time.Time
}

// New returns a server; maxBatch <= 0 disables the batch limit.
func New(classifier Classifier, maxBatch int) *Server {
	return &Server{classifier: classifier, maxBatch: maxBatch, clock: time.Now}
}

// ClassifyRequest accepts a single text or a batch.
type ClassifyRequest struct {
	Text    *string  `json:"text,omitempty"`
	Texts   []string `json:"texts,omitempty"`
	Explain bool     `json:"explain,omitempty"`
}

// ClassifyItem is the result for one input text.
type ClassifyItem struct {
	Index      int                    `json:"index"`
	Label      sentiment.Label        `json:"label"`
	Confidence float32                `json:"confidence"`
	Positive   bool                   `json:"positive"`
	Tokens     []string               `json:"tokens,omitempty"`
	Stats      *sentiment.EncodeStats `json:"stats,omitempty"`
	Probs      []float32              `json:"probabilities,omitempty"`
}

// ClassifyResponse is returned by POST /v1/classify.
type ClassifyResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Results []ClassifyItem `json:"results"`
}

// ErrorBody is the error envelope.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// Register mounts the routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/schema", s.handleSchema)
	e.POST("/v1/classify", s.handleClassify)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleSchema(c *echo.Context) error {
	if s.classifier == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "classifier not configured", "")
	}
	sig := s.classifier.Signature()
	return c.JSON(http.StatusOK, map[string]any{
		"object":    "schema",
		"signature": sig,
	})
}

func (s *Server) handleClassify(c *echo.Context) error {
	if s.classifier == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "classifier not configured", "")
	}
	req, err := decodeJSON[ClassifyRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	texts, err := requestTexts(req)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if s.maxBatch > 0 && len(texts) > s.maxBatch {
		return writeBadRequest(c, fmt.Sprintf("at most %d texts per request", s.maxBatch))
	}

	ctx := c.Request().Context()
	items := make([]ClassifyItem, len(texts))
	for i, text := range texts {
		item, err := s.classifyOne(ctx, text, req.Explain)
		if err != nil {
			return writeClassifyError(c, err)
		}
		item.Index = i
		items[i] = item
	}
	return c.JSON(http.StatusOK, ClassifyResponse{
		ID:      "cls-" + uuid.NewString(),
		Object:  "classification",
		Created: s.clock().Unix(),
		Results: items,
	})
}

func (s *Server) classifyOne(ctx context.Context, text string, explain bool) (ClassifyItem, error) {
	if !explain {
		res, err := s.classifier.Classify(ctx, text)
		if err != nil {
			return ClassifyItem{}, err
		}
		return ClassifyItem{Label: res.Label, Confidence: res.Confidence, Positive: res.Positive()}, nil
	}
	ex, err := s.classifier.Explain(ctx, text)
	if err != nil {
		return ClassifyItem{}, err
	}
	stats := ex.Stats
	return ClassifyItem{
		Label:      ex.Result.Label,
		Confidence: ex.Result.Confidence,
		Positive:   ex.Result.Positive(),
		Tokens:     ex.Tokens,
		Stats:      &stats,
		Probs:      ex.Probabilities,
	}, nil
}

func requestTexts(req ClassifyRequest) ([]string, error) {
	switch {
	case req.Text != nil && len(req.Texts) > 0:
		return nil, errors.New("set either text or texts, not both")
	case req.Text != nil:
		return []string{*req.Text}, nil
	case len(req.Texts) > 0:
		return req.Texts, nil
	default:
		return nil, errors.New("text or texts is required")
	}
}

func writeClassifyError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return writeError(c, http.StatusServiceUnavailable, "server_error", err.Error(), "canceled")
	case errors.Is(err, sentiment.ErrContract):
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "contract_violation")
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
	}
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "")
}

func writeError(c *echo.Context, status int, errType, msg, code string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType, Code: code},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, errors.New("request body is empty")
		}
		return out, fmt.Errorf("decode request: %s", strings.TrimSpace(err.Error()))
	}
	return out, nil
}
