package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"agri_advisor/internal/domain"
	"agri_advisor/internal/farmapi"
)

const (
	MsgLoginRequired      = "Please login to get a recommendation."
	MsgUnauthorized       = "Unauthorized. Please login again."
	MsgUnexpectedResponse = "unexpected response from recommendation service"
)

// Transport performs a single HTTP exchange.
type Transport interface {
	Do(ctx context.Context, method, path, token string, body any) (*farmapi.Response, error)
}

// TokenSource provides the current credential.
type TokenSource interface {
	Token() string
}

// Session submits recommendation requests on behalf of the signed-in user.
type Session struct {
	tokens    TokenSource
	transport Transport
	logger    *slog.Logger
}

func NewSession(tokens TokenSource, transport Transport, logger *slog.Logger) *Session {
	return &Session{
		tokens:    tokens,
		transport: transport,
		logger:    logger.With("component", "recommend"),
	}
}

// Submit validates req, then sends it exactly once. Validation and missing
// credentials fail without touching the network.
func (s *Session) Submit(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResult, error) {
	if fields := req.Validate(); fields != nil {
		return nil, domain.NewValidationError(fields)
	}

	token := s.tokens.Token()
	if token == "" {
		return nil, domain.NewUnauthenticated(MsgLoginRequired)
	}

	resp, err := s.transport.Do(ctx, http.MethodPost, farmapi.RecommendPath, token, req)
	if err != nil {
		s.logger.Warn("recommendation request failed", "error", err)
		if domain.KindOf(err) == "" {
			return nil, domain.NewNetworkError(err)
		}
		return nil, err
	}

	result, err := Classify(resp)
	if err != nil {
		s.logger.Info("recommendation rejected",
			"status", resp.StatusCode,
			"kind", domain.KindOf(err),
		)
		return nil, err
	}

	s.logger.Debug("recommendation received", "fertilizer", result.Fertilizer)
	return result, nil
}

// Classify turns a recommendation response into a result or a typed error.
func Classify(resp *farmapi.Response) (*domain.RecommendationResult, error) {
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.NewUnauthorized(MsgUnauthorized)
	}

	if !resp.OK() {
		return nil, domain.NewRequestFailed(resp.StatusCode, failureMessage(resp))
	}

	if !resp.IsJSON() {
		return nil, domain.NewRequestFailed(resp.StatusCode, MsgUnexpectedResponse)
	}

	var result domain.RecommendationResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, &domain.Error{
			Kind:    domain.KindRequestFailed,
			Status:  resp.StatusCode,
			Message: MsgUnexpectedResponse,
			Err:     fmt.Errorf("decode recommendation: %w", err),
		}
	}
	return &result, nil
}

func failureMessage(resp *farmapi.Response) string {
	generic := fmt.Sprintf("Request failed (%d)", resp.StatusCode)
	if resp.IsJSON() {
		return farmapi.DetailMessage(resp, generic)
	}
	if len(resp.Body) > 0 {
		return string(resp.Body)
	}
	return generic
}
