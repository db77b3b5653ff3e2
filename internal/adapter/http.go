package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-quote-sync/internal/config"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

const (
	pushPath = "/api/records/push"
	pullPath = "/api/records/pull"
)

type httpGateway struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPGateway constructs a [Gateway] talking to the reference server.
// It resolves the base URL from cfg.HTTPAddress and applies the configured
// request timeout, so a stuck server cannot hold a sync cycle forever.
func NewHTTPGateway(cfg config.ClientAdapter, appVersion string, log *logger.Logger) (Gateway, error) {
	if cfg.HTTPAddress == "" {
		return nil, fmt.Errorf("invalid adapter http address: empty address")
	}

	client := utils.NewHTTPClient(utils.HTTPClientOptions{
		BaseURL:    cfg.BaseURL(),
		Timeout:    cfg.RequestTimeout,
		RetryCount: cfg.RetryCount,
		UserAgent:  "go-quote-sync/" + appVersion,
	})

	return &httpGateway{client: client, logger: log}, nil
}

// Push implements [Gateway]. It sets req.Length, signs the encoded body
// with [utils.BodyHash] and POSTs it to /api/records/push.
func (h *httpGateway) Push(ctx context.Context, req models.PushRequest) error {
	req.Length = len(req.Records)

	body, err := json.Marshal(req)
	if err != nil {
		return gatewayError("push", fmt.Errorf("encode push request: %w", err))
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(utils.ContentHashHeader, utils.BodyHash(body)).
		SetBody(body).
		Post(pushPath)
	if err != nil {
		h.logger.Err(err).Str("func", "httpGateway.Push").Msg("push request failed")
		return gatewayError("push", fmt.Errorf("push request: %w", err))
	}

	if err = mapHTTPError(resp); err != nil {
		h.logger.Err(err).
			Str("func", "httpGateway.Push").
			Int("status", resp.StatusCode()).
			Msg("push rejected")
		return gatewayError("push", err)
	}
	return nil
}

// Pull implements [Gateway]. It GETs /api/records/pull and decodes the
// snapshot.
func (h *httpGateway) Pull(ctx context.Context) (models.Snapshot, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(pullPath)
	if err != nil {
		h.logger.Err(err).Str("func", "httpGateway.Pull").Msg("pull request failed")
		return models.Snapshot{}, gatewayError("pull", fmt.Errorf("pull request: %w", err))
	}

	if err = mapHTTPError(resp); err != nil {
		h.logger.Err(err).
			Str("func", "httpGateway.Pull").
			Int("status", resp.StatusCode()).
			Msg("pull rejected")
		return models.Snapshot{}, gatewayError("pull", err)
	}

	var snapshot models.Snapshot
	if err = json.Unmarshal(resp.Body(), &snapshot); err != nil {
		return models.Snapshot{}, gatewayError("pull", fmt.Errorf("%w: %w", ErrMalformedResponse, err))
	}
	return snapshot, nil
}
