// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-quote-sync/internal/config"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

const (
	postsPath = "/posts"

	// placeholderPullLimit is how many posts become quotes on a pull.
	placeholderPullLimit = 8
	// placeholderPushLimit is how many records a push turns into posts.
	placeholderPushLimit = 3
	// placeholderIDOffset keeps post ids clear of locally minted ids.
	placeholderIDOffset = 1000
	placeholderUserID   = 1
)

var placeholderCategories = []string{
	"Inspiration",
	"Life",
	"Motivation",
	"Wisdom",
	"Success",
	"Philosophy",
	"Knowledge",
}

// placeholderEpoch stamps every pulled quote. The posts API has no
// modification times, so a fixed instant keeps repeated pulls stable and
// never newer than a local edit.
var placeholderEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type post struct {
	ID     int    `json:"id,omitempty"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type placeholderGateway struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewPlaceholderGateway constructs a [Gateway] over a JSONPlaceholder-style
// posts API. Pushes are accepted but not stored by such APIs, so pushed
// records never show up in later pulls.
func NewPlaceholderGateway(cfg config.ClientAdapter, log *logger.Logger) Gateway {
	client := utils.NewHTTPClient(utils.HTTPClientOptions{
		BaseURL:    cfg.PlaceholderURL,
		Timeout:    cfg.RequestTimeout,
		RetryCount: cfg.RetryCount,
	})
	return &placeholderGateway{client: client, logger: log}
}

// Pull implements [Gateway]. It fetches /posts and maps the first eight
// posts to quotes.
func (p *placeholderGateway) Pull(ctx context.Context) (models.Snapshot, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		Get(postsPath)
	if err != nil {
		p.logger.Err(err).Str("func", "placeholderGateway.Pull").Msg("posts request failed")
		return models.Snapshot{}, gatewayError("pull", fmt.Errorf("posts request: %w", err))
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Snapshot{}, gatewayError("pull", err)
	}

	var posts []post
	if err = json.Unmarshal(resp.Body(), &posts); err != nil {
		return models.Snapshot{}, gatewayError("pull", fmt.Errorf("%w: %w", ErrMalformedResponse, err))
	}

	p.logger.Debug().
		Str("func", "placeholderGateway.Pull").
		Int("posts", len(posts)).
		Msg("received posts")

	return models.Snapshot{
		Records:   postsToRecords(posts),
		Timestamp: time.Now().UTC(),
	}, nil
}

// Push implements [Gateway]. At most three records are posted, concurrently;
// deletions cannot be expressed and are ignored.
func (p *placeholderGateway) Push(ctx context.Context, req models.PushRequest) error {
	records := req.Records
	if len(records) > placeholderPushLimit {
		records = records[:placeholderPushLimit]
	}
	if len(records) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range records {
		r := r
		g.Go(func() error {
			resp, err := p.client.R().
				SetContext(gctx).
				SetHeader("Content-Type", "application/json").
				SetBody(recordToPost(r)).
				Post(postsPath)
			if err != nil {
				return fmt.Errorf("post request: %w", err)
			}
			return mapHTTPError(resp)
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Err(err).Str("func", "placeholderGateway.Push").Msg("posting quotes failed")
		return gatewayError("push", err)
	}

	p.logger.Debug().
		Str("func", "placeholderGateway.Push").
		Int("posted", len(records)).
		Int("skipped deletions", len(req.Deleted)).
		Msg("posted quotes")
	return nil
}

func postsToRecords(posts []post) []models.Record {
	if len(posts) > placeholderPullLimit {
		posts = posts[:placeholderPullLimit]
	}

	records := make([]models.Record, 0, len(posts))
	for i, ps := range posts {
		text := ps.Title
		if len([]rune(ps.Title)) <= 20 {
			text = ps.Title + ". " + truncate(ps.Body, 80) + "..."
		}
		records = append(records, models.Record{
			ID: strconv.Itoa(ps.ID + placeholderIDOffset),
			Payload: models.Payload{
				Text:     text,
				Category: placeholderCategories[i%len(placeholderCategories)],
			},
			Version:      1,
			LastModified: placeholderEpoch,
			Origin:       models.OriginRemote,
		})
	}
	return records
}

func recordToPost(r models.Record) post {
	return post{
		UserID: placeholderUserID,
		Title:  "Quote: " + truncate(r.Payload.Text, 40) + "...",
		Body: fmt.Sprintf("Category: %s\nFull Text: %s\nID: %s",
			r.Payload.Category, r.Payload.Text, r.ID),
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
