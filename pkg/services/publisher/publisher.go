package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/api"
	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/services/rightsizing"
)

// Fetcher yields the findings to publish, typically the source chain.
type Fetcher interface {
	Fetch(ctx context.Context) (rightsizing.Result, error)
}

// DocumentStore persists a JSON document under a key, overwriting any
// prior content.
type DocumentStore interface {
	PutJSON(ctx context.Context, key string, v any) error
}

// Invalidator flushes CDN paths after a write.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string) error
}

type Options struct {
	Fetcher     Fetcher
	Store       DocumentStore
	Invalidator Invalidator // optional
	Prefix      string
	Now         func() time.Time // optional, defaults to time.Now
}

// Publisher runs one fetch-transform-write cycle per call. Writes are full
// replacements, so a rerun with the same upstream response produces a
// byte-identical document.
type Publisher struct {
	fetcher     Fetcher
	store       DocumentStore
	invalidator Invalidator
	prefix      string
	now         func() time.Time
}

func New(opts Options) *Publisher {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Publisher{
		fetcher:     opts.Fetcher,
		store:       opts.Store,
		invalidator: opts.Invalidator,
		prefix:      opts.Prefix,
		now:         opts.Now,
	}
}

func (p *Publisher) Publish(ctx context.Context) (*api.PublishReceipt, error) {
	logger := zerolog.Ctx(ctx)

	result, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	records := api.FromDomain(result.Recommendations)
	now := p.now().UTC()

	latestKey := path.Join(p.prefix, "latest.json")
	datedKey := path.Join(p.prefix, now.Format("2006-01-02")+".json")

	if err := p.store.PutJSON(ctx, latestKey, records); err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", latestKey, err)
	}
	if err := p.store.PutJSON(ctx, datedKey, records); err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", datedKey, err)
	}

	manifest := buildManifest(result, len(records), now)
	summaryKey := path.Join(p.prefix, "summary.json")
	if err := p.store.PutJSON(ctx, summaryKey, manifest); err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", summaryKey, err)
	}

	if p.invalidator != nil {
		if err := p.invalidator.Invalidate(ctx, "/"+latestKey); err != nil {
			return nil, fmt.Errorf("failed to invalidate CDN: %w", err)
		}
	}

	logger.Info().
		Str("source", string(result.Source)).
		Str("latest_key", latestKey).
		Str("dated_key", datedKey).
		Int("items", len(records)).
		Msg("published rightsizing recommendations")

	return &api.PublishReceipt{
		Status:    "ok",
		Source:    string(result.Source),
		LatestKey: latestKey,
		DatedKey:  datedKey,
		Items:     len(records),
	}, nil
}

func buildManifest(result rightsizing.Result, count int, now time.Time) api.RunManifest {
	total := result.Summary.TotalMonthlySavings
	if total == "" {
		total = "0"
	}
	return api.RunManifest{
		GeneratedAt:       now.Format(time.RFC3339),
		Source:            string(result.Source),
		Count:             count,
		TotalSavings:      json.Number(total),
		Currency:          result.Summary.Currency,
		SavingsPercentage: json.Number(result.Summary.SavingsPercentage),
	}
}
