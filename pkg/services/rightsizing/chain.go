package rightsizing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/domain"
)

// DefaultMinSavings is the total monthly savings below which a source is
// treated as having no real signal.
const DefaultMinSavings = 0.01

// InstanceProbe reports whether the account has any running instances.
type InstanceProbe interface {
	AnyRunning(ctx context.Context) (bool, error)
}

type ChainOptions struct {
	MinSavings float64
	Sources    []Source
	Fallback   Source
	Probe      InstanceProbe
}

// Chain tries each source in order and falls back to the configured
// fallback source when none of them yields savings above the threshold.
type Chain struct {
	minSavings float64
	sources    []Source
	fallback   Source
	probe      InstanceProbe
}

func NewChain(opts ChainOptions) *Chain {
	if opts.MinSavings <= 0 {
		opts.MinSavings = DefaultMinSavings
	}
	return &Chain{
		minSavings: opts.MinSavings,
		sources:    opts.Sources,
		fallback:   opts.Fallback,
		probe:      opts.Probe,
	}
}

func (c *Chain) Fetch(ctx context.Context) (Result, error) {
	logger := zerolog.Ctx(ctx)

	for _, src := range c.sources {
		summary, recs, err := src.Fetch(ctx)
		if err != nil {
			logger.Warn().Err(err).
				Str("source", string(src.Name())).
				Msg("recommendation source failed, trying next")
			continue
		}

		total := totalSavings(recs)
		if total < c.minSavings {
			logger.Info().
				Str("source", string(src.Name())).
				Float64("total_savings", total).
				Msg("savings below threshold, trying next source")
			continue
		}

		return Result{Source: src.Name(), Summary: summary, Recommendations: recs}, nil
	}

	if c.fallback == nil {
		return Result{}, errors.New("no recommendation source produced a result")
	}

	if c.probe != nil {
		running, err := c.probe.AnyRunning(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("instance probe failed")
		} else {
			logger.Info().
				Bool("instances_running", running).
				Msg("no real savings signal, generating synthetic recommendations")
		}
	}

	summary, recs, err := c.fallback.Fetch(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fallback source %s failed: %w", c.fallback.Name(), err)
	}
	return Result{Source: c.fallback.Name(), Summary: summary, Recommendations: recs}, nil
}

func totalSavings(recs []domain.Recommendation) float64 {
	var total float64
	for _, r := range recs {
		amount, err := strconv.ParseFloat(r.MonthlySavings, 64)
		if err != nil {
			continue
		}
		total += amount
	}
	return total
}
