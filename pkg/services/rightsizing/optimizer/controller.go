package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/computeoptimizer"
	"github.com/aws/aws-sdk-go-v2/service/computeoptimizer/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/domain"
)

const maxResults = 100

type coAPI interface {
	GetEC2InstanceRecommendations(
		ctx context.Context,
		params *computeoptimizer.GetEC2InstanceRecommendationsInput,
		optFns ...func(*computeoptimizer.Options),
	) (*computeoptimizer.GetEC2InstanceRecommendationsOutput, error)
	GetEnrollmentStatus(
		ctx context.Context,
		params *computeoptimizer.GetEnrollmentStatusInput,
		optFns ...func(*computeoptimizer.Options),
	) (*computeoptimizer.GetEnrollmentStatusOutput, error)
}

type controller struct {
	client coAPI
}

func NewController(cfg awssdk.Config) *controller {
	return &controller{
		client: computeoptimizer.NewFromConfig(cfg),
	}
}

func (c *controller) Name() domain.Source {
	return domain.SourceComputeOptimizer
}

func (c *controller) Fetch(ctx context.Context) (domain.Summary, []domain.Recommendation, error) {
	var (
		recs      []domain.Recommendation
		nextToken *string
	)

	for {
		resp, err := c.client.GetEC2InstanceRecommendations(ctx, &computeoptimizer.GetEC2InstanceRecommendationsInput{
			MaxResults: aws.Int32(maxResults),
			NextToken:  nextToken,
		})
		if err != nil {
			return domain.Summary{}, nil, fmt.Errorf("failed to get EC2 instance recommendations: %w", err)
		}

		for _, rec := range resp.InstanceRecommendations {
			recs = append(recs, transformRecommendation(rec))
		}

		if resp.NextToken == nil || *resp.NextToken == "" {
			break
		}
		nextToken = resp.NextToken
	}

	summary := domain.Summary{
		Notes: fmt.Sprintf("compute optimizer enrollment: %s", c.enrollmentStatus(ctx)),
	}
	return summary, recs, nil
}

// enrollmentStatus is informative only; failures degrade to "Unknown".
func (c *controller) enrollmentStatus(ctx context.Context) string {
	resp, err := c.client.GetEnrollmentStatus(ctx, &computeoptimizer.GetEnrollmentStatusInput{})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			zerolog.Ctx(ctx).Warn().
				Str("code", apiErr.ErrorCode()).
				Msg("could not read enrollment status")
		}
		return "Unknown"
	}
	return string(resp.Status)
}

func transformRecommendation(rec types.InstanceRecommendation) domain.Recommendation {
	out := domain.Recommendation{
		InstanceID:   instanceIDFromArn(aws.ToString(rec.InstanceArn)),
		InstanceName: aws.ToString(rec.InstanceName),
		AccountID:    aws.ToString(rec.AccountId),
		Action:       domain.ActionModify,
		CurrentType:  aws.ToString(rec.CurrentInstanceType),
		Notes:        strings.ToLower(string(rec.Finding)),
	}

	if opt := topRankedOption(rec.RecommendationOptions); opt != nil {
		out.RecommendedType = aws.ToString(opt.InstanceType)
		if opt.SavingsOpportunity != nil && opt.SavingsOpportunity.EstimatedMonthlySavings != nil {
			sav := opt.SavingsOpportunity.EstimatedMonthlySavings
			out.MonthlySavings = fmt.Sprintf("%.2f", sav.Value)
			out.Currency = string(sav.Currency)
		}
	}

	return out
}

func topRankedOption(opts []types.InstanceRecommendationOption) *types.InstanceRecommendationOption {
	if len(opts) == 0 {
		return nil
	}
	best := &opts[0]
	for i := range opts {
		if opts[i].Rank < best.Rank {
			best = &opts[i]
		}
	}
	return best
}

// instanceIDFromArn extracts "i-..." from an instance ARN such as
// arn:aws:ec2:us-east-1:123456789012:instance/i-0abc.
func instanceIDFromArn(arn string) string {
	if idx := strings.LastIndex(arn, "/"); idx >= 0 {
		return arn[idx+1:]
	}
	return arn
}
