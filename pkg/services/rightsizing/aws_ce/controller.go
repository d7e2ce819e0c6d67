package aws_ce

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/domain"
)

const (
	serviceEC2 = "AmazonEC2"
	pageSize   = 20
)

type ceAPI interface {
	GetRightsizingRecommendation(
		ctx context.Context,
		params *costexplorer.GetRightsizingRecommendationInput,
		optFns ...func(*costexplorer.Options),
	) (*costexplorer.GetRightsizingRecommendationOutput, error)
}

type controller struct {
	client ceAPI
	target types.RecommendationTarget
}

// NewController builds a Cost Explorer backed source. An empty target
// defaults to cross-family recommendations.
func NewController(cfg awssdk.Config, target string) *controller {
	t := types.RecommendationTarget(target)
	if t == "" {
		t = types.RecommendationTargetCrossInstanceFamily
	}
	return &controller{
		client: costexplorer.NewFromConfig(cfg),
		target: t,
	}
}

func (c *controller) Name() domain.Source {
	return domain.SourceCostExplorer
}

func (c *controller) Fetch(ctx context.Context) (domain.Summary, []domain.Recommendation, error) {
	var (
		recs      []domain.Recommendation
		summary   domain.Summary
		nextToken *string
	)

	for {
		input := &costexplorer.GetRightsizingRecommendationInput{
			Service: aws.String(serviceEC2),
			Configuration: &types.RightsizingRecommendationConfiguration{
				RecommendationTarget: c.target,
				BenefitsConsidered:   true,
			},
			PageSize:      pageSize,
			NextPageToken: nextToken,
		}

		resp, err := c.client.GetRightsizingRecommendation(ctx, input)
		if err != nil {
			return domain.Summary{}, nil, fmt.Errorf("failed to get rightsizing recommendations: %w", err)
		}

		for _, rec := range resp.RightsizingRecommendations {
			recs = append(recs, transformRecommendation(rec))
		}
		if resp.Summary != nil {
			summary = transformSummary(resp.Summary)
		}

		if resp.NextPageToken == nil || *resp.NextPageToken == "" {
			break
		}
		nextToken = resp.NextPageToken
	}

	return summary, recs, nil
}

func transformRecommendation(rec types.RightsizingRecommendation) domain.Recommendation {
	out := domain.Recommendation{
		AccountID: aws.ToString(rec.AccountId),
	}

	if cur := rec.CurrentInstance; cur != nil {
		out.InstanceID = aws.ToString(cur.ResourceId)
		out.InstanceName = aws.ToString(cur.InstanceName)
		out.CurrentType = instanceType(cur.ResourceDetails)
	}

	switch rec.RightsizingType {
	case types.RightsizingTypeTerminate:
		out.Action = domain.ActionTerminate
		out.Notes = "instance appears unused"
		if detail := rec.TerminateRecommendationDetail; detail != nil {
			out.MonthlySavings = aws.ToString(detail.EstimatedMonthlySavings)
			out.Currency = aws.ToString(detail.CurrencyCode)
		}
	default:
		out.Action = domain.ActionModify
		if detail := rec.ModifyRecommendationDetail; detail != nil {
			if ti := pickTargetInstance(detail.TargetInstances); ti != nil {
				out.RecommendedType = instanceType(ti.ResourceDetails)
				out.MonthlySavings = aws.ToString(ti.EstimatedMonthlySavings)
				out.Currency = aws.ToString(ti.CurrencyCode)
			}
		}
	}

	return out
}

// pickTargetInstance prefers the option Cost Explorer marks as default;
// the API lists alternatives in no guaranteed order.
func pickTargetInstance(targets []types.TargetInstance) *types.TargetInstance {
	if len(targets) == 0 {
		return nil
	}
	for i := range targets {
		if targets[i].DefaultTargetInstance {
			return &targets[i]
		}
	}
	return &targets[0]
}

func instanceType(details *types.ResourceDetails) string {
	if details == nil || details.EC2ResourceDetails == nil {
		return ""
	}
	return aws.ToString(details.EC2ResourceDetails.InstanceType)
}

func transformSummary(summary *types.RightsizingRecommendationSummary) domain.Summary {
	return domain.Summary{
		TotalMonthlySavings: aws.ToString(summary.EstimatedTotalMonthlySavingsAmount),
		Currency:            aws.ToString(summary.SavingsCurrencyCode),
		SavingsPercentage:   aws.ToString(summary.SavingsPercentage),
	}
}
