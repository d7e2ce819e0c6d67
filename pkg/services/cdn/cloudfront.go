package cdn

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/google/uuid"
)

type cloudFrontAPI interface {
	CreateInvalidation(
		ctx context.Context,
		params *cloudfront.CreateInvalidationInput,
		optFns ...func(*cloudfront.Options),
	) (*cloudfront.CreateInvalidationOutput, error)
}

// Invalidator flushes published paths from a CloudFront distribution so
// the dashboard serves the fresh document instead of a cached copy.
type Invalidator struct {
	client         cloudFrontAPI
	distributionID string
}

func NewInvalidator(cfg awssdk.Config, distributionID string) *Invalidator {
	return &Invalidator{
		client:         cloudfront.NewFromConfig(cfg),
		distributionID: distributionID,
	}
}

func (i *Invalidator) Invalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	_, err := i.client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(i.distributionID),
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: aws.String(fmt.Sprintf("rightsizing-%s", uuid.NewString())),
			Paths: &types.Paths{
				Quantity: aws.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate distribution %s: %w", i.distributionID, err)
	}
	return nil
}
