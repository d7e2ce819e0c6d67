package optimizer

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/computeoptimizer"
	"github.com/aws/aws-sdk-go-v2/service/computeoptimizer/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/domain"
)

type fakeCO struct {
	outputs       []*computeoptimizer.GetEC2InstanceRecommendationsOutput
	calls         int
	enrollment    *computeoptimizer.GetEnrollmentStatusOutput
	enrollmentErr error
}

func (f *fakeCO) GetEC2InstanceRecommendations(
	_ context.Context,
	_ *computeoptimizer.GetEC2InstanceRecommendationsInput,
	_ ...func(*computeoptimizer.Options),
) (*computeoptimizer.GetEC2InstanceRecommendationsOutput, error) {
	out := f.outputs[f.calls]
	f.calls++
	return out, nil
}

func (f *fakeCO) GetEnrollmentStatus(
	_ context.Context,
	_ *computeoptimizer.GetEnrollmentStatusInput,
	_ ...func(*computeoptimizer.Options),
) (*computeoptimizer.GetEnrollmentStatusOutput, error) {
	return f.enrollment, f.enrollmentErr
}

func instanceRec(arn, current, target string, savings float64) types.InstanceRecommendation {
	return types.InstanceRecommendation{
		InstanceArn:         aws.String(arn),
		InstanceName:        aws.String("app-1"),
		AccountId:           aws.String("123456789012"),
		CurrentInstanceType: aws.String(current),
		Finding:             types.FindingOverProvisioned,
		RecommendationOptions: []types.InstanceRecommendationOption{
			{
				InstanceType: aws.String(target),
				Rank:         1,
				SavingsOpportunity: &types.SavingsOpportunity{
					EstimatedMonthlySavings: &types.EstimatedMonthlySavings{
						Currency: types.CurrencyUsd,
						Value:    savings,
					},
				},
			},
		},
	}
}

func TestFetch_MapsInstanceRecommendation(t *testing.T) {
	client := &fakeCO{
		outputs: []*computeoptimizer.GetEC2InstanceRecommendationsOutput{
			{
				InstanceRecommendations: []types.InstanceRecommendation{
					instanceRec("arn:aws:ec2:us-east-1:123456789012:instance/i-123", "m5.xlarge", "m5.large", 42.5),
				},
			},
		},
		enrollment: &computeoptimizer.GetEnrollmentStatusOutput{Status: types.StatusActive},
	}
	ctrl := &controller{client: client}

	summary, recs, err := ctrl.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "i-123", recs[0].InstanceID)
	assert.Equal(t, domain.ActionModify, recs[0].Action)
	assert.Equal(t, "m5.xlarge", recs[0].CurrentType)
	assert.Equal(t, "m5.large", recs[0].RecommendedType)
	assert.Equal(t, "42.50", recs[0].MonthlySavings)
	assert.Equal(t, "USD", recs[0].Currency)
	assert.Contains(t, summary.Notes, "Active")
}

func TestFetch_FollowsPagination(t *testing.T) {
	client := &fakeCO{
		outputs: []*computeoptimizer.GetEC2InstanceRecommendationsOutput{
			{
				InstanceRecommendations: []types.InstanceRecommendation{
					instanceRec("arn:aws:ec2:us-east-1:123456789012:instance/i-1", "m5.xlarge", "m5.large", 10),
				},
				NextToken: aws.String("page-2"),
			},
			{
				InstanceRecommendations: []types.InstanceRecommendation{
					instanceRec("arn:aws:ec2:us-east-1:123456789012:instance/i-2", "r6i.xlarge", "r6i.large", 20),
				},
			},
		},
		enrollment: &computeoptimizer.GetEnrollmentStatusOutput{Status: types.StatusActive},
	}
	ctrl := &controller{client: client}

	_, recs, err := ctrl.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
	require.Len(t, recs, 2)
	assert.Equal(t, "i-2", recs[1].InstanceID)
}

func TestFetch_EnrollmentErrorDegradesToUnknown(t *testing.T) {
	client := &fakeCO{
		outputs: []*computeoptimizer.GetEC2InstanceRecommendationsOutput{{}},
		enrollmentErr: &smithy.GenericAPIError{
			Code:    "AccessDeniedException",
			Message: "not authorized",
		},
	}
	ctrl := &controller{client: client}

	summary, _, err := ctrl.Fetch(context.Background())
	require.NoError(t, err)
	assert.Contains(t, summary.Notes, "Unknown")
}

func TestTopRankedOption(t *testing.T) {
	opts := []types.InstanceRecommendationOption{
		{InstanceType: aws.String("m5.large"), Rank: 2},
		{InstanceType: aws.String("m7g.large"), Rank: 1},
	}

	best := topRankedOption(opts)
	require.NotNil(t, best)
	assert.Equal(t, "m7g.large", aws.ToString(best.InstanceType))

	assert.Nil(t, topRankedOption(nil))
}

func TestInstanceIDFromArn(t *testing.T) {
	assert.Equal(t, "i-0abc",
		instanceIDFromArn("arn:aws:ec2:us-east-1:123456789012:instance/i-0abc"))
	assert.Equal(t, "i-0abc", instanceIDFromArn("i-0abc"))
}
