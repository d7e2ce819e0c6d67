package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type ec2API interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)
}

// Probe answers whether the account currently runs any EC2 instances.
type Probe struct {
	client ec2API
}

func NewProbe(cfg awssdk.Config) *Probe {
	return &Probe{
		client: ec2.NewFromConfig(cfg),
	}
}

func (p *Probe) AnyRunning(ctx context.Context) (bool, error) {
	resp, err := p.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to describe EC2 instances: %w", err)
	}

	for _, reservation := range resp.Reservations {
		if len(reservation.Instances) > 0 {
			return true, nil
		}
	}
	return false, nil
}
