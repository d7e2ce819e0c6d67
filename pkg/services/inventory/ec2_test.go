package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2 struct {
	output *ec2.DescribeInstancesOutput
	input  *ec2.DescribeInstancesInput
	err    error
}

func (f *fakeEC2) DescribeInstances(
	_ context.Context,
	params *ec2.DescribeInstancesInput,
	_ ...func(*ec2.Options),
) (*ec2.DescribeInstancesOutput, error) {
	f.input = params
	return f.output, f.err
}

func TestAnyRunning(t *testing.T) {
	tests := []struct {
		name   string
		output *ec2.DescribeInstancesOutput
		want   bool
	}{
		{
			name: "running instance found",
			output: &ec2.DescribeInstancesOutput{
				Reservations: []types.Reservation{
					{Instances: []types.Instance{{InstanceId: aws.String("i-1")}}},
				},
			},
			want: true,
		},
		{
			name: "empty reservation",
			output: &ec2.DescribeInstancesOutput{
				Reservations: []types.Reservation{{}},
			},
			want: false,
		},
		{
			name:   "no reservations",
			output: &ec2.DescribeInstancesOutput{},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeEC2{output: tt.output}
			probe := &Probe{client: client}

			running, err := probe.AnyRunning(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, running)

			require.Len(t, client.input.Filters, 1)
			assert.Equal(t, "instance-state-name", aws.ToString(client.input.Filters[0].Name))
			assert.Equal(t, []string{"running"}, client.input.Filters[0].Values)
		})
	}
}

func TestAnyRunning_PropagatesError(t *testing.T) {
	probe := &Probe{client: &fakeEC2{err: errors.New("unauthorized")}}

	_, err := probe.AnyRunning(context.Background())
	assert.ErrorContains(t, err, "unauthorized")
}
