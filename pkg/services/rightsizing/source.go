package rightsizing

import (
	"context"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/domain"
)

// Source produces rightsizing findings from one upstream system.
type Source interface {
	Name() domain.Source
	Fetch(ctx context.Context) (domain.Summary, []domain.Recommendation, error)
}

// Result is the outcome of a fetch, tagged with the source that produced it.
type Result struct {
	Source          domain.Source
	Summary         domain.Summary
	Recommendations []domain.Recommendation
}
