package synthetic

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/domain"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func fixedClock(day string) func() time.Time {
	ts, _ := time.Parse("2006-01-02", day)
	return func() time.Time { return ts }
}

func TestFetch_StableWithinADay(t *testing.T) {
	g := &Generator{now: fixedClock("2026-08-30")}

	summary1, recs1, err := g.Fetch(context.Background())
	require.NoError(t, err)
	summary2, recs2, err := g.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, recs1, recs2)
	assert.Equal(t, summary1, summary2)
}

func TestFetch_DifferentDaysDiffer(t *testing.T) {
	g1 := &Generator{now: fixedClock("2026-08-30")}
	g2 := &Generator{now: fixedClock("2026-08-31")}

	_, recs1, err := g1.Fetch(context.Background())
	require.NoError(t, err)
	_, recs2, err := g2.Fetch(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, recs1, recs2)
}

func TestFetch_RecordShape(t *testing.T) {
	g := NewGenerator()

	summary, recs, err := g.Fetch(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(recs), 2)
	require.LessOrEqual(t, len(recs), 5)

	var total float64
	for _, rec := range recs {
		assert.True(t, strings.HasPrefix(rec.InstanceID, "i-"), "instance id %q", rec.InstanceID)
		assert.Len(t, rec.InstanceID, 19)
		assert.Contains(t, rec.CurrentType, ".")
		assert.Equal(t, "USD", rec.Currency)

		savings, err := strconv.ParseFloat(rec.MonthlySavings, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, savings, 3.0)
		assert.LessOrEqual(t, savings, 120.0)
		total += savings

		switch rec.Action {
		case domain.ActionModify:
			assert.NotEmpty(t, rec.RecommendedType)
		case domain.ActionTerminate:
			assert.Empty(t, rec.RecommendedType)
		default:
			t.Fatalf("unexpected action %q", rec.Action)
		}
	}

	summaryTotal, err := strconv.ParseFloat(summary.TotalMonthlySavings, 64)
	require.NoError(t, err)
	assert.InDelta(t, total, summaryTotal, 0.05)
}

func TestSmallerType(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    []string
	}{
		{"steps one size down", "m7i.xlarge", []string{"m7i.large"}},
		{"graviton swap candidate", "t3.large", []string{"t3.medium", "t4g.medium"}},
		{"unknown size defaults to small", "c7g.metal", []string{"c7g.small"}},
		{"no size part left alone", "m5", []string{"m5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := smallerType(newTestRand(), tt.current)
			assert.Contains(t, tt.want, got)
		})
	}
}
