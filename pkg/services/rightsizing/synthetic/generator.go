package synthetic

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/domain"
)

// Demo account ID used for generated findings.
const accountID = "123456789012"

var families = []struct {
	name  string
	sizes []string
}{
	{"t3", []string{"micro", "small", "medium", "large", "xlarge", "2xlarge"}},
	{"t4g", []string{"small", "medium", "large", "xlarge", "2xlarge"}},
	{"m6i", []string{"large", "xlarge", "2xlarge"}},
	{"m7i", []string{"large", "xlarge", "2xlarge"}},
	{"c7g", []string{"large", "xlarge", "2xlarge"}},
	{"r6i", []string{"large", "xlarge", "2xlarge"}},
}

var sizeOrder = []string{"micro", "small", "medium", "large", "xlarge", "2xlarge", "4xlarge", "8xlarge"}

// Generator produces plausible rightsizing findings when no real signal is
// available. Results are seeded from the UTC date so reruns within the same
// day do not thrash the published document.
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

func (g *Generator) Name() domain.Source {
	return domain.SourceSynthetic
}

func (g *Generator) Fetch(_ context.Context) (domain.Summary, []domain.Recommendation, error) {
	day := g.now().UTC().Format("2006-01-02")
	rng := rand.New(rand.NewSource(daySeed(day)))

	n := 2 + rng.Intn(4)
	recs := make([]domain.Recommendation, 0, n)
	var total float64

	for i := 0; i < n; i++ {
		currentType := pickInstanceType(rng)
		savings := 3.0 + rng.Float64()*117.0
		total += savings

		rec := domain.Recommendation{
			AccountID:      accountID,
			InstanceID:     randInstanceID(rng),
			CurrentType:    currentType,
			MonthlySavings: fmt.Sprintf("%.2f", savings),
			Currency:       "USD",
			Notes:          "synthetic estimate",
		}

		if rng.Float64() > 0.25 {
			rec.Action = domain.ActionModify
			rec.RecommendedType = smallerType(rng, currentType)
			rec.InstanceName = fmt.Sprintf("app-%d", 10+rng.Intn(90))
		} else {
			rec.Action = domain.ActionTerminate
			rec.InstanceName = fmt.Sprintf("batch-%d", 10+rng.Intn(90))
		}

		recs = append(recs, rec)
	}

	summary := domain.Summary{
		TotalMonthlySavings: fmt.Sprintf("%.2f", total),
		Currency:            "USD",
		SavingsPercentage:   fmt.Sprintf("%.2f", 5.0+rng.Float64()*50.0),
	}
	return summary, recs, nil
}

func daySeed(day string) int64 {
	sum := sha256.Sum256([]byte(day))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

func pickInstanceType(rng *rand.Rand) string {
	fam := families[rng.Intn(len(families))]
	return fmt.Sprintf("%s.%s", fam.name, fam.sizes[rng.Intn(len(fam.sizes))])
}

// smallerType steps one size down, occasionally swapping in the Graviton
// equivalent of the family.
func smallerType(rng *rand.Rand, of string) string {
	fam, size, found := strings.Cut(of, ".")
	if !found {
		return of
	}

	newSize := "small"
	for i, s := range sizeOrder {
		if s == size && i > 0 {
			newSize = sizeOrder[i-1]
			break
		}
	}

	if fam == "m6i" && rng.Float64() < 0.5 {
		fam = "m7g"
	}
	if fam == "t3" && rng.Float64() < 0.5 {
		fam = "t4g"
	}
	return fmt.Sprintf("%s.%s", fam, newSize)
}

func randInstanceID(rng *rand.Rand) string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.WriteString("i-")
	for i := 0; i < 17; i++ {
		b.WriteByte(hex[rng.Intn(len(hex))])
	}
	return b.String()
}
