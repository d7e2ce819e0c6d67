package api

import (
	"encoding/json"

	"github.com/MarioMoraJr/aws-ec2-rightsizing-dashboard/pkg/models/domain"
)

// Recommendation is the flat record the dashboard reads. Savings is a
// json.Number so the decimal text from the API is published verbatim
// ("42.50" stays "42.50").
type Recommendation struct {
	InstanceID      string      `json:"instance_id"`
	CurrentType     string      `json:"current_type"`
	RecommendedType string      `json:"recommended_type,omitempty"`
	Savings         json.Number `json:"savings"`
	Notes           string      `json:"notes,omitempty"`
}

// RunManifest describes a single publish run. It is written next to the
// recommendations document so the dashboard can show provenance.
type RunManifest struct {
	GeneratedAt       string      `json:"generated_at"`
	Source            string      `json:"source"`
	Count             int         `json:"count"`
	TotalSavings      json.Number `json:"total_savings"`
	Currency          string      `json:"currency,omitempty"`
	SavingsPercentage json.Number `json:"savings_percentage,omitempty"`
}

// PublishReceipt is returned to the caller (and to HTTP trigger clients)
// after a successful run.
type PublishReceipt struct {
	Status    string `json:"status"`
	Source    string `json:"source"`
	LatestKey string `json:"latest_key"`
	DatedKey  string `json:"dated_key"`
	Items     int    `json:"items"`
}

// FromDomain maps findings into display records, preserving order. The
// result is never nil so an empty run publishes "[]" rather than "null".
func FromDomain(recs []domain.Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		savings := r.MonthlySavings
		if savings == "" {
			savings = "0"
		}
		out = append(out, Recommendation{
			InstanceID:      r.InstanceID,
			CurrentType:     r.CurrentType,
			RecommendedType: r.RecommendedType,
			Savings:         json.Number(savings),
			Notes:           r.Notes,
		})
	}
	return out
}
