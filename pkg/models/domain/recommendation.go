package domain

type Source string

const (
	SourceCostExplorer     Source = "cost-explorer"
	SourceComputeOptimizer Source = "compute-optimizer"
	SourceSynthetic        Source = "synthetic"
)

type Action string

const (
	ActionModify    Action = "Modify"
	ActionTerminate Action = "Terminate"
)

// Recommendation is a single rightsizing finding. Monetary amounts are kept
// as the decimal text returned by the upstream API so they survive the trip
// to the published document without float rounding.
type Recommendation struct {
	InstanceID      string
	InstanceName    string
	AccountID       string
	Action          Action
	CurrentType     string
	RecommendedType string // empty for Terminate findings
	MonthlySavings  string // e.g. "42.50"
	Currency        string
	Notes           string
}

type Summary struct {
	TotalMonthlySavings string
	Currency            string
	SavingsPercentage   string
	Notes               string
}
