package upstream

import v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"

// Status distinguishes an upstream with no matching data from one that could not be reached.
type Status string

const (
	StatusFetched Status = "fetched"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// FetchResult is the outcome of Client.Fetch.
type FetchResult struct {
	Status   Status
	Records  []v1.Record
	Attempts int
	// Err is the last attempt's error when Status is StatusFailed.
	Err error
}
