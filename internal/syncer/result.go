package syncer

// Status classifies a sync outcome.
type Status string

const (
	StatusFetched Status = "fetched"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
)

// Result summarizes one sync. It is returned to HTTP callers as-is.
type Result struct {
	Success bool   `json:"success"`
	Status  Status `json:"status"`
	SyncID  string `json:"sync_id"`
	State   string `json:"state"`
	FinYear string `json:"fin_year,omitempty"`

	// Count is the number of records fetched, Total the store size after merge.
	Count int `json:"count"`
	Total int `json:"total,omitempty"`
	// Cached is the untouched store size when the sync did not merge anything.
	Cached  int    `json:"cached"`
	Invalid int    `json:"invalid,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r Result) fail(status Status, msg string, cached int) Result {
	r.Success = false
	r.Status = status
	r.Error = msg
	r.Cached = cached
	return r
}
