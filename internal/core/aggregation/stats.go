package aggregation

import (
	"math"
	"sort"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/shopspring/decimal"
)

// TopN is the length of the budget ranking.
const TopN = 5

// averagePlaces is the rounding applied to averages before they leave decimal.
const averagePlaces = 2

// Stats summarizes the latest record of every district in a record set.
type Stats struct {
	TotalDistricts int           `json:"totalDistricts"`
	AvgBudget      float64       `json:"avgBudget"`
	AvgWage        float64       `json:"avgWage"`
	AvgWorkers     float64       `json:"avgWorkers"`
	TopDistricts   []RankedEntry `json:"topDistricts"`
}

// RankedEntry is one row of the budget ranking.
type RankedEntry struct {
	Name   string  `json:"name"`
	NameHi string  `json:"name_hi,omitempty"`
	Code   string  `json:"code"`
	Budget float64 `json:"budget"`
}

// metric pulls one averaged value out of a record.
type metric func(v1.Record) decimal.Decimal

var (
	budgetMetric  metric = v1.Record.ApprovedBudget
	wageMetric    metric = v1.Record.AverageDailyWage
	workersMetric metric = v1.Record.TotalWorkersEmployed
)

// ComputeStats reduces records to one per district and derives averages and the
// top budget ranking. Averages are rounded to 2 decimal places.
// An empty set yields zeros and an empty ranking.
func ComputeStats(records []v1.Record) Stats {
	latest := LatestPerDistrict(records)

	stats := Stats{
		TotalDistricts: len(latest),
		AvgBudget:      average(latest, budgetMetric),
		AvgWage:        average(latest, wageMetric),
		AvgWorkers:     average(latest, workersMetric),
		TopDistricts:   rank(latest, TopN),
	}
	return stats
}

// LatestPerDistrict keeps, for each district code, the record with the greatest
// fiscal year. Output is ordered by district code.
func LatestPerDistrict(records []v1.Record) []v1.Record {
	byCode := make(map[string]v1.Record, len(records))
	for _, r := range records {
		cur, ok := byCode[r.DistrictCode]
		if !ok || r.FinYear > cur.FinYear {
			byCode[r.DistrictCode] = r
		}
	}

	out := make([]v1.Record, 0, len(byCode))
	for _, r := range byCode {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistrictCode < out[j].DistrictCode })
	return out
}

func average(records []v1.Record, m metric) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(m(r))
	}
	return toFloat(sum.Div(decimal.NewFromInt(int64(len(records)))).Round(averagePlaces))
}

// rank sorts by budget descending, district code ascending on ties.
func rank(records []v1.Record, n int) []RankedEntry {
	sorted := make([]v1.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi, bj := sorted[i].ApprovedBudget(), sorted[j].ApprovedBudget()
		if !bi.Equal(bj) {
			return bi.GreaterThan(bj)
		}
		return sorted[i].DistrictCode < sorted[j].DistrictCode
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]RankedEntry, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, RankedEntry{
			Name:   r.DistrictName,
			NameHi: r.DistrictNameLocalized,
			Code:   r.DistrictCode,
			Budget: toFloat(r.ApprovedBudget()),
		})
	}
	return out
}

// toFloat converts d for JSON output, mapping anything outside float64 range to zero.
func toFloat(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
