package aggregation

import (
	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Comparison holds a district's metrics as a ratio of the state average.
// 1.0 means exactly average. A zero average yields a zero ratio.
type Comparison struct {
	Budget  float64 `json:"budget"`
	Wage    float64 `json:"wage"`
	Workers float64 `json:"workers"`
}

// CompareToAverage relates one record to stats computed over its region.
func CompareToAverage(r v1.Record, stats Stats) Comparison {
	return Comparison{
		Budget:  ratio(r.ApprovedBudget(), stats.AvgBudget),
		Wage:    ratio(r.AverageDailyWage(), stats.AvgWage),
		Workers: ratio(r.TotalWorkersEmployed(), stats.AvgWorkers),
	}
}

func ratio(value decimal.Decimal, avg float64) float64 {
	d := decimal.NewFromFloat(avg)
	if d.IsZero() {
		return 0
	}
	return toFloat(value.Div(d).Round(averagePlaces))
}
