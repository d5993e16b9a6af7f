package model

// PriceInterval is one point of a trading day's dispatch-price series.
// Price is NaN when the upstream feed had no value for the interval;
// cleaning substitutes missing values before optimization.
type PriceInterval struct {
	Index int     `json:"index"`
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// TradingDay is one region-day of dispatch prices at a fixed cadence,
// nominally 288 five-minute intervals.
type TradingDay struct {
	Region          string
	Date            string
	IntervalMinutes int
	Intervals       []PriceInterval
}

// Prices flattens the series in index order.
func (d TradingDay) Prices() []float64 {
	out := make([]float64, len(d.Intervals))
	for i, iv := range d.Intervals {
		out[i] = iv.Price
	}
	return out
}

func (d TradingDay) IntervalHours() float64 {
	return float64(d.IntervalMinutes) / 60.0
}
