// README: Aggregation result shapes for the admin dashboards.
package stats

type Bucket string

const (
	BucketDaily   Bucket = "daily"
	BucketMonthly Bucket = "monthly"
)

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type RevenuePoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type RouteCount struct {
	Pickup  string `json:"pickup"`
	Dropoff string `json:"dropoff"`
	Count   int    `json:"count"`
}

type DriverActivity struct {
	Available int `json:"available"`
	Busy      int `json:"busy"`
}
