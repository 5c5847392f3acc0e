// README: Tariff definitions and fare quote model.
package pricing

import "hitch/internal/types"

// Tariff holds the fare constants for one vehicle category. Estimate and
// Finalize share the same table so an estimate and a final charge differ
// only by the measured distance and duration.
type Tariff struct {
	Base       float64
	PerKm      float64
	PerMin     float64
	Multiplier float64
}

var tariffs = map[types.Category]Tariff{
	types.CategoryEconomy: {Base: 5.00, PerKm: 2.00, PerMin: 0.50, Multiplier: 1.0},
	types.CategoryComfort: {Base: 5.00, PerKm: 2.00, PerMin: 0.50, Multiplier: 1.5},
}

// avgSpeedKmh converts estimated distance into estimated duration.
const avgSpeedKmh = 30.0

// Quote is the result of an estimate: the haversine distance, the assumed
// duration at average speed, and the rounded fare.
type Quote struct {
	DistanceKm  float64
	DurationMin float64
	Price       float64
}
