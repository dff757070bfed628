// README: Vehicle classes and per-km rates.
package pricing

type VehicleType string

const (
	VehicleBike  VehicleType = "Bike"
	VehicleCar   VehicleType = "Car"
	VehicleTruck VehicleType = "Truck"
)

// ratePerKm is currency-agnostic units per kilometre.
var ratePerKm = map[VehicleType]float64{
	VehicleBike:  15,
	VehicleCar:   40,
	VehicleTruck: 100,
}

func ValidVehicleType(v VehicleType) bool {
	_, ok := ratePerKm[v]
	return ok
}
