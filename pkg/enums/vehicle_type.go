package enums

import "fmt"

// VehicleType describes the vehicle a delivery partner operates.
type VehicleType string

const (
	VehicleTypeBike    VehicleType = "BIKE"
	VehicleTypeScooter VehicleType = "SCOOTER"
	VehicleTypeCar     VehicleType = "CAR"
	VehicleTypeVan     VehicleType = "VAN"
)

var validVehicleTypes = []VehicleType{
	VehicleTypeBike,
	VehicleTypeScooter,
	VehicleTypeCar,
	VehicleTypeVan,
}

// IsValid reports whether the value is a known VehicleType.
func (v VehicleType) IsValid() bool {
	for _, candidate := range validVehicleTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleType converts raw input into a VehicleType.
func ParseVehicleType(value string) (VehicleType, error) {
	for _, candidate := range validVehicleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle type %q", value)
}
