package visibility

// CompassDirection is one of the 8 principal compass points.
type CompassDirection string

const (
	North     CompassDirection = "N"
	NorthEast CompassDirection = "NE"
	East      CompassDirection = "E"
	SouthEast CompassDirection = "SE"
	South     CompassDirection = "S"
	SouthWest CompassDirection = "SW"
	West      CompassDirection = "W"
	NorthWest CompassDirection = "NW"
)

// AzimuthToDirection maps an azimuth in degrees (0 = North, clockwise) to
// one of 8 compass points. Each 45°-wide sector owns the half-open range
// [center−22.5°, center+22.5°); North wraps across 0°/360°.
func AzimuthToDirection(azimuthDeg float64) CompassDirection {
	switch {
	case azimuthDeg >= 337.5 || azimuthDeg < 22.5:
		return North
	case azimuthDeg < 67.5:
		return NorthEast
	case azimuthDeg < 112.5:
		return East
	case azimuthDeg < 157.5:
		return SouthEast
	case azimuthDeg < 202.5:
		return South
	case azimuthDeg < 247.5:
		return SouthWest
	case azimuthDeg < 292.5:
		return West
	default:
		return NorthWest
	}
}
