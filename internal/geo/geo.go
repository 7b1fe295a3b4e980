// Package geo computes great-circle distances between points on a sphere.
package geo

import "math"

// EarthRadiusKM is the mean Earth radius in kilometers.
const EarthRadiusKM = 6371.0088

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsFinite reports whether both coordinates are real numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Latitude) && !math.IsInf(p.Latitude, 0) &&
		!math.IsNaN(p.Longitude) && !math.IsInf(p.Longitude, 0)
}

// Measurer returns the distance between two points.
type Measurer interface {
	Distance(a, b Point) float64
}

// Sphere measures great-circle distances with the spherical law of cosines.
type Sphere struct {
	Radius float64
}

// NewSphere returns a Sphere with the given radius, falling back to the Earth radius when non-positive.
func NewSphere(radius float64) *Sphere {
	if radius <= 0 {
		radius = EarthRadiusKM
	}
	return &Sphere{Radius: radius}
}

// Distance returns the great-circle distance between a and b in the unit of the radius.
func (s *Sphere) Distance(a, b Point) float64 {
	return CentralAngle(a, b) * s.Radius
}

// CentralAngle returns the angle in radians subtended at the center of the sphere by a and b.
func CentralAngle(a, b Point) float64 {
	lat1 := ToRadians(a.Latitude)
	lon1 := ToRadians(a.Longitude)
	lat2 := ToRadians(b.Latitude)
	lon2 := ToRadians(b.Longitude)

	prodOfSines := math.Sin(lat1) * math.Sin(lat2)
	prodOfCosines := math.Cos(lat1) * math.Cos(lat2) * math.Cos(math.Abs(lon1-lon2))

	// Rounding can push identical or antipodal points just outside acos's domain.
	return math.Acos(clamp(prodOfSines+prodOfCosines, -1, 1))
}

// ToRadians converts an angle from degrees to radians.
func ToRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// clamp keeps NaN as NaN.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
