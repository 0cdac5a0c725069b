package geo

import "github.com/umahmood/haversine"

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceFunc returns the distance between two points in meters.
type DistanceFunc func(a, b Point) float64

// DistanceMeters computes the great-circle distance between two points.
func DistanceMeters(a, b Point) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Latitude, Lon: a.Longitude},
		haversine.Coord{Lat: b.Latitude, Lon: b.Longitude},
	)
	return km * 1000
}
