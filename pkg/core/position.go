// pkg/core/position.go
package core

// LngLat is a computed map position in GeoJSON order: [longitude, latitude].
type LngLat [2]float64

// Lng returns the longitude.
func (p LngLat) Lng() float64 { return p[0] }

// Lat returns the latitude.
func (p LngLat) Lat() float64 { return p[1] }

// LatLng is an authored position in [latitude, longitude] order, the order used by
// the admin editor for focus locations and map data.
type LatLng [2]float64

// LngLat swaps an authored position into GeoJSON order.
func (p LatLng) LngLat() LngLat {
	return LngLat{p[1], p[0]}
}
