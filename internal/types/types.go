// README: Common value types shared across modules.
package types

import (
	"crypto/rand"
	"encoding/hex"
)

// ID identifies any entity (passenger, driver, request, ride).
type ID string

// NewID returns a random 32-char hex identifier.
func NewID() ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return ID(hex.EncodeToString(b[:]))
}

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// InRange reports whether the point is a valid geographic coordinate.
func (p Point) InRange() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Category is the vehicle tier a passenger requests and a driver provides.
type Category string

const (
	CategoryEconomy Category = "ECONOMY"
	CategoryComfort Category = "COMFORT"
)

func (c Category) Valid() bool {
	return c == CategoryEconomy || c == CategoryComfort
}
