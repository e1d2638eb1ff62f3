package engine

import (
	"strings"

	"github.com/caravangame/caravan-api/internal/errors"
)

// Tile ids are base-32 geocodes: each character encodes five interval
// bisection decisions alternating between longitude and latitude, so a
// fixed precision maps the whole globe onto a grid of cells.

const geoBase32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// Direction names a grid neighbor.
type Direction string

// Grid directions
const (
	North     Direction = "n"
	South     Direction = "s"
	East      Direction = "e"
	West      Direction = "w"
	NorthEast Direction = "ne"
	NorthWest Direction = "nw"
	SouthEast Direction = "se"
	SouthWest Direction = "sw"
)

// Border/neighbor lookup tables indexed by [direction][parity], where
// parity 0 is an even-length code (longitude-first character) and 1 is
// odd. Standard geohash adjacency construction.
var (
	geoNeighbor = map[Direction][2]string{
		North: {"p0r21436x8zb9dcf5h7kjnmqesgutwvy", "bc01fg45238967deuvhjyznpkmstqrwx"},
		South: {"14365h7k9dcfesgujnmqp0r2twvyx8zb", "238967debc01fg45kmstqrwxuvhjyznp"},
		East:  {"bc01fg45238967deuvhjyznpkmstqrwx", "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
		West:  {"238967debc01fg45kmstqrwxuvhjyznp", "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	}
	geoBorder = map[Direction][2]string{
		North: {"prxz", "bcfguvyz"},
		South: {"028b", "0145hjnp"},
		East:  {"bcfguvyz", "prxz"},
		West:  {"0145hjnp", "028b"},
	}
)

// Encode maps a coordinate to a tile id of the given precision.
func Encode(lat, lon float64, precision int) (string, error) {
	vb := errors.NewValidationBuilder()
	if lat < -90 || lat > 90 {
		vb.InvalidField("lat", "must be in [-90, 90]")
	}
	if lon < -180 || lon > 180 {
		vb.InvalidField("lon", "must be in [-180, 180]")
	}
	if precision < 1 || precision > 12 {
		vb.InvalidField("precision", "must be in [1, 12]")
	}
	if err := vb.Build(); err != nil {
		return "", err
	}

	latMin, latMax := -90.0, 90.0
	lonMin, lonMax := -180.0, 180.0

	var sb strings.Builder
	evenBit := true
	idx := 0
	bit := 0

	for sb.Len() < precision {
		if evenBit {
			mid := (lonMin + lonMax) / 2
			if lon >= mid {
				idx = idx*2 + 1
				lonMin = mid
			} else {
				idx *= 2
				lonMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat >= mid {
				idx = idx*2 + 1
				latMin = mid
			} else {
				idx *= 2
				latMax = mid
			}
		}
		evenBit = !evenBit

		bit++
		if bit == 5 {
			sb.WriteByte(geoBase32[idx])
			bit = 0
			idx = 0
		}
	}

	return sb.String(), nil
}

// Adjacent returns the neighboring tile id in one cardinal direction,
// recursively adjusting the parent code at grid borders.
func Adjacent(tileID string, dir Direction) (string, error) {
	if tileID == "" {
		return "", errors.InvalidArgument("tile id is empty")
	}
	switch dir {
	case North, South, East, West:
	default:
		return "", errors.InvalidArgumentf("not a cardinal direction: %s", dir)
	}

	last := tileID[len(tileID)-1]
	parent := tileID[:len(tileID)-1]
	parity := len(tileID) % 2 // 0 even, 1 odd

	if strings.IndexByte(geoBorder[dir][parity], last) >= 0 && parent != "" {
		adjusted, err := Adjacent(parent, dir)
		if err != nil {
			return "", err
		}
		parent = adjusted
	}

	pos := strings.IndexByte(geoNeighbor[dir][parity], last)
	if pos < 0 {
		return "", errors.InvalidArgumentf("invalid tile id %q", tileID)
	}
	return parent + string(geoBase32[pos]), nil
}

// Neighbors returns all eight surrounding tile ids.
func Neighbors(tileID string) (map[Direction]string, error) {
	n, err := Adjacent(tileID, North)
	if err != nil {
		return nil, err
	}
	s, err := Adjacent(tileID, South)
	if err != nil {
		return nil, err
	}
	east, err := Adjacent(tileID, East)
	if err != nil {
		return nil, err
	}
	w, err := Adjacent(tileID, West)
	if err != nil {
		return nil, err
	}
	ne, err := Adjacent(n, East)
	if err != nil {
		return nil, err
	}
	nw, err := Adjacent(n, West)
	if err != nil {
		return nil, err
	}
	se, err := Adjacent(s, East)
	if err != nil {
		return nil, err
	}
	sw, err := Adjacent(s, West)
	if err != nil {
		return nil, err
	}

	return map[Direction]string{
		North: n, South: s, East: east, West: w,
		NorthEast: ne, NorthWest: nw, SouthEast: se, SouthWest: sw,
	}, nil
}
