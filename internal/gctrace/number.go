package gctrace

import (
	"math"
	"strconv"
	"strings"
)

// number is a parsed trace field. Values written without a decimal point or
// exponent keep integer semantics so that heap sizes can be shifted; anything
// else is a float.
type number struct {
	i     int64
	f     float64
	isInt bool
}

func parseNumber(s string) (number, bool) {
	if s == "" {
		return number{}, false
	}
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return number{}, false
		}
		return number{i: i, isInt: true}, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return number{}, false
	}
	return number{f: f}, true
}

func (n number) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

// parseMillis converts a millisecond field to seconds.
func parseMillis(s string) (float64, bool) {
	n, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	return n.float() / 1e3, true
}

// parseSeconds converts a seconds field to float seconds.
func parseSeconds(s string) (float64, bool) {
	n, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	return n.float(), true
}

// parseInt accepts only integer-valued fields.
func parseInt(s string) (int, bool) {
	n, ok := parseNumber(s)
	if !ok || !n.isInt {
		return 0, false
	}
	return int(n.i), true
}

// maxMegabytes is the largest megabyte count whose byte size fits a uint64.
const maxMegabytes = math.MaxUint64 >> 20

// parseMegabytes converts an integer megabyte field to bytes. Sizes that
// would overflow are rejected.
func parseMegabytes(s string) (uint64, bool) {
	n, ok := parseNumber(s)
	if !ok || !n.isInt || n.i < 0 || uint64(n.i) > maxMegabytes {
		return 0, false
	}
	return uint64(n.i) << 20, true
}
