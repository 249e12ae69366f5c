package tips

import (
	"strconv"
	"strings"
)

// DeviceChecker decides whether a client device may request generated tips.
type DeviceChecker interface {
	Compatible(model string) bool
}

// ModelChecker accepts hardware identifiers such as "iPhone16,2" whose major
// generation number is at least MinMajor. Unparseable identifiers are rejected.
type ModelChecker struct {
	MinMajor int
}

// Compatible implements DeviceChecker.
func (c ModelChecker) Compatible(model string) bool {
	return ModelMajor(model) >= c.MinMajor
}

// ModelMajor extracts the major generation from an identifier like
// "iPhone16,2". It returns 0 when none can be parsed.
func ModelMajor(model string) int {
	model = strings.TrimSpace(model)
	start := strings.IndexFunc(model, isDigit)
	if start < 0 {
		return 0
	}
	digits := model[start:]
	if end := strings.IndexFunc(digits, func(r rune) bool { return !isDigit(r) }); end >= 0 {
		digits = digits[:end]
	}
	major, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return major
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// FixedChecker returns the same answer for every device.
type FixedChecker bool

// Compatible implements DeviceChecker.
func (f FixedChecker) Compatible(string) bool {
	return bool(f)
}

// NewDeviceChecker builds the checker selected by a configuration override:
// "always", "never", or anything else for a ModelChecker with minMajor.
func NewDeviceChecker(override string, minMajor int) DeviceChecker {
	switch override {
	case "always":
		return FixedChecker(true)
	case "never":
		return FixedChecker(false)
	default:
		return ModelChecker{MinMajor: minMajor}
	}
}
