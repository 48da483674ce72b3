package loop

import (
	"strings"

	"github.com/tomz197/invaders/internal/config"
	gameconfig "github.com/tomz197/invaders/internal/loop/config"
)

// Terminals below this size get the reduced tick rate.
const (
	minFullWidth  = 80
	minFullHeight = 24
)

// DetectConstrained reports whether the host should run at the reduced tick rate:
// INVADERS_LOW_POWER is set, the terminal type is a basic console, or the window
// is smaller than 80x24.
func DetectConstrained(term string, width, height int) bool {
	if config.GetEnvBool("INVADERS_LOW_POWER", false) {
		return true
	}
	switch strings.ToLower(term) {
	case "dumb", "linux", "vt100", "vt102", "vt220":
		return true
	}
	if width > 0 && height > 0 && (width < minFullWidth || height < minFullHeight) {
		return true
	}
	return false
}

// TickRate returns the tick rate for a host.
func TickRate(constrained bool) int {
	if constrained {
		return gameconfig.ConstrainedTPS
	}
	return gameconfig.TargetTPS
}
