// Package autonomy governs how much unattended action the brain is allowed
// to take: a monotonic-downgrade state machine plus a circuit breaker that
// force-locks on health degradation.
package autonomy

// Mode is the current automation ceiling.
type Mode string

const (
	Advisory       Mode = "ADVISORY"
	Observe        Mode = "OBSERVE"
	ConstrainedAct Mode = "CONSTRAINED_ACT"
	Autopilot      Mode = "AUTOPILOT"

	// Locked is the terminal safety state, reachable from any mode.
	Locked Mode = "LOCKED"
)

// rank orders the operating modes from least to most autonomous.
// Locked sits outside the ladder.
func (m Mode) rank() int {
	switch m {
	case Advisory:
		return 0
	case Observe:
		return 1
	case ConstrainedAct:
		return 2
	case Autopilot:
		return 3
	default:
		return -1
	}
}

// modeAtRank is the inverse of rank for the operating ladder.
func modeAtRank(r int) Mode {
	switch {
	case r <= 0:
		return Advisory
	case r == 1:
		return Observe
	case r == 2:
		return ConstrainedAct
	default:
		return Autopilot
	}
}

// IsUpgrade reports whether moving from to target raises autonomy.
func IsUpgrade(from, target Mode) bool {
	if from == Locked || target == Locked {
		return target != Locked && from == Locked
	}
	return target.rank() > from.rank()
}
