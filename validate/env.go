package validate

import (
	"os"
	"sync/atomic"
)

var (
	enabled    atomic.Bool
	strictRead atomic.Bool
)

func init() {
	enabled.Store(!isFalse(os.Getenv("SKYARC_VALIDATE")))
	strictRead.Store(!isFalse(os.Getenv("SKYARC_STRICT_VALIDATION")))
}

func isFalse(v string) bool {
	switch v {
	case "0", "false", "no", "off":
		return true
	}
	return false
}

// Enabled reports whether validation runs at all. Initialized from
// SKYARC_VALIDATE (default on).
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled switches validation on or off process-wide.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// StrictRead reports whether unresolvable tags abort a read instead of
// degrading to the tolerant path. On by default; SKYARC_STRICT_VALIDATION=0
// opts into tolerant reads.
func StrictRead() bool {
	return strictRead.Load()
}

// SetStrictRead switches strict reads on or off process-wide.
func SetStrictRead(on bool) {
	strictRead.Store(on)
}
