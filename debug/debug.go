// Package debug holds process-wide diagnostic switches, read once from the
// environment, and the shared structured logger.
package debug

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

type debug struct {
	Registry bool
	Convert  bool
	Maker    bool
	IO       bool
}

var d *debug

func init() {
	d = &debug{}
	d.Registry = boolEnv("SKYARC_DEBUG_REGISTRY")
	d.Convert = boolEnv("SKYARC_DEBUG_CONVERT")
	d.Maker = boolEnv("SKYARC_DEBUG_MAKER")
	d.IO = boolEnv("SKYARC_DEBUG_IO")
	if d.Registry || d.Convert || d.Maker || d.IO {
		logger.SetLevel(log.DebugLevel)
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Registry() bool {
	return d.Registry
}
func Convert() bool {
	return d.Convert
}
func Maker() bool {
	return d.Maker
}
func IO() bool {
	return d.IO
}
