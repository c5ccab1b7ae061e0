package ccsds

import (
	"fmt"
	"runtime/debug"
	"strconv"
)

// Set at build time via `-ldflags "-X 'github.com/doismellburning/ccsdsframe/src.CCSDSFRAME_VERSION=X'"`
var CCSDSFRAME_VERSION string

func buildSetting(bi *debug.BuildInfo, key string, defaultValue string) string {
	if bi == nil {
		return defaultValue
	}
	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}
	return defaultValue
}

// versionString describes the running binary for --version.
func versionString(program string) string {
	var bi, _ = debug.ReadBuildInfo()

	var revision = buildSetting(bi, "vcs.revision", "UNKNOWN")
	if dirty, err := strconv.ParseBool(buildSetting(bi, "vcs.modified", "false")); err == nil && dirty {
		revision += "-DIRTY"
	}

	var version = IfThenElse(CCSDSFRAME_VERSION == "", "!UNKNOWN!", CCSDSFRAME_VERSION)

	return fmt.Sprintf("%s - Version %s (revision %s, built at %s)",
		program, version, revision, buildSetting(bi, "vcs.time", "UNKNOWN"))
}
