package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

func read() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// Version returns the module version or "dev" when unset.
func Version() string {
	return versionOf(read())
}

func versionOf(info *debug.BuildInfo) string {
	if info == nil {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return "dev"
}

func setting(info *debug.BuildInfo, key string) string {
	if info == nil {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// String describes the running binary, e.g.
// "dev (rev 1a2b3c4d5e6f, dirty, tags: netgo)".
func String() string {
	return describe(read())
}

func describe(info *debug.BuildInfo) string {
	var extras []string
	if rev := setting(info, "vcs.revision"); rev != "" {
		if len(rev) > 12 {
			rev = rev[:12]
		}
		extras = append(extras, "rev "+rev)
	}
	if setting(info, "vcs.modified") == "true" {
		extras = append(extras, "dirty")
	}
	if tags := setting(info, "-tags"); tags != "" {
		extras = append(extras, "tags: "+tags)
	}
	version := versionOf(info)
	if len(extras) == 0 {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, strings.Join(extras, ", "))
}
