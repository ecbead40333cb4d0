package backend

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Minimum supported p4 release. Older clients do not report "Client stream"
// in p4 info, which path translation depends on.
var minVersion = Version{Year: 2012, Release: 1}

// Version is the client revision reported by p4 -V, e.g.
// "Rev. P4/LINUX26X86_64/2023.1/2468153 (2023/05/23)."
type Version struct {
	Platform string
	Year     int
	Release  int
	Change   int
}

var revLineRe = regexp.MustCompile(`Rev\.\s+P4/([^/\s]+)/(\d+)\.(\d+)(?:\.[^/]*)?/(\d+)`)

func MinVersion() string {
	return fmt.Sprintf("%d.%d", minVersion.Year, minVersion.Release)
}

func (v Version) String() string {
	if v.Platform == "" {
		return fmt.Sprintf("%d.%d/%d", v.Year, v.Release, v.Change)
	}
	return fmt.Sprintf("%d.%d/%d (%s)", v.Year, v.Release, v.Change, v.Platform)
}

func (v Version) less(other Version) bool {
	if v.Year != other.Year {
		return v.Year < other.Year
	}
	return v.Release < other.Release
}

func parseVersionOutput(out string) (Version, bool) {
	for line := range strings.Lines(out) {
		m := revLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[2])
		if err != nil {
			return Version{}, false
		}
		release, err := strconv.Atoi(m[3])
		if err != nil {
			return Version{}, false
		}
		change, err := strconv.Atoi(m[4])
		if err != nil {
			return Version{}, false
		}
		return Version{Platform: m[1], Year: year, Release: release, Change: change}, true
	}
	return Version{}, false
}

func validateVersionOutput(out string) (Version, error) {
	got, ok := parseVersionOutput(out)
	if !ok {
		return Version{}, fmt.Errorf("unable to parse p4 version output: %q", strings.TrimSpace(out))
	}
	if got.less(minVersion) {
		return got, fmt.Errorf("p4 %d.%d is too old; p4x requires p4 >= %s", got.Year, got.Release, MinVersion())
	}
	return got, nil
}

// Version runs p4 -V once per CLI and caches the outcome.
func (c *CLI) Version() (Version, error) {
	c.versionOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		outBytes, err := exec.CommandContext(ctx, c.binary, "-V").CombinedOutput()
		out := strings.TrimSpace(string(outBytes))
		if err != nil {
			if out != "" {
				c.versionErr = fmt.Errorf("p4 -V: %v: %s", err, out)
				return
			}
			c.versionErr = fmt.Errorf("p4 -V: %w", err)
			return
		}
		c.version, c.versionErr = validateVersionOutput(out)
	})
	return c.version, c.versionErr
}

func (c *CLI) ensureMinVersion() error {
	_, err := c.Version()
	return err
}
