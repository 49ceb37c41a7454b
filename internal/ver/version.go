package ver

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Load reads the version from the build info embedded by the go toolchain.
func Load() Version {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version{
			Version:   "devel",
			GoVersion: runtime.Version(),
			Revision:  "unknown",
			BuildTime: "unknown",
		}
	}

	v := Version{
		Version:   info.Main.Version,
		GoVersion: info.GoVersion,
		Revision:  "unknown",
		BuildTime: "unknown",
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			v.Revision = setting.Value
		case "vcs.time":
			v.BuildTime = setting.Value
		case "vcs.modified":
			v.Dirty = setting.Value == "true"
		}
	}
	return v
}

type Version struct {
	Version   string
	GoVersion string
	Revision  string
	BuildTime string
	Dirty     bool
}

func (v Version) Commit() string {
	if len(v.Revision) > 7 {
		return v.Revision[:7]
	}
	return v.Revision
}

// String returns a single line version usable in logs and telemetry resources.
func (v Version) String() string {
	s := v.Version + " (" + v.Commit()
	if v.Dirty {
		s += ", dirty"
	}
	return s + ")"
}

func (v Version) Format() string {
	buildTimeStr := "unknown"
	if buildTime, err := time.Parse(time.RFC3339, v.BuildTime); err == nil {
		buildTimeStr = buildTime.Format(time.ANSIC)
	}

	return fmt.Sprintf("Go Version: %s\nVersion: %s\nCommit: %s\nBuild Time: %s\nOS/Arch: %s/%s\n", v.GoVersion, v.Version, v.Commit(), buildTimeStr, runtime.GOOS, runtime.GOARCH)
}
