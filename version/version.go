package version

import (
	"runtime/debug"
)

var (
	// Version is the release version, set with -ldflags.
	Version = "dev"
	// Commit is the VCS revision, set with -ldflags.
	Commit = ""
)

const shortCommitLen = 7

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get returns the build information, filling gaps from debug.ReadBuildInfo.
func Get() Info {
	return fromBuildInfo(Version, Commit, readBuildInfo)
}

// String returns "version" or "version-commit", with a "-dirty" suffix for
// builds from a modified tree.
func (i Info) String() string {
	s := i.Version
	if i.Commit != "" {
		s += "-" + i.Commit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// Short returns Get().String().
func Short() string {
	return Get().String()
}

var readBuildInfo = debug.ReadBuildInfo

func fromBuildInfo(ver, commit string, read func() (*debug.BuildInfo, bool)) Info {
	info := Info{Version: ver, Commit: commit}
	bi, ok := read()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = setting.Value
			}
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	if len(info.Commit) > shortCommitLen {
		info.Commit = info.Commit[:shortCommitLen]
	}
	return info
}
