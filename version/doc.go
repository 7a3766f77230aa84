// Package version reports the datakit build version.
//
// Version and Commit are set at link time; otherwise the commit is read from
// the embedded VCS build settings:
//
//	go build -ldflags "-X github.com/kbukum/datakit/version.Version=1.2.0"
package version
