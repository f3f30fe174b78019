// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppBuildInfo identifies the cartesius binary that resolved a run. The
// values are set with -ldflags "-X main.buildVersion=..." at release time and
// are empty in development builds.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

// NewAppBuildInfo bundles the linker-provided version, date and commit.
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{version: version, date: date, commit: commit}
}

// BuildVersion returns the release version, empty for development builds.
func (a AppBuildInfo) BuildVersion() string { return a.version }

// BuildDate returns the build timestamp.
func (a AppBuildInfo) BuildDate() string { return a.date }

// BuildCommit returns the commit the binary was built from.
func (a AppBuildInfo) BuildCommit() string { return a.commit }

// Known reports whether any build metadata was injected.
func (a AppBuildInfo) Known() bool {
	return a.version != "" || a.date != "" || a.commit != ""
}
