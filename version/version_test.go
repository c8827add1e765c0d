package version

import (
	"strings"
	"testing"
)

// withBuildVars sets the ldflags variables for one test and restores
// them on cleanup.
func withBuildVars(t *testing.T, version, commit, branch, buildTime string) {
	t.Helper()
	prevVersion, prevCommit := Version, GitCommit
	prevBranch, prevBuildTime := GitBranch, BuildTime
	Version, GitCommit, GitBranch, BuildTime = version, commit, branch, buildTime
	t.Cleanup(func() {
		Version, GitCommit = prevVersion, prevCommit
		GitBranch, BuildTime = prevBranch, prevBuildTime
	})
}

func TestGetVersionInfo_DevDefaults(t *testing.T) {
	withBuildVars(t, "dev", "", "", "")

	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Fatalf("Version = %q", info.Version)
	}
	if info.IsRelease {
		t.Error("a dev build must not report as a release")
	}
	if info.BuildDate.IsZero() {
		t.Error("BuildDate must be backfilled when no build time is set")
	}
}

func TestGetVersionInfo_ReleaseBuild(t *testing.T) {
	withBuildVars(t, "1.2.0", "abc1234", "main", "2026-03-01T12:00:00Z")

	info := GetVersionInfo()
	if !info.IsRelease {
		t.Error("tagged build must report as a release")
	}
	if info.GitCommit != "abc1234" {
		t.Fatalf("GitCommit = %q", info.GitCommit)
	}
	if info.BuildDate.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("BuildDate = %v", info.BuildDate)
	}
}

func TestGetShortVersion(t *testing.T) {
	withBuildVars(t, "1.2.0", "abc1234", "main", "")

	got := GetShortVersion()
	if !strings.HasPrefix(got, "1.2.0-abc1234") {
		t.Fatalf("GetShortVersion = %q", got)
	}
}

func TestGetFullVersion_SkipsDefaultBranch(t *testing.T) {
	withBuildVars(t, "1.2.0", "abc1234", "main", "2026-03-01T12:00:00Z")

	got := GetFullVersion()
	if strings.Contains(got, "main") {
		t.Fatalf("default branch should be omitted: %q", got)
	}
	if !strings.Contains(got, "1.2.0-abc1234") || !strings.Contains(got, "built 2026-03-01") {
		t.Fatalf("GetFullVersion = %q", got)
	}
}

func TestGetFullVersion_IncludesFeatureBranch(t *testing.T) {
	withBuildVars(t, "1.2.0", "abc1234", "feature/x", "")

	if got := GetFullVersion(); !strings.Contains(got, "feature/x") {
		t.Fatalf("GetFullVersion = %q", got)
	}
}
