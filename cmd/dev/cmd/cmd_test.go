package cmd

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangelogArgs(t *testing.T) {
	assert.Equal(t, []string{"--output", "CHANGELOG.md"}, changelogArgs("", "", ""))
	assert.Equal(t, []string{"--next-tag", "v0.2.0", "--output", "CHANGES.md", "v0.1.0"},
		changelogArgs("v0.2.0", "CHANGES.md", "v0.1.0"))
}

func TestBuildTarget(t *testing.T) {
	assert.True(t, buildTarget{OS: runtime.GOOS, Arch: runtime.GOARCH}.native())
	assert.False(t, buildTarget{OS: "plan9", Arch: runtime.GOARCH}.native())
	assert.Equal(t, "./dev-linux-arm64", buildTarget{OS: "linux", Arch: "arm64"}.dockerDir())
}

func TestCommandsRegistered(t *testing.T) {
	for use, c := range map[string]interface{ Name() string }{
		"build":            BuildCmd(),
		"changelog":        ChangelogCmd(),
		"test":             TestCmd(),
		"lint":             LintCmd(),
		"integration-test": IntegrationTestCmd(),
	} {
		assert.Equal(t, use, c.Name())
	}
}
