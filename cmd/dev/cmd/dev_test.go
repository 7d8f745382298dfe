package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	goos, goarch, err := parseTarget("linux/arm64")
	require.NoError(t, err)
	assert.Equal(t, "linux", goos)
	assert.Equal(t, "arm64", goarch)

	for _, target := range []string{"", "linux", "/arm", "linux/"} {
		_, _, err := parseTarget(target)
		assert.Error(t, err, target)
	}
}

func TestBoardsHaveValidTargets(t *testing.T) {
	for board, target := range boards {
		_, _, err := parseTarget(target)
		assert.NoError(t, err, board)
	}
}

func TestChangelogArgs(t *testing.T) {
	assert.Equal(t, []string{"--output", "CHANGELOG.md"}, changelogArgs("CHANGELOG.md", "", nil))
	assert.Equal(t, []string{"--output", "out.md", "--next-tag", "v0.2.0", "v0.1.0.."},
		changelogArgs("out.md", "v0.2.0", []string{"v0.1.0.."}))
}
