package breadcrumb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocationDrivePath(t *testing.T) {
	loc, err := ParseLocation(`C:\Users\bob`)
	require.NoError(t, err)
	assert.Equal(t, "file", loc.PluginShortID)
	assert.Equal(t, `C:\Users\bob`, loc.PluginPath)
}

func TestParseLocationPluginEditPath(t *testing.T) {
	loc, err := ParseLocation("ftp:/home/bob")
	require.NoError(t, err)
	assert.Equal(t, "ftp", loc.PluginShortID)
	assert.Equal(t, "/home/bob", loc.PluginPath)
	assert.False(t, loc.HasInstanceCtx)
}

func TestParseLocationWithInstanceContext(t *testing.T) {
	loc, err := ParseLocation("ftp:session-1|/home/bob")
	require.NoError(t, err)
	assert.Equal(t, "ftp", loc.PluginShortID)
	assert.Equal(t, "session-1", loc.InstanceContext)
	assert.True(t, loc.HasInstanceCtx)
	assert.Equal(t, "/home/bob", loc.PluginPath)
}

func TestNormalizePluginPathFoldsAndTrims(t *testing.T) {
	assert.Equal(t, "/a/b/c", NormalizePluginPath(`\a\\b/c/`))
	assert.Equal(t, "/", NormalizePluginPath(""))
	assert.Equal(t, "/", NormalizePluginPath("///"))
}

func TestFormatEditPathRoundTripsThroughParse(t *testing.T) {
	edit := FormatEditPath("ftp", "/a/b")
	loc, err := ParseLocation(edit)
	require.NoError(t, err)
	assert.Equal(t, edit, FormatEditPath(loc.PluginShortID, loc.PluginPath))
}

func TestFormatEditPathFileShortIDIsBarePath(t *testing.T) {
	assert.Equal(t, `C:\foo`, FormatEditPath("file", `C:\foo`))
	assert.Equal(t, `C:\foo`, FormatEditPath("", `C:\foo`))
}

func TestFormatHistoryPathIncludesInstanceContext(t *testing.T) {
	got := FormatHistoryPath("ftp", "session-1", "/a/b")
	assert.Equal(t, "ftp:session-1|/a/b", got)
}

func TestFormatHistoryPathWithoutInstanceContext(t *testing.T) {
	got := FormatHistoryPath("ftp", "", "/a/b")
	assert.Equal(t, "ftp:/a/b", got)
}

// P12 (well-formed edit path round-trip, modulo trailing-slash
// normalization).
func TestLocationRoundTripProperty(t *testing.T) {
	cases := []string{
		`C:\Users\bob\Documents`,
		"ftp:/a/b/c",
	}
	for _, edit := range cases {
		loc, err := ParseLocation(edit)
		require.NoError(t, err)
		roundTripped := FormatEditPath(loc.PluginShortID, loc.PluginPath)
		loc2, err := ParseLocation(roundTripped)
		require.NoError(t, err)
		assert.Equal(t, loc.PluginShortID, loc2.PluginShortID)
		assert.Equal(t, NormalizePluginPath(loc.PluginPath), NormalizePluginPath(loc2.PluginPath))
	}
}

func TestHistoryPathRoundTrip(t *testing.T) {
	history := FormatHistoryPath("s3", "bucket-ctx", "/a/b")
	loc, err := ParseLocation(history)
	require.NoError(t, err)
	assert.Equal(t, "s3", loc.PluginShortID)
	assert.Equal(t, "bucket-ctx", loc.InstanceContext)
	assert.Equal(t, "/a/b", loc.PluginPath)
}
