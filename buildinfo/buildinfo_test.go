package buildinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedAppInfo(t *testing.T) {
	assert.Equal(t, "swatchcard", App.Name)
	assert.NotEmpty(t, App.Description)
	assert.NotEmpty(t, App.Version)
	assert.False(t, App.BuildTime.IsZero())
	assert.Equal(t, App.VersionString(), All)
}

func TestParse(t *testing.T) {
	var info AppInfo
	err := parse([]byte("name: demo\n"), []byte("version: 1.2.3\ncommit_hash: abc123\nbuild_time: 2026-01-02T03:04:05Z\n"), &info)
	require.NoError(t, err)

	assert.Equal(t, "demo", info.Name)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Equal(t, "1.2.3 (abc123 at 2026-01-02T03:04:05Z)", info.VersionString())

	assert.Error(t, parse([]byte("name: ["), nil, &info))
}
