package contracts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, DataFormatVersion, info.DataFormat)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.OS)
	assert.NotEmpty(t, info.Architecture)
}

func TestGetVersionString(t *testing.T) {
	s := GetVersionString()

	assert.True(t, strings.HasPrefix(s, "TabSum v"))
	assert.Contains(t, s, Version)
}
