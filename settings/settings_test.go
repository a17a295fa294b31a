package settings

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestNewSettingsRequiresAllThreeFields(t *testing.T) {
	_, err := NewSettings("", "DSOC", 4)
	assert.ErrorContains(t, err, "missing required setting")

	_, err = NewSettings("http://locator.example/", "", 4)
	assert.ErrorContains(t, err, "missing required setting")

	_, err = NewSettings("http://locator.example/", "DSOC", 0)
	assert.ErrorContains(t, err, "missing required setting")

	s, err := NewSettings("http://locator.example/", "DSOC", 4)
	assert.NilError(t, err)
	assert.Equal(t, 4, s.ThreadsPerHost)
}

func TestNewRequestRejectsNeitherLocatorNorFile(t *testing.T) {
	_, err := NewRequest("", "", "/tmp/out", false, false, false, false, "")
	assert.ErrorContains(t, err, "missing required setting")
}

func TestNewRequestRejectsBothLocatorAndFile(t *testing.T) {
	_, err := NewRequest("abc123", "/tmp/report.json", "/tmp/out", false, false, false, false, "")
	assert.ErrorContains(t, err, "missing required setting")
}

func TestNewRequestAcceptsLocatorOnly(t *testing.T) {
	r, err := NewRequest("abc123", "", "/tmp/out", false, false, false, false, "")
	assert.NilError(t, err)
	assert.Equal(t, "abc123", r.ProductLocator)
}

func TestNewRequestAcceptsFileOnly(t *testing.T) {
	r, err := NewRequest("", "/tmp/report.json", "/tmp/out", true, true, true, true, "prod")
	assert.NilError(t, err)
	assert.Equal(t, "/tmp/report.json", r.LocationFilePath)
	assert.Equal(t, true, r.DryRun)
}
