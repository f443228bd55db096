package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://blog.griddynamics.com/all-authors/", cfg.Site.IndexURL)
	assert.Equal(t, "https://blog.griddynamics.com/explore/", cfg.Site.ListingURL)
	assert.Len(t, cfg.Site.ExtraAuthors, 3)
	assert.Equal(t, BackendCSV, cfg.Storage.Backend)
	assert.Equal(t, uint32(4), cfg.Downloader.Worker)
	assert.Equal(t, uint32(5), cfg.Core.ReportTopN)
}

func TestSetDefaults_KeepsConfigured(t *testing.T) {
	var cfg Config
	cfg.Site.BaseURL = "http://localhost:8080"
	cfg.Site.ExtraAuthors = []string{}
	cfg.Storage.Backend = BackendDB
	cfg.Downloader.Worker = 1
	cfg.SetDefaults()

	assert.Equal(t, "http://localhost:8080/explore/", cfg.Site.ListingURL)
	assert.Empty(t, cfg.Site.ExtraAuthors)
	assert.Equal(t, BackendDB, cfg.Storage.Backend)
	assert.Equal(t, uint32(1), cfg.Downloader.Worker)
}
