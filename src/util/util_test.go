package util

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Storage struct {
		Backend  string `mapstructure:"backend"`
		Location string `mapstructure:"location"`
	} `mapstructure:"storage"`
	Downloader struct {
		Worker uint32 `mapstructure:"worker"`
	} `mapstructure:"downloader"`
}

func TestReadConfig(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "config.yaml")
	content := "storage:\n  backend: csv\n  location: ./data\ndownloader:\n  worker: 4\n"
	require.NoError(t, ioutil.WriteFile(fp, []byte(content), 0644))

	os.Setenv("STORAGE_LOCATION", "/tmp/blogsync")
	defer os.Unsetenv("STORAGE_LOCATION")

	var cfg sampleConfig
	require.NoError(t, ReadConfig(fp, &cfg))
	assert.Equal(t, "csv", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/blogsync", cfg.Storage.Location)
	assert.Equal(t, uint32(4), cfg.Downloader.Worker)
}

func TestReadConfig_MissingFile(t *testing.T) {
	var cfg sampleConfig
	assert.Error(t, ReadConfig(filepath.Join(t.TempDir(), "none.yaml"), &cfg))
}

func TestResolveURL(t *testing.T) {
	cases := []struct {
		base, ref, want string
	}{
		{"https://blog.griddynamics.com/explore/", "/new-post/", "https://blog.griddynamics.com/new-post/"},
		{"https://blog.griddynamics.com/explore/", "https://example.com/a/#top", "https://example.com/a/"},
		{"https://blog.griddynamics.com/author/jane/", " ../john/ ", "https://blog.griddynamics.com/author/john/"},
	}
	for _, c := range cases {
		got, err := ResolveURL(c.base, c.ref)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, UniqueStrings([]string{"b", "", "a", "b"}))
	assert.Empty(t, UniqueStrings(nil))
}

func TestStringSliceEqual(t *testing.T) {
	assert.True(t, StringSliceEqual([]string{"a", "b"}, []string{"a", "b"}))
	assert.False(t, StringSliceEqual([]string{"a"}, []string{"a", "b"}))
	assert.False(t, StringSliceEqual([]string{"a", "c"}, []string{"a", "b"}))
}
