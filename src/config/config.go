package config

type Config struct {
	Log struct {
		Context bool   `mapstructure:"context"`
		Level   string `mapstructure:"level"`
		File    string `mapstructure:"file"` // 为空时只输出到stdout
	} `mapstructure:"log"`

	Site struct {
		BaseURL    string `mapstructure:"base_url"`
		IndexURL   string `mapstructure:"index_url"`   // 全部作者列表页，全量抓取的入口
		ListingURL string `mapstructure:"listing_url"` // 文章列表页，增量同步的入口
		// 从作者列表页无法到达的作者页（死链），全量抓取时补充
		ExtraAuthors []string `mapstructure:"extra_authors"`
	} `mapstructure:"site"`

	Core struct {
		SeedFilePath string `mapstructure:"seed_file_path"`
		SyncInterval uint32 `mapstructure:"sync_interval"` // 秒，0表示只运行一次
		ReportTopN   uint32 `mapstructure:"report_top_n"`
	} `mapstructure:"core"`

	Storage struct {
		Backend  string `mapstructure:"backend"` // csv / db
		Location string `mapstructure:"location"`
		Driver   string `mapstructure:"driver"` // postgres / sqlite3
		URL      string `mapstructure:"url"`
	} `mapstructure:"storage"`

	Downloader struct {
		Worker    uint32 `mapstructure:"worker"`
		Timeout   uint32 `mapstructure:"timeout"`
		Retry     uint32 `mapstructure:"retry"`
		UserAgent string `mapstructure:"user_agent"`
	} `mapstructure:"downloader"`
}

const (
	BackendCSV = "csv"
	BackendDB  = "db"
)

// 未配置的字段使用默认值
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = "https://blog.griddynamics.com"
	}
	if c.Site.IndexURL == "" {
		c.Site.IndexURL = c.Site.BaseURL + "/all-authors/"
	}
	if c.Site.ListingURL == "" {
		c.Site.ListingURL = c.Site.BaseURL + "/explore/"
	}
	if c.Site.ExtraAuthors == nil {
		c.Site.ExtraAuthors = []string{
			"/author/ezra/",
			"/author/anton/",
			"/author/pavel-vasilyev/",
		}
	}
	if c.Core.ReportTopN == 0 {
		c.Core.ReportTopN = 5
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendCSV
	}
	if c.Storage.Location == "" {
		c.Storage.Location = "."
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite3"
	}
	if c.Downloader.Worker == 0 {
		c.Downloader.Worker = 4
	}
	if c.Downloader.Timeout == 0 {
		c.Downloader.Timeout = 10
	}
	if c.Downloader.Retry == 0 {
		c.Downloader.Retry = 3
	}
	if c.Downloader.UserAgent == "" {
		c.Downloader.UserAgent = "blogsync/0.1"
	}
}
