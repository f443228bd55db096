package enum

const (
	// 页面抓取结果，只区分成功与失败，重试由downloader内部完成
	PageStateSuccess = 1
	PageStateFail    = 2
)

// 同步过程的阶段，致命错误会携带所在阶段
const (
	StageState     = "state"
	StageDiscovery = "discovery"
	StageFetch     = "fetch"
	StageMerge     = "merge"
)

// 进度通知的类别，序号在各类别内单独递增
const (
	ProgressAuthors  = "authors"
	ProgressArticles = "articles"
)

// 一次同步的完成状态
const (
	StatusSynced     = "synced"
	StatusNoNewPosts = "no_new_posts"
)

// 同步模式
const (
	ModeFull        = "full"
	ModeIncremental = "incremental"
)

const (
	// 列表页与文章页上展示的日期格式，例如 "Mar 03, 2020"
	DisplayDateLayout = "Jan 2, 2006"
	// 数据集中publication_date的存储格式
	StoreDateLayout = "2006-01-02"

	// 摘要在累计长度超过该值后被截断为 SynopsisLimit+1 个字符
	SynopsisLimit = 160

	LinkedInMarker = "linkedin"
)
