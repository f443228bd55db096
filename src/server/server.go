package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/urfave/cli.v1"

	"github.com/andrewyi/blogsync/src/analyzer"
	"github.com/andrewyi/blogsync/src/config"
	"github.com/andrewyi/blogsync/src/controller"
	"github.com/andrewyi/blogsync/src/core"
	"github.com/andrewyi/blogsync/src/dbstorage"
	"github.com/andrewyi/blogsync/src/downloader"
	"github.com/andrewyi/blogsync/src/entity"
	"github.com/andrewyi/blogsync/src/enum"
	"github.com/andrewyi/blogsync/src/filestorage"
	"github.com/andrewyi/blogsync/src/recordstore"
	"github.com/andrewyi/blogsync/src/report"
	"github.com/andrewyi/blogsync/src/util"
)

type Server struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger
	config *config.Config

	store recordstore.RecordStore
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) initLog() {
	var logger = log.New()
	logger.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	var out io.Writer = os.Stdout
	if s.config.Log.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:  s.config.Log.File,
			MaxSize:   200,
			LocalTime: true,
			Compress:  true,
		})
	}
	logger.SetOutput(out)

	if s.config.Log.Context {
		logger.SetReportCaller(true)
	}

	if logLevel, err := log.ParseLevel(s.config.Log.Level); err != nil {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(logLevel)
	}
	s.logger = logger
}

// 读取配置、初始化日志与存储，每个命令执行前调用
func (s *Server) init(ctx *cli.Context) error {
	configPath := ctx.GlobalString("config")
	var cfg = &config.Config{}
	if err := util.ReadConfig(configPath, cfg); err != nil {
		return fmt.Errorf("fail to load config, err: %w", err)
	}
	cfg.SetDefaults()
	s.config = cfg

	s.initLog()

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("fail to open %s storage, err: %w", cfg.Storage.Backend, err)
	}
	s.store = store

	s.watchSignal()
	return nil
}

func newStore(cfg *config.Config) (recordstore.RecordStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendCSV:
		return filestorage.NewSimpleFileStorage(cfg.Storage.Location)
	case config.BackendDB:
		dbURL := cfg.Storage.URL
		if dbURL == "" && cfg.Storage.Driver == dbstorage.DriverSqlite3 {
			dbURL = filepath.Join(cfg.Storage.Location, "blogsync.db")
		}
		return dbstorage.NewSimpleDBStorage(cfg.Storage.Driver, dbURL)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func (s *Server) env() controller.Env {
	cfg := s.config
	return controller.Env{
		Logger:     s.logger,
		Store:      s.store,
		Downloader: downloader.NewSimpleDownloader(cfg.Downloader.Timeout, cfg.Downloader.Retry, cfg.Downloader.UserAgent),
		Analyzer:   analyzer.NewSimpleAnalyzer(),
		Worker:     cfg.Downloader.Worker,
		Progress:   s.logProgress,
	}
}

func (s *Server) logProgress(p entity.Progress) {
	s.logger.WithFields(log.Fields{
		"kind":    p.Stage,
		"current": p.Current,
		"total":   p.Total,
		"url":     p.URL,
	}).Debug("progress")
}

func (s *Server) newController(mode string) (controller.Controller, error) {
	switch mode {
	case enum.ModeFull:
		seeds, err := core.LoadSeedAuthors(s.config.Core.SeedFilePath)
		if err != nil {
			return nil, fmt.Errorf("fail to read seed file, err: %w", err)
		}
		extra := append(append([]string{}, s.config.Site.ExtraAuthors...), seeds...)
		return controller.NewFullCrawlController(s.env(), s.config.Site.IndexURL, extra), nil
	case enum.ModeIncremental:
		return controller.NewIncrementalController(s.env(), s.config.Site.ListingURL), nil
	}
	return nil, fmt.Errorf("unknown sync mode %q", mode)
}

func (s *Server) runOnce(ctx context.Context, mode string) error {
	if mode == "" {
		var err error
		if mode, err = core.SelectMode(s.store); err != nil {
			return fmt.Errorf("fail to inspect storage, err: %w", err)
		}
	}
	c, err := s.newController(mode)
	if err != nil {
		return err
	}

	s.logger.WithField("mode", mode).Info("sync started")
	result, err := c.Sync(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("mode", mode).Error("sync failed")
		return err
	}
	s.logger.WithFields(log.Fields{
		"run":       result.RunID,
		"mode":      result.Mode,
		"status":    result.Status,
		"articles":  result.NewArticles,
		"authors":   result.NewAuthors,
		"updated":   result.UpdatedAuthors,
		"watermark": result.WatermarkAfter.Format(enum.StoreDateLayout),
	}).Info("sync completed")
	return nil
}

// Sync 根据数据集状态选择模式，配置了间隔时周期运行直到收到中断信号
func (s *Server) Sync(ctx *cli.Context) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	defer s.Stop()

	interval := s.config.Core.SyncInterval
	if ctx.IsSet("interval") {
		interval = uint32(ctx.Uint("interval"))
	}
	if interval == 0 {
		return s.runOnce(s.ctx, "")
	}

	s.logger.WithField("interval", interval).Info("periodic sync enabled")
	done := core.CreatePeriodicTask(s.ctx, s.logger, interval, func(ctx context.Context) error {
		return s.runOnce(ctx, "")
	})
	<-done
	return nil
}

// Crawl 强制全量抓取，数据集非空时拒绝执行
func (s *Server) Crawl(ctx *cli.Context) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	defer s.Stop()
	return s.runOnce(s.ctx, enum.ModeFull)
}

// Check 强制增量同步，要求已有数据
func (s *Server) Check(ctx *cli.Context) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	defer s.Stop()
	return s.runOnce(s.ctx, enum.ModeIncremental)
}

func (s *Server) Report(ctx *cli.Context) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	defer s.Stop()

	topN := int(s.config.Core.ReportTopN)
	if ctx.IsSet("top") {
		topN = ctx.Int("top")
	}
	r, err := report.Build(s.store, topN)
	if err != nil {
		return fmt.Errorf("fail to build report, err: %w", err)
	}
	return report.Render(os.Stdout, r)
}

// 收到中断信号后取消当前同步，页面之间检查取消
func (s *Server) watchSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(c)
		select {
		case <-c:
			s.logger.Warn("interrupt signal, server gonna stop")
			s.cancel()
		case <-s.ctx.Done():
		}
	}()
}

func (s *Server) Stop() {
	s.cancel()
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.WithError(err).Error("fail to close storage")
		}
	}
}
