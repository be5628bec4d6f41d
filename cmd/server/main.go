package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/wfunc/last-crusade/internal/api"
	"github.com/wfunc/last-crusade/internal/config"
	"github.com/wfunc/last-crusade/internal/database"
	"github.com/wfunc/last-crusade/internal/errors"
	"github.com/wfunc/last-crusade/internal/logger"
	"github.com/wfunc/last-crusade/internal/middleware"
	"github.com/wfunc/last-crusade/internal/service"
	"github.com/wfunc/last-crusade/internal/utils"
	"github.com/wfunc/last-crusade/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	db   *gorm.DB
	hub  *websocket.Hub
	http *http.Server

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	setupSystem(&cfg.System)
	printStartInfo(cfg)

	server := NewServer(cfg)

	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:    cfg,
		logger: logger.GetLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("正在启动 Arthur's Last Crusade 服务器...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)

	if err := s.initDatabase(); err != nil {
		return err
	}

	if err := s.startHTTP(); err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "启动HTTP服务失败")
	}

	config.Watch(func(newCfg *config.Config) {
		s.logger.Info("配置已更新，正在重新加载...")
		s.reloadConfig(newCfg)
	})

	s.logger.Info("服务器启动成功", zap.String("http", s.cfg.Server.Addr()))
	return nil
}

// initDatabase 初始化数据库
func (s *Server) initDatabase() error {
	s.logger.Info("初始化数据库...")

	db, err := database.Open(&s.cfg.Database, logger.WithModule("database"))
	if err != nil {
		return errors.Wrap(err, errors.ErrDatabaseConnect, "初始化数据库连接失败")
	}
	s.db = db

	if s.cfg.Database.AutoMigrate {
		s.logger.Info("执行数据库自动迁移...")
		start := time.Now()
		err := database.AutoMigrate(db, logger.WithModule("database"))
		logger.LogDatabaseOperation("migrate", "all", time.Since(start), err)
		if err != nil {
			return errors.Wrap(err, errors.ErrDatabaseConnect, "数据库迁移失败")
		}
	}

	if err := database.SeedWorlds(db, s.cfg.Seed.Worlds, s.logger); err != nil {
		return errors.Wrap(err, errors.ErrDatabaseInsert, "初始化世界失败")
	}

	s.logger.Info("数据库初始化完成")
	return nil
}

// startHTTP 组装服务并启动HTTP监听
func (s *Server) startHTTP() error {
	jwtCfg := s.cfg.Security.JWT
	tokens, err := utils.NewAPIKeyManager(jwtCfg.Secret, jwtCfg.Issuer, time.Duration(jwtCfg.ExpireHours)*time.Hour)
	if err != nil {
		return err
	}

	var (
		publisher service.EventPublisher
		events    *websocket.Handler
	)
	if s.cfg.WebSocket.Enabled {
		s.hub = websocket.NewHub(logger.WithModule("websocket"), s.cfg.WebSocket.PingInterval)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.hub.Run(s.ctx)
		}()
		publisher = s.hub
		events = websocket.NewHandler(s.hub, &s.cfg.WebSocket)
	}

	services := service.NewServices(s.db, service.ConfigFrom(&s.cfg.Game), logger.WithModule("service"), publisher)

	auth := middleware.NewAPIKeyMiddleware(&s.cfg.Security, tokens, logger.WithModule("auth"))
	if !auth.Enabled() {
		s.logger.Warn("未配置任何API Key，所有游戏接口都将拒绝访问")
	}

	router := api.NewRouter(api.Options{
		DB:       s.db,
		Services: services,
		Auth:     auth,
		Events:   events,
		Config:   s.cfg,
		Logger:   s.logger,
	})

	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP服务异常退出", zap.Error(err))
		}
	}()

	return nil
}

// WaitForShutdown 等待关闭信号
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)

	signal.Notify(sigCh,
		syscall.SIGINT,  // Ctrl+C
		syscall.SIGTERM, // kill命令
		syscall.SIGQUIT, // Ctrl+\
	)

	sig := <-sigCh
	s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("停止接收新请求...")
	if s.http != nil {
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP服务关闭失败", zap.Error(err))
		}
	}

	// 取消主上下文，事件推送随之退出
	if s.hub != nil {
		s.logger.Info("关闭事件推送", zap.Int("clients", s.hub.GetOnlineCount()))
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("所有服务已正常关闭")
	case <-shutdownCtx.Done():
		s.logger.Warn("关闭超时，强制退出")
		return errors.New(errors.ErrTimeout, "关闭超时")
	}

	if err := database.Close(s.db); err != nil {
		s.logger.Error("关闭数据库失败", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		fmt.Printf("同步日志失败: %v\n", err)
	}

	return nil
}

// reloadConfig 重新加载配置，目前只有日志级别可以热更新
func (s *Server) reloadConfig(newCfg *config.Config) {
	logger.SetLevel(newCfg.Log.Level)
	s.logger.Info("配置重新加载完成", zap.String("log_level", newCfg.Log.Level))
}

// setupSystem 设置系统参数
func setupSystem(cfg *config.SystemConfig) {
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			time.Local = loc
		}
	}

	if cfg.MaxProcs > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcs)
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("Arthur's Last Crusade 服务器\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("Arthur's Last Crusade 服务器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  crusade-server [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  CRUSADE_SERVER_PORT          监听端口")
	fmt.Println("  CRUSADE_DATABASE_DRIVER      数据库驱动 (sqlite/postgres/mysql)")
	fmt.Println("  CRUSADE_DATABASE_DSN         数据库连接串")
	fmt.Println("  CRUSADE_SECURITY_JWT_SECRET  API令牌签名密钥")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  crusade-server -config=/path/to/config.yaml")
	fmt.Println("  crusade-server -version")
}

// printStartInfo 打印启动信息
func printStartInfo(cfg *config.Config) {
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("  " + api.Banner)
	fmt.Printf("  版本: %s | 模式: %s | PID: %d\n", Version, cfg.Server.Mode, os.Getpid())
	fmt.Printf("  配置文件: %s\n", config.ConfigFile())
	fmt.Println("═══════════════════════════════════════════════════════════════")
}
