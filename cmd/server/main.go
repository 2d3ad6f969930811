package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couplewatch/couplewatch/internal/config"
	"github.com/couplewatch/couplewatch/internal/handler"
	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/repository"
	"github.com/couplewatch/couplewatch/internal/router"
	"github.com/couplewatch/couplewatch/internal/service"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	if envErr != nil {
		utils.Log.Info("未找到 .env 文件，使用系统环境变量")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 仅 postgres 模式连接数据库
	var db *gorm.DB
	if cfg.StoreDriver == "postgres" {
		var err error
		db, err = repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			utils.Log.WithError(err).Fatal("数据库连接失败")
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()
	}

	// 初始化仓库
	searchCache := utils.NewSearchCache[[]model.Movie](cfg.SearchCacheSize, cfg.SearchCacheTTL)
	repos, err := repository.NewRepositories(ctx, db, searchCache)
	if err != nil {
		utils.Log.WithError(err).Fatal("初始化仓库失败")
	}

	// 启动定时清理任务
	cleanupSvc := service.NewCleanupService(cfg.SearchCacheTTL, map[string]service.Purger{
		"search": searchCache,
	})
	cleanupSvc.Start(ctx)

	h := handler.NewHandler(repos, cfg)
	r := router.NewEngine(cfg, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		utils.Log.WithField("store", cfg.StoreDriver).Infof("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Log.WithError(err).Fatal("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Log.Info("正在关闭服务器...")
	stop()

	// 5 秒超时上下文用于关闭过程
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Log.WithError(err).Error("服务器强制关闭")
	}

	utils.Log.Info("服务器已退出")
}
