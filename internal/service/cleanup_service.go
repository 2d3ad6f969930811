package service

import (
	"context"
	"time"

	"github.com/couplewatch/couplewatch/internal/utils"
)

// Purger 可清理过期数据的缓存
type Purger interface {
	PurgeExpired() int
}

// CleanupService 定时清理过期缓存
type CleanupService struct {
	caches   map[string]Purger
	interval time.Duration
}

// NewCleanupService 创建清理服务
func NewCleanupService(interval time.Duration, caches map[string]Purger) *CleanupService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CleanupService{caches: caches, interval: interval}
}

// Start 启动定时清理任务，ctx 结束时退出
func (s *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce()
			}
		}
	}()
}

// RunOnce 执行一次清理，返回清理总数
func (s *CleanupService) RunOnce() int {
	total := 0
	for name, c := range s.caches {
		n := c.PurgeExpired()
		if n > 0 {
			utils.Log.WithField("cache", name).Infof("[CleanupService] 已清理 %d 条过期缓存", n)
		}
		total += n
	}
	return total
}
