package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/patrickmn/go-cache"
)

type viewState struct {
	Mode       model.ViewMode
	Generation uint64
}

// ViewTracker 记录每个用户当前的视图及请求代数
// 快速切换视图时，晚到的旧结果通过代数判定为过期
type ViewTracker struct {
	mu     sync.Mutex
	states *cache.Cache
	gen    atomic.Uint64
}

// NewViewTracker ttl 内无请求的用户状态会被清理
func NewViewTracker(ttl time.Duration) *ViewTracker {
	return &ViewTracker{states: utils.NewKVCache(ttl)}
}

// Begin 开始一次视图请求，返回本次代数
func (t *ViewTracker) Begin(userID string, mode model.ViewMode) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	gen := t.gen.Add(1)
	t.states.SetDefault(userID, viewState{Mode: mode, Generation: gen})
	return gen
}

// IsCurrent 本次请求之后是否没有更新的请求
func (t *ViewTracker) IsCurrent(userID string, gen uint64) bool {
	v, ok := t.states.Get(userID)
	if !ok {
		return false
	}
	return v.(viewState).Generation == gen
}

// Active 当前视图，默认 explore
func (t *ViewTracker) Active(userID string) model.ViewMode {
	if v, ok := t.states.Get(userID); ok {
		return v.(viewState).Mode
	}
	return model.ViewExplore
}

// Forget 登出时清理
func (t *ViewTracker) Forget(userID string) {
	t.states.Delete(userID)
}
