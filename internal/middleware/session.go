package middleware

import (
	"context"
	"encoding/gob"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// sessionKey 会话中保存用户快照的键
const sessionKey = "userinfo"

func init() {
	// cookie 会话使用 gob 编码
	gob.Register(model.User{})
}

// CookieSnapshot 基于 cookie 会话的用户快照存储
type CookieSnapshot struct {
	session sessions.Session
}

// NewCookieSnapshot 绑定当前请求的会话
func NewCookieSnapshot(c *gin.Context) *CookieSnapshot {
	return &CookieSnapshot{session: sessions.Default(c)}
}

// Load 读取快照，无快照或格式不符返回 nil
func (s *CookieSnapshot) Load(ctx context.Context) (*model.User, error) {
	v := s.session.Get(sessionKey)
	if v == nil {
		return nil, nil
	}
	u, ok := v.(model.User)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Save 写入快照
func (s *CookieSnapshot) Save(ctx context.Context, user *model.User) error {
	s.session.Set(sessionKey, *user)
	return errors.Wrap(s.session.Save(), "save cookie session")
}

// Clear 清除快照
func (s *CookieSnapshot) Clear(ctx context.Context) error {
	s.session.Clear()
	return errors.Wrap(s.session.Save(), "clear cookie session")
}
