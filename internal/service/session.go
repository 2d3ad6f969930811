package service

import (
	"context"
	"strings"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SnapshotStore 保存当前用户快照的键值存储
type SnapshotStore interface {
	// Load 无快照时返回 nil, nil
	Load(ctx context.Context) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	Clear(ctx context.Context) error
}

// UserDirectory 会话所需的用户目录能力
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, name, email string) (*model.User, error)
	Link(ctx context.Context, userID, partnerID string) (*model.User, error)
}

// SessionHolder 维护当前登录用户
type SessionHolder struct {
	users      UserDirectory
	store      SnapshotStore
	revalidate bool
}

// NewSessionHolder revalidate 为 true 时恢复会话会以用户目录为准刷新快照
func NewSessionHolder(users UserDirectory, store SnapshotStore, revalidate bool) *SessionHolder {
	return &SessionHolder{users: users, store: store, revalidate: revalidate}
}

type loginInput struct {
	Email string `validate:"required"`
}

// Login 按邮箱登录，密码不做校验
func (s *SessionHolder) Login(ctx context.Context, email, password string) (*model.User, error) {
	if err := Validate(loginInput{Email: email}); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	if user == nil {
		return nil, model.NewAuthError("invalid credentials")
	}

	if err := s.store.Save(ctx, user); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	utils.Log.WithField("user_id", user.ID).Info("[Session] 用户登录")
	return user, nil
}

type registerInput struct {
	Name     string `validate:"required,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Register 注册新用户，不自动登录
func (s *SessionHolder) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	in := registerInput{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password}
	if err := Validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	utils.Log.WithField("user_id", user.ID).Info("[Session] 新用户注册")
	return user, nil
}

// Logout 清除快照
func (s *SessionHolder) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

type partnerInput struct {
	Email string `validate:"required,email"`
}

// ConnectPartner 与指定邮箱的用户建立伴侣关系，双方同时生效
func (s *SessionHolder) ConnectPartner(ctx context.Context, current *model.User, partnerEmail string) (*model.User, error) {
	if current == nil {
		return nil, model.NewAuthError("you must be logged in")
	}
	in := partnerInput{Email: strings.TrimSpace(partnerEmail)}
	if err := Validate(in); err != nil {
		return nil, err
	}

	partner, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, errors.Wrap(err, "find partner")
	}
	if partner == nil {
		return nil, model.NewNotFoundError("user not found with that email")
	}

	updated, err := s.users.Link(ctx, current.ID, partner.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, updated); err != nil {
		return nil, errors.Wrap(err, "save session")
	}

	utils.Log.WithFields(logrus.Fields{
		"user_id":    updated.ID,
		"partner_id": updated.PartnerID,
	}).Info("[Session] 已关联伴侣")
	return updated, nil
}

// Restore 读取快照；开启校验时以用户目录为准，用户已不存在则清除会话
func (s *SessionHolder) Restore(ctx context.Context) (*model.User, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	if snapshot == nil || !s.revalidate {
		return snapshot, nil
	}

	live, err := s.users.FindByID(ctx, snapshot.ID)
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	if live == nil {
		utils.Log.WithField("user_id", snapshot.ID).Warn("[Session] 快照中的用户已不存在，清除会话")
		if err := s.store.Clear(ctx); err != nil {
			return nil, errors.Wrap(err, "clear session")
		}
		return nil, nil
	}

	if *live != *snapshot {
		if err := s.store.Save(ctx, live); err != nil {
			return nil, errors.Wrap(err, "save session")
		}
	}
	return live, nil
}
