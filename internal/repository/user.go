package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/jinzhu/copier"
)

// UserRepository 用户目录与伴侣关系
// 伴侣关系以无序对保存，双方在同一把锁内同时生效
type UserRepository struct {
	mu    sync.RWMutex
	users []model.User
	links map[model.Partnership]struct{}
}

// NewUserRepository 创建用户目录
func NewUserRepository(users []model.User, links []model.Partnership) *UserRepository {
	r := &UserRepository{links: make(map[model.Partnership]struct{})}
	for _, u := range users {
		u.PartnerID, u.PartnerName, u.PartnerEmail = "", "", ""
		r.users = append(r.users, u)
	}
	for _, p := range links {
		r.links[p] = struct{}{}
	}
	return r
}

// FindByEmail 根据邮箱精确查找用户，不存在返回 nil
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].Email == email {
			return r.viewLocked(i)
		}
	}
	return nil, nil
}

// FindByID 根据 ID 查找用户，不存在返回 nil
func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(id); i >= 0 {
		return r.viewLocked(i)
	}
	return nil, nil
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, name, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return nil, model.NewValidationError("email already in use")
		}
	}

	u := model.User{
		ID:    fmt.Sprintf("user%d", len(r.users)+1),
		Name:  name,
		Email: email,
	}
	// 删除用户后编号可能重复
	for r.indexLocked(u.ID) >= 0 {
		u.ID += "_"
	}
	r.users = append(r.users, u)
	return r.viewLocked(len(r.users) - 1)
}

// Link 建立伴侣关系，双方原有的关系一并解除
func (r *UserRepository) Link(ctx context.Context, userID, partnerID string) (*model.User, error) {
	if userID == partnerID {
		return nil, model.NewValidationError("cannot connect with yourself")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(userID)
	if i < 0 {
		return nil, model.NewNotFoundError("user not found")
	}
	if r.indexLocked(partnerID) < 0 {
		return nil, model.NewNotFoundError("user not found with that email")
	}

	for p := range r.links {
		if p.Other(userID) != "" || p.Other(partnerID) != "" {
			delete(r.links, p)
		}
	}
	r.links[model.NewPartnership(userID, partnerID)] = struct{}{}

	return r.viewLocked(i)
}

// Unlink 解除伴侣关系，无关系时为空操作
func (r *UserRepository) Unlink(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for p := range r.links {
		if p.Other(userID) != "" {
			delete(r.links, p)
		}
	}
	return nil
}

// Delete 删除用户及其伴侣关系
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(userID)
	if i < 0 {
		return nil
	}
	r.users = append(r.users[:i:i], r.users[i+1:]...)
	for p := range r.links {
		if p.Other(userID) != "" {
			delete(r.links, p)
		}
	}
	return nil
}

// Count 用户数量
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *UserRepository) indexLocked(id string) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepository) partnerLocked(id string) string {
	for p := range r.links {
		if other := p.Other(id); other != "" {
			return other
		}
	}
	return ""
}

// viewLocked 返回用户副本，并填充伴侣信息
func (r *UserRepository) viewLocked(i int) (*model.User, error) {
	var out model.User
	if err := copier.Copy(&out, &r.users[i]); err != nil {
		return nil, err
	}

	if pid := r.partnerLocked(out.ID); pid != "" {
		if j := r.indexLocked(pid); j >= 0 {
			out.PartnerID = r.users[j].ID
			out.PartnerName = r.users[j].Name
			out.PartnerEmail = r.users[j].Email
		}
	}
	return &out, nil
}
