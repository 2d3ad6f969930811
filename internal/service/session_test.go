package service

import (
	"context"
	"testing"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySnapshot 测试用快照存储
type memorySnapshot struct {
	user  *model.User
	saves int
}

func (m *memorySnapshot) Load(ctx context.Context) (*model.User, error) {
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *memorySnapshot) Save(ctx context.Context, user *model.User) error {
	u := *user
	m.user = &u
	m.saves++
	return nil
}

func (m *memorySnapshot) Clear(ctx context.Context) error {
	m.user = nil
	return nil
}

func newSessionFixture(revalidate bool) (*SessionHolder, *repository.UserRepository, *memorySnapshot) {
	users := repository.NewUserRepository(repository.SeedUsers())
	store := &memorySnapshot{}
	return NewSessionHolder(users, store, revalidate), users, store
}

func TestLogin(t *testing.T) {
	holder, _, store := newSessionFixture(true)
	ctx := context.Background()

	user, err := holder.Login(ctx, "alex@example.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, "user1", user.ID)
	assert.Equal(t, "user2", user.PartnerID)
	assert.Equal(t, "Jordan", user.PartnerName)
	assert.Equal(t, "jordan@example.com", user.PartnerEmail)

	require.NotNil(t, store.user)
	assert.Equal(t, *user, *store.user)
}

func TestLoginFailures(t *testing.T) {
	holder, _, store := newSessionFixture(true)
	ctx := context.Background()

	tests := []struct {
		name  string
		email string
		kind  model.ErrorKind
	}{
		{"unknown email", "nobody@example.com", model.KindAuth},
		{"case sensitive", "ALEX@example.com", model.KindAuth},
		{"empty email", "", model.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := holder.Login(ctx, tt.email, "pw")
			assert.Nil(t, user)
			assert.Equal(t, tt.kind, model.KindOf(err))
		})
	}
	assert.Nil(t, store.user)

	_, err := holder.Login(ctx, "nobody@example.com", "pw")
	assert.Equal(t, "invalid credentials", model.MessageOf(err))
}

func TestLogoutThenRestore(t *testing.T) {
	holder, _, _ := newSessionFixture(true)
	ctx := context.Background()

	_, err := holder.Login(ctx, "jordan@example.com", "pw")
	require.NoError(t, err)

	user, err := holder.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user2", user.ID)

	require.NoError(t, holder.Logout(ctx))
	user, err = holder.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRegister(t *testing.T) {
	holder, users, store := newSessionFixture(true)
	ctx := context.Background()

	user, err := holder.Register(ctx, "  Sam ", "sam@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Sam", user.Name)
	assert.False(t, user.HasPartner())
	assert.Equal(t, 3, users.Count())
	assert.Nil(t, store.user)

	_, err = holder.Register(ctx, "Sam", "sam@example.com", "secret")
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = holder.Register(ctx, "Sam", "not-an-email", "secret")
	assert.Equal(t, "email must be a valid email", model.MessageOf(err))

	_, err = holder.Register(ctx, "Sam", "sam2@example.com", "")
	assert.Equal(t, "password is required", model.MessageOf(err))
}

func TestConnectPartner(t *testing.T) {
	holder, users, store := newSessionFixture(true)
	ctx := context.Background()

	sam, err := holder.Register(ctx, "Sam", "sam@example.com", "pw")
	require.NoError(t, err)
	alex, err := holder.Login(ctx, "alex@example.com", "pw")
	require.NoError(t, err)

	updated, err := holder.ConnectPartner(ctx, alex, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, sam.ID, updated.PartnerID)
	assert.Equal(t, "Sam", updated.PartnerName)
	assert.Equal(t, updated.PartnerID, store.user.PartnerID)

	// 关系对双方生效，Jordan 的旧关系解除
	samNow, err := users.FindByID(ctx, sam.ID)
	require.NoError(t, err)
	assert.Equal(t, "user1", samNow.PartnerID)
	jordan, err := users.FindByID(ctx, "user2")
	require.NoError(t, err)
	assert.False(t, jordan.HasPartner())
}

func TestConnectPartnerFailures(t *testing.T) {
	holder, _, store := newSessionFixture(true)
	ctx := context.Background()

	_, err := holder.ConnectPartner(ctx, nil, "jordan@example.com")
	assert.Equal(t, model.KindAuth, model.KindOf(err))

	alex, err := holder.Login(ctx, "alex@example.com", "pw")
	require.NoError(t, err)
	saves := store.saves

	_, err = holder.ConnectPartner(ctx, alex, "ghost@example.com")
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
	assert.Equal(t, "user not found with that email", model.MessageOf(err))

	_, err = holder.ConnectPartner(ctx, alex, "alex@example.com")
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = holder.ConnectPartner(ctx, alex, "")
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	assert.Equal(t, saves, store.saves)
	assert.Equal(t, "user2", store.user.PartnerID)
}

func TestRestoreRevalidates(t *testing.T) {
	holder, users, store := newSessionFixture(true)
	ctx := context.Background()

	_, err := holder.Login(ctx, "jordan@example.com", "pw")
	require.NoError(t, err)

	// Alex 从另一端解除关系后，Jordan 的快照随之刷新
	require.NoError(t, users.Unlink(ctx, "user1"))
	user, err := holder.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, user.HasPartner())
	assert.False(t, store.user.HasPartner())

	require.NoError(t, users.Delete(ctx, "user2"))
	user, err = holder.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Nil(t, store.user)
}

func TestRestoreWithoutRevalidation(t *testing.T) {
	holder, users, _ := newSessionFixture(false)
	ctx := context.Background()

	_, err := holder.Login(ctx, "jordan@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, users.Unlink(ctx, "user1"))

	user, err := holder.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user1", user.PartnerID)
}
