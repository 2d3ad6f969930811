package repository

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newGormStore(t *testing.T, catalog MovieFinder) *GormRelationshipStore {
	t.Helper()
	// 每个用例独立的共享内存库
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := OpenDB(sqlite.Open(dsn))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return NewGormRelationshipStore(db, catalog)
}

// forEachStore 对内存与 gorm 两种实现执行同一组用例
func forEachStore(t *testing.T, fn func(t *testing.T, s RelationshipStore, clock *fakeClock)) {
	catalog := NewCatalogRepository(SeedMovies(), nil)

	t.Run("memory", func(t *testing.T) {
		clock := newFakeClock()
		s := NewMemoryRelationshipStore(catalog)
		s.SetClock(clock.Now)
		fn(t, s, clock)
	})
	t.Run("gorm", func(t *testing.T) {
		clock := newFakeClock()
		s := newGormStore(t, catalog)
		s.SetClock(clock.Now)
		fn(t, s, clock)
	})
}

func savedIDs(entries []model.SavedMovieWithMovie) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Movie.ID)
	}
	return ids
}

func TestUpsertSavedMovieReplacesStatus(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie1", model.StatusWatched))
		clock.Advance(time.Minute)
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie1", model.StatusWantToWatch))

		all, err := s.ListSavedMovies(ctx, "u", nil)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "movie1", all[0].Movie.ID)
		assert.Equal(t, model.StatusWantToWatch, all[0].SavedMovie.Status)
		assert.True(t, all[0].SavedMovie.AddedAt.Equal(clock.Now()))
	})
}

func TestUpsertSavedMovieIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		first := clock.Now()
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie2", model.StatusWatched))
		clock.Advance(time.Hour)
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie2", model.StatusWatched))

		all, err := s.ListSavedMovies(ctx, "u", nil)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, model.StatusWatched, all[0].SavedMovie.Status)
		assert.True(t, all[0].SavedMovie.AddedAt.Equal(first), "same status must not refresh the timestamp")
	})
}

func TestListSavedMoviesOrderAndFilter(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie4", model.StatusWatched))
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie1", model.StatusWantToWatch))
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie3", model.StatusWatched))
		require.NoError(t, s.UpsertSavedMovie(ctx, "other", "movie2", model.StatusWatched))
		// 状态变化不改变位置
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie4", model.StatusWantToWatch))

		all, err := s.ListSavedMovies(ctx, "u", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"movie4", "movie1", "movie3"}, savedIDs(all))

		watched, err := s.ListSavedMovies(ctx, "u", model.StatusPtr(model.StatusWatched))
		require.NoError(t, err)
		assert.Equal(t, []string{"movie3"}, savedIDs(watched))

		wanted, err := s.ListSavedMovies(ctx, "u", model.StatusPtr(model.StatusWantToWatch))
		require.NoError(t, err)
		assert.Equal(t, []string{"movie4", "movie1"}, savedIDs(wanted))

		none, err := s.ListSavedMovies(ctx, "nobody", nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestRemoveSavedMovie(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie1", model.StatusWatched))
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie2", model.StatusWatched))

		require.NoError(t, s.RemoveSavedMovie(ctx, "u", "movie1"))
		require.NoError(t, s.RemoveSavedMovie(ctx, "u", "movie1"))
		require.NoError(t, s.RemoveSavedMovie(ctx, "u", "never-saved"))

		all, err := s.ListSavedMovies(ctx, "u", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"movie2"}, savedIDs(all))

		rec, err := s.GetSavedMovie(ctx, "u", "movie1")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestListSavedMoviesFailsOnDanglingMovie(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie1", model.StatusWatched))
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "ghost", model.StatusWatched))

		_, err := s.ListSavedMovies(ctx, "u", nil)
		require.Error(t, err)
		assert.Equal(t, model.KindNotFound, model.KindOf(err))

		// 过滤后不涉及缺失影片则正常返回
		_, err = s.ListSavedMovies(ctx, "u", model.StatusPtr(model.StatusWantToWatch))
		assert.NoError(t, err)
	})
}

func TestUpsertReviewMarksWatched(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		require.NoError(t, s.UpsertSavedMovie(ctx, "u", "movie5", model.StatusWantToWatch))

		review, err := s.UpsertReview(ctx, "u", "Alex", "movie5", 4, "lovely", "2024-04-30")
		require.NoError(t, err)
		assert.NotEmpty(t, review.ID)

		watched, err := s.ListSavedMovies(ctx, "u", model.StatusPtr(model.StatusWatched))
		require.NoError(t, err)
		assert.Equal(t, []string{"movie5"}, savedIDs(watched))

		// 未保存过的影片提交影评也会被标记为已看
		_, err = s.UpsertReview(ctx, "u", "Alex", "movie6", 3, "", "2024-04-29")
		require.NoError(t, err)
		watched, err = s.ListSavedMovies(ctx, "u", model.StatusPtr(model.StatusWatched))
		require.NoError(t, err)
		assert.Equal(t, []string{"movie5", "movie6"}, savedIDs(watched))
	})
}

func TestUpsertReviewRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		created, err := s.UpsertReview(ctx, "u", "Alex", "movie1", 5, "best ever", "2024-01-02")
		require.NoError(t, err)

		got, err := s.GetReview(ctx, "u", "movie1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, 5, got.Rating)
		assert.Equal(t, "best ever", got.Review)
		assert.Equal(t, "2024-01-02", got.WatchedDate)
		assert.Equal(t, "Alex", got.UserName)

		clock.Advance(time.Hour)
		updated, err := s.UpsertReview(ctx, "u", "Alex", "movie1", 2, "changed my mind", "2024-02-03")
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, updated.CreatedAt.Equal(clock.Now()))

		got, err = s.GetReview(ctx, "u", "movie1")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Rating)
		assert.Equal(t, "changed my mind", got.Review)
		assert.Equal(t, "2024-02-03", got.WatchedDate)

		reviews, err := s.ListReviewsByMovie(ctx, "movie1")
		require.NoError(t, err)
		assert.Len(t, reviews, 1)
	})
}

func TestUpdatingReviewRestoresWatched(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		_, err := s.UpsertReview(ctx, "u", "Alex", "movie2", 4, "", "2024-01-01")
		require.NoError(t, err)
		require.NoError(t, s.RemoveSavedMovie(ctx, "u", "movie2"))

		_, err = s.UpsertReview(ctx, "u", "Alex", "movie2", 5, "", "2024-01-01")
		require.NoError(t, err)

		rec, err := s.GetSavedMovie(ctx, "u", "movie2")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, model.StatusWatched, rec.Status)
	})
}

func TestGetReviewMiss(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		got, err := s.GetReview(context.Background(), "u", "movie1")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestListReviewsByMovie(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		_, err := s.UpsertReview(ctx, "a", "Alex", "movie3", 5, "wow", "2024-01-01")
		require.NoError(t, err)
		clock.Advance(time.Minute)
		_, err = s.UpsertReview(ctx, "b", "Jordan", "movie3", 3, "ok", "2024-01-02")
		require.NoError(t, err)
		_, err = s.UpsertReview(ctx, "a", "Alex", "movie4", 1, "no", "2024-01-03")
		require.NoError(t, err)

		reviews, err := s.ListReviewsByMovie(ctx, "movie3")
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, "a", reviews[0].UserID)
		assert.Equal(t, "b", reviews[1].UserID)

		empty, err := s.ListReviewsByMovie(ctx, "movie6")
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})
}

func TestLoadSeedIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s RelationshipStore, clock *fakeClock) {
		ctx := context.Background()
		require.NoError(t, s.Load(ctx, SeedSavedMovies(), SeedReviews()))
		require.NoError(t, s.Load(ctx, SeedSavedMovies(), SeedReviews()))

		alex, err := s.ListSavedMovies(ctx, "user1", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"movie1", "movie3"}, savedIDs(alex))

		review, err := s.GetReview(ctx, "user2", "movie2")
		require.NoError(t, err)
		require.NotNil(t, review)
		assert.Equal(t, "review2", review.ID)
		assert.Equal(t, 4, review.Rating)
	})
}

func TestMemoryStoreConcurrentUpserts(t *testing.T) {
	s := NewMemoryRelationshipStore(NewCatalogRepository(SeedMovies(), nil))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.StatusWatched
			if i%2 == 0 {
				status = model.StatusWantToWatch
			}
			_ = s.UpsertSavedMovie(ctx, "u", "movie1", status)
			_, _ = s.UpsertReview(ctx, "u", "Alex", "movie2", 1+i%5, "", "2024-01-01")
		}(i)
	}
	wg.Wait()

	all, err := s.ListSavedMovies(ctx, "u", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	reviews, err := s.ListReviewsByMovie(ctx, "movie2")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}
