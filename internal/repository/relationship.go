package repository

import (
	"context"
	"sync"
	"time"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/google/uuid"
)

// RelationshipStore 用户与影片的保存状态及影评
//
// SavedMovie 状态机：unsaved / want-to-watch / watched。
//   - UpsertSavedMovie 可在任意状态间切换，状态相同则不刷新时间
//   - UpsertReview 强制转为 watched
//   - RemoveSavedMovie 回到 unsaved
type RelationshipStore interface {
	UpsertSavedMovie(ctx context.Context, userID, movieID string, status model.Status) error
	RemoveSavedMovie(ctx context.Context, userID, movieID string) error
	GetSavedMovie(ctx context.Context, userID, movieID string) (*model.SavedMovie, error)
	// ListSavedMovies status 为 nil 时返回全部；引用了目录中不存在的影片时返回 NotFoundError
	ListSavedMovies(ctx context.Context, userID string, status *model.Status) ([]model.SavedMovieWithMovie, error)

	UpsertReview(ctx context.Context, userID, userName, movieID string, rating int, text, watchedDate string) (*model.MovieReview, error)
	GetReview(ctx context.Context, userID, movieID string) (*model.MovieReview, error)
	ListReviewsByMovie(ctx context.Context, movieID string) ([]model.MovieReview, error)

	// Load 批量导入已有记录（用于演示数据）
	Load(ctx context.Context, saved []model.SavedMovie, reviews []model.MovieReview) error
}

// joinMovies 关联影片，缺失即视为数据不一致
func joinMovies(ctx context.Context, catalog MovieFinder, records []model.SavedMovie) ([]model.SavedMovieWithMovie, error) {
	out := make([]model.SavedMovieWithMovie, 0, len(records))
	for _, rec := range records {
		movie, err := catalog.FindByID(ctx, rec.MovieID)
		if err != nil {
			return nil, err
		}
		if movie == nil {
			return nil, model.NewNotFoundError("movie not found: " + rec.MovieID)
		}
		out = append(out, model.SavedMovieWithMovie{Movie: *movie, SavedMovie: rec})
	}
	return out, nil
}

// MemoryRelationshipStore 进程内存储，重启即清空
type MemoryRelationshipStore struct {
	mu      sync.RWMutex
	catalog MovieFinder
	saved   []model.SavedMovie
	reviews []model.MovieReview
	nextID  uint
	now     func() time.Time
}

// NewMemoryRelationshipStore 创建内存存储
func NewMemoryRelationshipStore(catalog MovieFinder) *MemoryRelationshipStore {
	return &MemoryRelationshipStore{
		catalog: catalog,
		now:     time.Now,
	}
}

// SetClock 替换时间来源
func (r *MemoryRelationshipStore) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

func (r *MemoryRelationshipStore) Load(ctx context.Context, saved []model.SavedMovie, reviews []model.MovieReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range saved {
		if r.findSavedLocked(rec.UserID, rec.MovieID) >= 0 {
			continue
		}
		r.nextID++
		rec.ID = r.nextID
		r.saved = append(r.saved, rec)
	}
	for _, rec := range reviews {
		if r.findReviewLocked(rec.UserID, rec.MovieID) >= 0 {
			continue
		}
		r.reviews = append(r.reviews, rec)
	}
	return nil
}

func (r *MemoryRelationshipStore) UpsertSavedMovie(ctx context.Context, userID, movieID string, status model.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertSavedLocked(userID, movieID, status, r.now())
	return nil
}

func (r *MemoryRelationshipStore) upsertSavedLocked(userID, movieID string, status model.Status, now time.Time) {
	if i := r.findSavedLocked(userID, movieID); i >= 0 {
		// 状态不变不刷新时间
		if r.saved[i].Status != status {
			r.saved[i].Status = status
			r.saved[i].AddedAt = now
		}
		return
	}
	r.nextID++
	r.saved = append(r.saved, model.SavedMovie{
		ID:      r.nextID,
		UserID:  userID,
		MovieID: movieID,
		Status:  status,
		AddedAt: now,
	})
}

func (r *MemoryRelationshipStore) RemoveSavedMovie(ctx context.Context, userID, movieID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.findSavedLocked(userID, movieID); i >= 0 {
		r.saved = append(r.saved[:i:i], r.saved[i+1:]...)
	}
	return nil
}

func (r *MemoryRelationshipStore) GetSavedMovie(ctx context.Context, userID, movieID string) (*model.SavedMovie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.findSavedLocked(userID, movieID); i >= 0 {
		rec := r.saved[i]
		return &rec, nil
	}
	return nil, nil
}

func (r *MemoryRelationshipStore) ListSavedMovies(ctx context.Context, userID string, status *model.Status) ([]model.SavedMovieWithMovie, error) {
	r.mu.RLock()
	var records []model.SavedMovie
	for _, rec := range r.saved {
		if rec.UserID == userID && (status == nil || rec.Status == *status) {
			records = append(records, rec)
		}
	}
	r.mu.RUnlock()

	return joinMovies(ctx, r.catalog, records)
}

func (r *MemoryRelationshipStore) UpsertReview(ctx context.Context, userID, userName, movieID string, rating int, text, watchedDate string) (*model.MovieReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var rec model.MovieReview
	if i := r.findReviewLocked(userID, movieID); i >= 0 {
		r.reviews[i].Rating = rating
		r.reviews[i].Review = text
		r.reviews[i].WatchedDate = watchedDate
		r.reviews[i].CreatedAt = now
		rec = r.reviews[i]
	} else {
		rec = model.MovieReview{
			ID:          uuid.NewString(),
			MovieID:     movieID,
			UserID:      userID,
			UserName:    userName,
			Rating:      rating,
			Review:      text,
			WatchedDate: watchedDate,
			CreatedAt:   now,
		}
		r.reviews = append(r.reviews, rec)
	}

	// 有影评即视为已看
	r.upsertSavedLocked(userID, movieID, model.StatusWatched, now)
	return &rec, nil
}

func (r *MemoryRelationshipStore) GetReview(ctx context.Context, userID, movieID string) (*model.MovieReview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.findReviewLocked(userID, movieID); i >= 0 {
		rec := r.reviews[i]
		return &rec, nil
	}
	return nil, nil
}

func (r *MemoryRelationshipStore) ListReviewsByMovie(ctx context.Context, movieID string) ([]model.MovieReview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.MovieReview, 0)
	for _, rec := range r.reviews {
		if rec.MovieID == movieID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *MemoryRelationshipStore) findSavedLocked(userID, movieID string) int {
	for i, rec := range r.saved {
		if rec.UserID == userID && rec.MovieID == movieID {
			return i
		}
	}
	return -1
}

func (r *MemoryRelationshipStore) findReviewLocked(userID, movieID string) int {
	for i, rec := range r.reviews {
		if rec.UserID == userID && rec.MovieID == movieID {
			return i
		}
	}
	return -1
}
