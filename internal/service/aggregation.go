package service

import (
	"context"

	"github.com/couplewatch/couplewatch/internal/model"
	"github.com/couplewatch/couplewatch/internal/repository"
	"github.com/couplewatch/couplewatch/internal/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Catalog 聚合所需的影片目录能力
type Catalog interface {
	FindAll(ctx context.Context) []model.Movie
	FindByID(ctx context.Context, id string) (*model.Movie, error)
	Search(ctx context.Context, query string) []model.Movie
}

// ViewResult 一次视图请求的结果
type ViewResult struct {
	Mode    model.ViewMode             `json:"mode"`
	Entries []model.EnrichedMovieEntry `json:"entries"`
}

// Aggregator 将目录、保存状态与双方影评合并为视图
type Aggregator struct {
	catalog     Catalog
	rel         repository.RelationshipStore
	concurrency int
}

// NewAggregator 创建聚合服务，concurrency 为单次请求的并发查询上限
func NewAggregator(catalog Catalog, rel repository.RelationshipStore, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Aggregator{catalog: catalog, rel: rel, concurrency: concurrency}
}

// candidate 待补全的影片，status 非空表示用户状态已知
type candidate struct {
	movie  model.Movie
	status *model.Status
}

// View 生成指定视图
// partner 视图列出伴侣保存的影片，但状态标记取自当前用户
func (a *Aggregator) View(ctx context.Context, userID, partnerID string, mode model.ViewMode) (*ViewResult, error) {
	var (
		candidates []candidate
		err        error
	)

	switch mode {
	case model.ViewExplore:
		candidates, err = a.withOwnStatus(ctx, userID, a.catalog.FindAll(ctx))
	case model.ViewWatched:
		candidates, err = a.fromSaved(ctx, userID, model.StatusWatched)
	case model.ViewWatchlist:
		candidates, err = a.fromSaved(ctx, userID, model.StatusWantToWatch)
	case model.ViewPartner:
		if partnerID == "" {
			// 未关联伴侣不是错误
			return &ViewResult{Mode: mode, Entries: []model.EnrichedMovieEntry{}}, nil
		}
		var saved []model.SavedMovieWithMovie
		saved, err = a.rel.ListSavedMovies(ctx, partnerID, nil)
		if err == nil {
			movies := make([]model.Movie, 0, len(saved))
			for _, s := range saved {
				movies = append(movies, s.Movie)
			}
			candidates, err = a.withOwnStatus(ctx, userID, movies)
		}
	default:
		return nil, model.NewValidationError("unknown view: " + string(mode))
	}
	if err != nil {
		return nil, a.fail(userID, mode, err)
	}

	entries, err := a.enrich(ctx, userID, partnerID, candidates)
	if err != nil {
		return nil, a.fail(userID, mode, err)
	}
	return &ViewResult{Mode: mode, Entries: entries}, nil
}

// Search 搜索结果按 explore 规则补全，并将当前视图切回 explore
func (a *Aggregator) Search(ctx context.Context, userID, partnerID, query string) (*ViewResult, error) {
	candidates, err := a.withOwnStatus(ctx, userID, a.catalog.Search(ctx, query))
	if err != nil {
		return nil, a.fail(userID, model.ViewExplore, err)
	}

	entries, err := a.enrich(ctx, userID, partnerID, candidates)
	if err != nil {
		return nil, a.fail(userID, model.ViewExplore, err)
	}
	return &ViewResult{Mode: model.ViewExplore, Entries: entries}, nil
}

// Detail 影片详情：双方影评、当前用户状态与该片全部影评
func (a *Aggregator) Detail(ctx context.Context, userID, partnerID, movieID string) (*model.MovieDetail, error) {
	movie, err := a.catalog.FindByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, model.NewNotFoundError("movie not found")
	}

	detail := &model.MovieDetail{Movie: *movie}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.UserReview, err = a.rel.GetReview(gctx, userID, movieID)
		return err
	})
	if partnerID != "" {
		g.Go(func() error {
			var err error
			detail.PartnerReview, err = a.rel.GetReview(gctx, partnerID, movieID)
			return err
		})
	}
	g.Go(func() error {
		saved, err := a.rel.GetSavedMovie(gctx, userID, movieID)
		if saved != nil {
			detail.UserStatus = model.StatusPtr(saved.Status)
		}
		return err
	})
	g.Go(func() error {
		var err error
		detail.Reviews, err = a.rel.ListReviewsByMovie(gctx, movieID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "load movie detail %s", movieID)
	}
	return detail, nil
}

// fromSaved watched / watchlist 视图，状态即过滤条件
func (a *Aggregator) fromSaved(ctx context.Context, userID string, status model.Status) ([]candidate, error) {
	saved, err := a.rel.ListSavedMovies(ctx, userID, &status)
	if err != nil {
		return nil, err
	}
	out := make([]candidate, 0, len(saved))
	for _, s := range saved {
		out = append(out, candidate{movie: s.Movie, status: model.StatusPtr(status)})
	}
	return out, nil
}

// withOwnStatus 按影片 ID 匹配当前用户的保存状态，未保存为 nil
func (a *Aggregator) withOwnStatus(ctx context.Context, userID string, movies []model.Movie) ([]candidate, error) {
	saved, err := a.rel.ListSavedMovies(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	own := make(map[string]model.Status, len(saved))
	for _, s := range saved {
		own[s.Movie.ID] = s.SavedMovie.Status
	}

	out := make([]candidate, 0, len(movies))
	for _, m := range movies {
		c := candidate{movie: m}
		if st, ok := own[m.ID]; ok {
			c.status = model.StatusPtr(st)
		}
		out = append(out, c)
	}
	return out, nil
}

// enrich 并发查询每部影片的双方影评，结果按候选顺序排列
// 任意一次查询失败则整体失败，不返回部分结果
func (a *Aggregator) enrich(ctx context.Context, userID, partnerID string, candidates []candidate) ([]model.EnrichedMovieEntry, error) {
	entries := make([]model.EnrichedMovieEntry, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			userReview, err := a.rel.GetReview(gctx, userID, c.movie.ID)
			if err != nil {
				return err
			}

			var partnerReview *model.MovieReview
			if partnerID != "" {
				partnerReview, err = a.rel.GetReview(gctx, partnerID, c.movie.ID)
				if err != nil {
					return err
				}
			}

			entries[i] = model.EnrichedMovieEntry{
				Movie:         c.movie,
				UserReview:    userReview,
				PartnerReview: partnerReview,
				UserStatus:    c.status,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (a *Aggregator) fail(userID string, mode model.ViewMode, err error) error {
	utils.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"mode":    mode,
	}).WithError(err).Warn("[Aggregator] 视图加载失败")
	return errors.Wrapf(err, "load %s view", mode)
}
