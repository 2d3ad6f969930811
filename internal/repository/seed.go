package repository

import (
	"time"

	"github.com/couplewatch/couplewatch/internal/model"
)

// 演示数据：影片目录、两位互为伴侣的用户及其初始记录

// SeedMovies 演示影片目录
func SeedMovies() []model.Movie {
	return []model.Movie{
		{
			ID:           "movie1",
			Title:        "The Shawshank Redemption",
			Overview:     "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
			PosterPath:   "https://image.tmdb.org/t/p/w500/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg",
			BackdropPath: "https://image.tmdb.org/t/p/original/avedvodAZUcwqevBfm8p4G2NziQ.jpg",
			ReleaseDate:  "1994-09-23",
			VoteAverage:  8.7,
			Genres:       []string{"Drama"},
		},
		{
			ID:           "movie2",
			Title:        "The Godfather",
			Overview:     "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
			PosterPath:   "https://image.tmdb.org/t/p/w500/3bhkrj58Vtu7enYsRolD1fZdja1.jpg",
			BackdropPath: "https://image.tmdb.org/t/p/original/rSPw7tgCH9c6NqICZef4kZjFOQ5.jpg",
			ReleaseDate:  "1972-03-14",
			VoteAverage:  8.7,
			Genres:       []string{"Crime", "Drama"},
		},
		{
			ID:           "movie3",
			Title:        "The Dark Knight",
			Overview:     "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
			PosterPath:   "https://image.tmdb.org/t/p/w500/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
			BackdropPath: "https://image.tmdb.org/t/p/original/hkBaDkMWbLaf8B1lsWsKX7Ew3Xq.jpg",
			ReleaseDate:  "2008-07-16",
			VoteAverage:  8.5,
			Genres:       []string{"Action", "Crime", "Drama", "Thriller"},
		},
		{
			ID:           "movie4",
			Title:        "Pulp Fiction",
			Overview:     "The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption.",
			PosterPath:   "https://image.tmdb.org/t/p/w500/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg",
			BackdropPath: "https://image.tmdb.org/t/p/original/suaEOtk1N1sgg2MTM7oZd2cfVp3.jpg",
			ReleaseDate:  "1994-09-10",
			VoteAverage:  8.5,
			Genres:       []string{"Crime", "Drama"},
		},
		{
			ID:           "movie5",
			Title:        "La La Land",
			Overview:     "While navigating their careers in Los Angeles, a pianist and an actress fall in love while attempting to reconcile their aspirations for the future.",
			PosterPath:   "https://image.tmdb.org/t/p/w500/uDO8zWDhfWwoFdKS4fzkUJt0Rf0.jpg",
			BackdropPath: "https://image.tmdb.org/t/p/original/nadTlnTE6DdgmYsN4iWc2a2wiaI.jpg",
			ReleaseDate:  "2016-11-09",
			VoteAverage:  7.9,
			Genres:       []string{"Comedy", "Drama", "Romance", "Music"},
		},
		{
			ID:           "movie6",
			Title:        "The Notebook",
			Overview:     "A poor yet passionate young man falls in love with a rich young woman, giving her a sense of freedom, but they are soon separated because of their social differences.",
			PosterPath:   "https://image.tmdb.org/t/p/w500/rNzQyW4f8B8cQeg7Dgj3n6eT5k9.jpg",
			BackdropPath: "https://image.tmdb.org/t/p/original/qom1SZSENdmHFNZBXbtJAU0WTlC.jpg",
			ReleaseDate:  "2004-06-25",
			VoteAverage:  7.9,
			Genres:       []string{"Drama", "Romance"},
		},
	}
}

// SeedUsers 演示用户，Alex 与 Jordan 互为伴侣
func SeedUsers() ([]model.User, []model.Partnership) {
	users := []model.User{
		{ID: "user1", Name: "Alex", Email: "alex@example.com"},
		{ID: "user2", Name: "Jordan", Email: "jordan@example.com"},
	}
	return users, []model.Partnership{model.NewPartnership("user1", "user2")}
}

// SeedSavedMovies 演示保存记录
func SeedSavedMovies() []model.SavedMovie {
	return []model.SavedMovie{
		{UserID: "user1", MovieID: "movie1", Status: model.StatusWatched, AddedAt: seedTime("2023-01-15T18:30:00Z")},
		{UserID: "user1", MovieID: "movie3", Status: model.StatusWantToWatch, AddedAt: seedTime("2023-02-20T14:15:00Z")},
		{UserID: "user2", MovieID: "movie2", Status: model.StatusWatched, AddedAt: seedTime("2023-01-10T20:00:00Z")},
		{UserID: "user2", MovieID: "movie5", Status: model.StatusWantToWatch, AddedAt: seedTime("2023-03-05T17:45:00Z")},
	}
}

// SeedReviews 演示影评
func SeedReviews() []model.MovieReview {
	return []model.MovieReview{
		{
			ID:          "review1",
			MovieID:     "movie1",
			UserID:      "user1",
			UserName:    "Alex",
			Rating:      5,
			Review:      "Absolutely incredible. One of the best films ever made.",
			WatchedDate: "2023-01-15",
			CreatedAt:   seedTime("2023-01-15T18:30:00Z"),
		},
		{
			ID:          "review2",
			MovieID:     "movie2",
			UserID:      "user2",
			UserName:    "Jordan",
			Rating:      4,
			Review:      "A classic. Amazing performances all around.",
			WatchedDate: "2023-01-10",
			CreatedAt:   seedTime("2023-01-10T20:00:00Z"),
		},
	}
}

func seedTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
