package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sugurico/internal/config"
	"sugurico/internal/display"
	"sugurico/internal/metrics"
	"sugurico/internal/models"
	"sugurico/internal/repository"
	"sugurico/internal/search"
)

const (
	searchExcerptRunes = 20
	listExcerptRunes   = 50
	feedSize           = 3
)

// PostCard is one post in a listing.
type PostCard struct {
	ForumID      int64      `json:"forumId"`
	UserID       string     `json:"userId"`
	Title        string     `json:"title"`
	Excerpt      string     `json:"excerpt"`
	AuthorName   string     `json:"authorName"`
	CreatedAt    time.Time  `json:"createdAt"`
	DeleteDate   *time.Time `json:"deleteDate"`
	TimeAgo      string     `json:"timeAgo"`
	TimeLeft     string     `json:"timeLeft"`
	ThumbnailURL *string    `json:"thumbnailUrl,omitempty"`
	Editable     bool       `json:"editable"`
}

type SearchResult struct {
	Form         search.Params      `json:"form"`
	Total        int                `json:"total"`
	CountText    string             `json:"countText"`
	Posts        []PostCard         `json:"posts"`
	EmptyMessage string             `json:"emptyMessage,omitempty"`
	Pagination   []display.PageLink `json:"pagination"`
}

type PostList struct {
	Owner        string             `json:"owner,omitempty"`
	Total        int                `json:"total"`
	Page         int                `json:"page"`
	TotalPages   int                `json:"totalPages"`
	Posts        []PostCard         `json:"posts"`
	EmptyMessage string             `json:"emptyMessage,omitempty"`
	Pagination   []display.PageLink `json:"pagination"`
}

type Feed struct {
	Mine   []PostCard `json:"mine"`
	Others []PostCard `json:"others"`
}

type ListingService interface {
	Search(ctx context.Context, viewerID string, params search.Params) (*SearchResult, error)
	MyPosts(ctx context.Context, userID string, params search.UserPostParams) (*PostList, error)
	UserPosts(ctx context.Context, viewerID, authorID string, params search.UserPostParams) (*PostList, error)
	UserTags(ctx context.Context, userID string) ([]models.Tag, error)
	Bookmarks(ctx context.Context, userID string, page int) (*PostList, error)
	Feed(ctx context.Context, viewerID string) (*Feed, error)
}

type listingService struct {
	listingRepo  repository.ListingRepository
	bookmarkRepo repository.BookmarkRepository
	excludeRepo  repository.ExcludeTagsRepository
	userRepo     repository.UserRepository
	premiumRepo  repository.PremiumRepository
	cfg          *config.Config
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewListingService(rep *repository.Repository, cfg *config.Config, m *metrics.Metrics) ListingService {
	return &listingService{
		listingRepo:  rep.Listing,
		bookmarkRepo: rep.Bookmark,
		excludeRepo:  rep.ExcludeTags,
		userRepo:     rep.User,
		premiumRepo:  rep.Premium,
		cfg:          cfg,
		metrics:      m,
		now:          time.Now,
	}
}

func cards(posts []models.PostSummary, now time.Time, excerpt int, editableBy string) []PostCard {
	out := make([]PostCard, 0, len(posts))
	for _, post := range posts {
		out = append(out, PostCard{
			ForumID:      post.ForumID,
			UserID:       post.UserID,
			Title:        post.Title,
			Excerpt:      display.Excerpt(post.Text, excerpt),
			AuthorName:   post.AuthorName,
			CreatedAt:    post.CreatedAt,
			DeleteDate:   post.DeleteDate,
			TimeAgo:      display.TimeAgo(post.CreatedAt, now),
			TimeLeft:     display.TimeLeft(post.DeleteDate, now),
			ThumbnailURL: post.ThumbnailURL,
			Editable:     editableBy != "" && post.UserID == editableBy,
		})
	}
	return out
}

// Search expects params already reduced to what the caller's plan allows.
func (s *listingService) Search(ctx context.Context, viewerID string, params search.Params) (*SearchResult, error) {
	excluded := params.ExcludeTags
	if params.Advanced && s.cfg.Features.ExcludeTags && viewerID != "" {
		saved, err := s.excludeRepo.Get(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		excluded = search.Union(excluded, saved)
	}

	now := s.now()
	posts, total, err := s.listingRepo.Search(ctx, repository.PostFilter{
		ViewerID:    viewerID,
		Keyword:     params.Keyword,
		Tag:         params.Tag,
		Author:      params.Author,
		ExcludeTags: excluded,
		Since:       params.Period.Since(now),
		SortAsc:     params.Sort == search.SortAsc,
		Now:         now,
		Limit:       params.Limit,
		Offset:      params.Offset(),
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Searched(string(params.Type))

	result := &SearchResult{
		Form:      params,
		Total:     total,
		CountText: display.CountText(total),
		Posts:     cards(posts, now, searchExcerptRunes, viewerID),
		Pagination: display.Paginate(total, params.Limit, params.Page, func(page int) string {
			return "/search?" + params.Query(page).Encode()
		}),
	}
	if total == 0 {
		result.EmptyMessage = "該当する投稿は見つかりませんでした。"
	}

	return result, nil
}

func (s *listingService) userPosts(ctx context.Context, userID, showed string, params search.UserPostParams, href string) (*PostList, []models.PostSummary, time.Time, error) {
	now := s.now()
	posts, total, err := s.listingRepo.UserPosts(ctx, repository.UserPostFilter{
		UserID:  userID,
		Keyword: params.Keyword,
		TagID:   params.TagID,
		Since:   params.Period.Since(now),
		SortAsc: params.Sort == search.SortAsc,
		Showed:  showed,
		Now:     now,
		Limit:   params.Limit,
		Offset:  params.Offset(),
	})
	if err != nil {
		return nil, nil, now, err
	}

	list := &PostList{
		Total:      total,
		Page:       params.Page,
		TotalPages: display.TotalPages(total, params.Limit),
		Pagination: display.Paginate(total, params.Limit, params.Page, func(page int) string {
			return href + "?" + params.Query(page).Encode()
		}),
	}
	if total == 0 {
		list.EmptyMessage = "投稿はまだありません。"
	}
	return list, posts, now, nil
}

// MyPosts lists the caller's own posts, hidden ones included.
func (s *listingService) MyPosts(ctx context.Context, userID string, params search.UserPostParams) (*PostList, error) {
	list, posts, now, err := s.userPosts(ctx, userID, params.Showed, params, "/mypage")
	if err != nil {
		return nil, err
	}
	list.Posts = cards(posts, now, listExcerptRunes, userID)
	return list, nil
}

// UserPosts lists another user's visible posts.
func (s *listingService) UserPosts(ctx context.Context, viewerID, authorID string, params search.UserPostParams) (*PostList, error) {
	author, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, msgUserMissing)
		}
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	list, posts, now, err := s.userPosts(ctx, authorID, repository.ShowedPublic, params, "/users/"+authorID)
	if err != nil {
		return nil, err
	}
	list.Owner = author.DisplayName()
	list.Posts = cards(posts, now, listExcerptRunes, viewerID)
	return list, nil
}

func (s *listingService) UserTags(ctx context.Context, userID string) ([]models.Tag, error) {
	return s.listingRepo.UserTags(ctx, userID)
}

func (s *listingService) Bookmarks(ctx context.Context, userID string, page int) (*PostList, error) {
	if !s.cfg.Features.Bookmarks {
		return nil, newError(ErrNotFound, "この機能は利用できません。")
	}
	premium, err := loadPremium(ctx, s.premiumRepo, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !premium.IsPremium(now) {
		return nil, newError(ErrPremiumRequired, msgPremiumOnly)
	}
	if page < 1 {
		page = 1
	}

	posts, total, err := s.bookmarkRepo.List(ctx, userID, now, search.PageSize, (page-1)*search.PageSize)
	if err != nil {
		return nil, err
	}

	list := &PostList{
		Total:      total,
		Page:       page,
		TotalPages: display.TotalPages(total, search.PageSize),
		Posts:      cards(posts, now, listExcerptRunes, userID),
		Pagination: display.Paginate(total, search.PageSize, page, func(p int) string {
			return fmt.Sprintf("/bookmarks?page=%d", p)
		}),
	}
	if total == 0 {
		list.EmptyMessage = "ブックマークされた投稿はまだありません。"
	}
	return list, nil
}

// Feed is the home page: the caller's latest posts and everyone else's.
func (s *listingService) Feed(ctx context.Context, viewerID string) (*Feed, error) {
	now := s.now()
	feed := &Feed{Mine: []PostCard{}}

	if viewerID != "" {
		mine, err := s.listingRepo.Latest(ctx, repository.LatestFilter{UserID: viewerID, Now: now, Limit: feedSize})
		if err != nil {
			return nil, err
		}
		feed.Mine = cards(mine, now, searchExcerptRunes, viewerID)
	}

	others, err := s.listingRepo.Latest(ctx, repository.LatestFilter{
		ExcludeUserID: viewerID,
		ViewerID:      viewerID,
		Now:           now,
		Limit:         feedSize,
	})
	if err != nil {
		return nil, err
	}
	feed.Others = cards(others, now, searchExcerptRunes, viewerID)

	return feed, nil
}
