package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"sugurico/internal/config"
	"sugurico/internal/display"
	"sugurico/internal/editor"
	"sugurico/internal/metrics"
	"sugurico/internal/models"
	"sugurico/internal/repository"
	"sugurico/internal/storage"
)

const uploadConcurrency = 3

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// PostForm is one submit of the post editor.
type PostForm struct {
	Title          string
	Text           string
	Expiry         editor.ExpiryChoice
	Tags           []string
	DeleteImageIDs []int64
	Files          []editor.Upload
}

// PostView is a post as shown on its detail page.
type PostView struct {
	*models.Post
	AuthorName string `json:"authorName"`
	TimeAgo    string `json:"timeAgo"`
	TimeLeft   string `json:"timeLeft"`
	Editable   bool   `json:"editable"`
}

type PostService interface {
	CreatePost(ctx context.Context, userID string, form PostForm) (*models.Post, error)
	UpdatePost(ctx context.Context, userID string, forumID int64, form PostForm) (*models.Post, error)
	GetPost(ctx context.Context, viewerID string, forumID int64) (*PostView, error)
	DeletePost(ctx context.Context, userID string, forumID int64) error
}

type postService struct {
	forumRepo   repository.ForumRepository
	userRepo    repository.UserRepository
	premiumRepo repository.PremiumRepository
	storage     storage.Storage
	cfg         *config.Config
	metrics     *metrics.Metrics
	log         *logrus.Logger
	now         func() time.Time
}

func NewPostService(rep *repository.Repository, store storage.Storage, cfg *config.Config, m *metrics.Metrics, log *logrus.Logger) PostService {
	return &postService{
		forumRepo:   rep.Forum,
		userRepo:    rep.User,
		premiumRepo: rep.Premium,
		storage:     store,
		cfg:         cfg,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

func (p *postService) isPremium(ctx context.Context, userID string) (bool, error) {
	premium, err := loadPremium(ctx, p.premiumRepo, userID)
	if err != nil {
		return false, err
	}
	return premium.IsPremium(p.now()), nil
}

// prepared is a validated form ready to be written.
type prepared struct {
	title      string
	text       string
	tags       []string
	deleteDate *time.Time
	images     *editor.ImageSet
}

func (p *postService) prepare(form PostForm, premium bool, existing []editor.ExistingImage) (*prepared, error) {
	title := strings.TrimSpace(form.Title)
	text := strings.TrimSpace(form.Text)
	if title == "" || text == "" {
		return nil, newError(ErrValidation, "タイトルと本文を入力してください。")
	}

	tags := editor.NewTagSet(nil)
	if err := tags.AddAll(form.Tags...); err != nil {
		return nil, newError(ErrValidation, "%s", err.Error())
	}

	images := editor.NewImageSet(premium, existing)
	for _, id := range form.DeleteImageIDs {
		images.MarkForDeletion(id)
	}
	for _, file := range form.Files {
		if err := p.checkFile(file); err != nil {
			return nil, err
		}
		if err := images.Stage(file); err != nil {
			return nil, newError(ErrValidation, "%s", err.Error())
		}
	}

	choice := form.Expiry
	choice.Premium = premium
	deleteDate, err := choice.DeleteDate(p.now(), p.cfg.TimeZone)
	if err != nil {
		return nil, newError(ErrValidation, "%s", err.Error())
	}

	return &prepared{
		title:      title,
		text:       text,
		tags:       tags.Tags(),
		deleteDate: deleteDate,
		images:     images,
	}, nil
}

func (p *postService) checkFile(file editor.Upload) error {
	if !allowedImageTypes[strings.ToLower(file.ContentType)] {
		return newError(ErrValidation, "対応していないファイル形式です（%s）。JPEG, PNG, GIF, WebP のみ使用できます。", file.FileName)
	}
	if p.cfg.MaxUploadSize > 0 && file.Size > p.cfg.MaxUploadSize {
		return newError(ErrValidation, "ファイルサイズが大きすぎます（%s、最大 %s）。",
			humanize.Bytes(uint64(file.Size)), humanize.Bytes(uint64(p.cfg.MaxUploadSize)))
	}
	return nil
}

// upload stores the files in parallel and returns their rows in input order.
// On failure every object already stored is removed again.
func (p *postService) upload(ctx context.Context, ownerID string, files []editor.Upload) ([]models.Image, error) {
	images := make([]models.Image, len(files))
	if len(files) == 0 {
		return images, nil
	}

	var mu sync.Mutex
	var stored []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, file := range files {
		g.Go(func() error {
			rc, err := file.Open()
			if err != nil {
				return fmt.Errorf("ファイルを開けませんでした (%s): %w", file.FileName, err)
			}
			defer rc.Close()

			objectName, url, err := p.storage.Upload(gctx, ownerID, file.FileName, rc, file.Size, file.ContentType)
			if err != nil {
				return fmt.Errorf("画像のアップロードに失敗しました (%s): %w", file.FileName, err)
			}

			mu.Lock()
			stored = append(stored, objectName)
			mu.Unlock()

			images[i] = models.Image{ImageURL: url, ObjectName: objectName}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		removeObjects(context.WithoutCancel(ctx), p.storage, p.log, stored)
		return nil, err
	}

	p.metrics.ImagesStored(len(images))
	return images, nil
}

func objectNames(images []models.Image) []string {
	names := make([]string, 0, len(images))
	for _, img := range images {
		names = append(names, img.ObjectName)
	}
	return names
}

func (p *postService) CreatePost(ctx context.Context, userID string, form PostForm) (*models.Post, error) {
	premium, err := p.isPremium(ctx, userID)
	if err != nil {
		return nil, err
	}

	prep, err := p.prepare(form, premium, nil)
	if err != nil {
		return nil, err
	}

	images, err := p.upload(ctx, userID, prep.images.NewFiles())
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:     userID,
		Title:      prep.title,
		Text:       prep.text,
		CreatedAt:  p.now(),
		DeleteDate: prep.deleteDate,
	}

	if err := p.forumRepo.Create(ctx, post, prep.tags, images); err != nil {
		removeObjects(context.WithoutCancel(ctx), p.storage, p.log, objectNames(images))
		return nil, fmt.Errorf("投稿に失敗しました: %w", err)
	}

	p.metrics.PostCreated()
	p.log.WithFields(logrus.Fields{"user_id": userID, "forum_id": post.ForumID, "images": len(images)}).Info("post created")

	return post, nil
}

func (p *postService) ownedPost(ctx context.Context, userID string, forumID int64) (*models.Post, error) {
	post, err := p.forumRepo.GetByID(ctx, forumID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, msgPostMissing)
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, newError(ErrForbidden, "この投稿を編集する権限がありません。")
	}
	return post, nil
}

func (p *postService) UpdatePost(ctx context.Context, userID string, forumID int64, form PostForm) (*models.Post, error) {
	current, err := p.ownedPost(ctx, userID, forumID)
	if err != nil {
		return nil, err
	}

	premium, err := p.isPremium(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing := make([]editor.ExistingImage, 0, len(current.Images))
	for _, img := range current.Images {
		existing = append(existing, editor.ExistingImage{ID: img.ImageID, URL: img.ImageURL})
	}

	prep, err := p.prepare(form, premium, existing)
	if err != nil {
		return nil, err
	}

	images, err := p.upload(ctx, userID, prep.images.NewFiles())
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ForumID:    forumID,
		UserID:     userID,
		Title:      prep.title,
		Text:       prep.text,
		CreatedAt:  current.CreatedAt,
		DeleteDate: prep.deleteDate,
	}

	removed, err := p.forumRepo.Update(ctx, post, prep.tags, prep.images.ImagesToDelete(), images)
	if err != nil {
		removeObjects(context.WithoutCancel(ctx), p.storage, p.log, objectNames(images))
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, msgPostMissing)
		}
		return nil, fmt.Errorf("投稿の更新に失敗しました: %w", err)
	}
	removeObjects(ctx, p.storage, p.log, removed)

	updated, err := p.forumRepo.GetByID(ctx, forumID)
	if err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{"user_id": userID, "forum_id": forumID, "removed_images": len(removed)}).Info("post updated")

	return updated, nil
}

// GetPost hides posts past their delete date from everyone but the owner.
func (p *postService) GetPost(ctx context.Context, viewerID string, forumID int64) (*PostView, error) {
	post, err := p.forumRepo.GetByID(ctx, forumID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, msgPostMissing)
		}
		return nil, err
	}

	now := p.now()
	owner := viewerID != "" && post.UserID == viewerID
	if !owner && !post.Visible(now) {
		return nil, newError(ErrNotFound, msgPostMissing)
	}

	view := &PostView{
		Post:     post,
		TimeAgo:  display.TimeAgo(post.CreatedAt, now),
		TimeLeft: display.TimeLeft(post.DeleteDate, now),
		Editable: owner,
	}

	author, err := p.userRepo.GetUserByID(ctx, post.UserID)
	switch {
	case err == nil:
		view.AuthorName = author.DisplayName()
	case errors.Is(err, repository.ErrNotFound):
		view.AuthorName = (*models.User)(nil).DisplayName()
	default:
		return nil, err
	}

	return view, nil
}

func (p *postService) DeletePost(ctx context.Context, userID string, forumID int64) error {
	names, err := p.forumRepo.Delete(ctx, forumID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "投稿が見つからないか、削除する権限がありません。")
		}
		return fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}

	removeObjects(ctx, p.storage, p.log, names)
	p.metrics.PostDeleted()
	p.log.WithFields(logrus.Fields{"user_id": userID, "forum_id": forumID}).Info("post deleted")

	return nil
}
