package models

import (
	"time"
)

const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"

	StatusActive   = "active"
	StatusCanceled = "canceled"
)

type User struct {
	ID                     string    `json:"id" db:"id"`
	Name                   string    `json:"name" db:"name"`
	UserName               string    `json:"userName" db:"user_name"`
	LoginID                string    `json:"loginId" db:"login_id"`
	Mail                   string    `json:"mail" db:"mail"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

// DisplayName is the name shown in headers and cards.
func (u *User) DisplayName() string {
	if u == nil || u.UserName == "" {
		return "ゲスト"
	}
	return u.UserName
}

type Premium struct {
	UserID    string    `json:"userId" db:"id"`
	Plan      string    `json:"plan" db:"plan"`
	Status    string    `json:"status" db:"status"`
	LimitDate time.Time `json:"limitDate" db:"limit_date"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsPremium reports premium status the way the site always has: an active
// subscription OR a limit date still in the future.
func (p *Premium) IsPremium(now time.Time) bool {
	if p == nil {
		return false
	}
	return p.Status == StatusActive || p.LimitDate.After(now)
}

type Post struct {
	ForumID    int64      `json:"forumId" db:"forum_id"`
	UserID     string     `json:"userId" db:"user_id_auth"`
	Title      string     `json:"title" db:"title"`
	Text       string     `json:"text" db:"text"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	DeleteDate *time.Time `json:"deleteDate" db:"delete_date"`
	Tags       []Tag      `json:"tags" db:"-"`
	Images     []Image    `json:"images" db:"-"`
}

// Visible reports whether the post may be shown to anyone but its owner.
func (p *Post) Visible(now time.Time) bool {
	return p.DeleteDate == nil || p.DeleteDate.After(now)
}

type Image struct {
	ImageID      int64  `json:"imageId" db:"image_id"`
	PostID       int64  `json:"postId" db:"post_id"`
	ImageURL     string `json:"imageUrl" db:"image_url"`
	ObjectName   string `json:"-" db:"object_name"`
	DisplayOrder int    `json:"displayOrder" db:"display_order"`
}

type Tag struct {
	TagID   int64  `json:"tagId" db:"tag_id"`
	TagName string `json:"tagName" db:"tag_name"`
}

// PostSummary is one row of any post listing.
type PostSummary struct {
	ForumID      int64      `json:"forumId" db:"forum_id"`
	UserID       string     `json:"userId" db:"user_id_auth"`
	Title        string     `json:"title" db:"title"`
	Text         string     `json:"text" db:"text"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	DeleteDate   *time.Time `json:"deleteDate" db:"delete_date"`
	AuthorName   string     `json:"authorName" db:"author_name"`
	ThumbnailURL *string    `json:"thumbnailUrl" db:"thumbnail_url"`
}

type BlockedUser struct {
	UserID    string    `json:"userId" db:"blocked_user_id"`
	UserName  string    `json:"userName" db:"user_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
