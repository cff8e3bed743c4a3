// Package search turns listing query strings into validated parameter sets.
package search

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const PageSize = 10

type Period string

const (
	PeriodAll   Period = "all"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Since is the earliest creation time the period admits; nil for PeriodAll.
func (p Period) Since(now time.Time) *time.Time {
	var t time.Time
	switch p {
	case PeriodDay:
		t = now.Add(-24 * time.Hour)
	case PeriodWeek:
		t = now.AddDate(0, 0, -7)
	case PeriodMonth:
		t = now.AddDate(0, -1, 0)
	case PeriodYear:
		t = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &t
}

type Sort string

const (
	SortDesc Sort = "desc"
	SortAsc  Sort = "asc"
)

type Type string

const (
	TypeKeyword Type = "keyword"
	TypeTag     Type = "tag"
)

var ErrInvalidParams = errors.New("検索条件が不正です。")

var validate = validator.New()

// Params is one public search request. Author, Period, Sort and ExcludeTags are
// advanced fields and stay at their defaults for non-premium callers.
type Params struct {
	Terms       string   `json:"terms" validate:"max=100"`
	Type        Type     `json:"type" validate:"oneof=keyword tag"`
	Keyword     string   `json:"keyword" validate:"max=100"`
	Tag         string   `json:"tag" validate:"max=50"`
	Author      string   `json:"author" validate:"max=50"`
	ExcludeTags []string `json:"excludeTags" validate:"max=20,dive,max=50"`
	Period      Period   `json:"period" validate:"oneof=all day week month year"`
	Sort        Sort     `json:"sort" validate:"oneof=desc asc"`
	Page        int      `json:"page" validate:"min=1"`
	Limit       int      `json:"limit" validate:"min=1,max=100"`
	Advanced    bool     `json:"advanced"`
}

func defaults() Params {
	return Params{
		Type:        TypeKeyword,
		ExcludeTags: []string{},
		Period:      PeriodAll,
		Sort:        SortDesc,
		Page:        1,
		Limit:       PageSize,
	}
}

// ParseSearch reads terms/keyword, type, tag, author, exclude_tags, period,
// sort and page. The advanced fields are read only when premium is true.
func ParseSearch(q url.Values, premium bool) (Params, error) {
	p := defaults()
	p.Advanced = premium

	p.Terms = strings.TrimSpace(q.Get("terms"))
	if p.Terms == "" {
		p.Terms = strings.TrimSpace(q.Get("keyword"))
	}
	// Anything but "tag" searches by keyword.
	if Type(q.Get("type")) == TypeTag {
		p.Type = TypeTag
	}
	p.Page = parsePage(q.Get("page"))

	if p.Type == TypeTag {
		p.Tag = p.Terms
	} else {
		p.Keyword = p.Terms
	}

	if premium {
		if tag := strings.TrimSpace(q.Get("tag")); tag != "" {
			p.Tag = tag
		}
		p.Author = strings.TrimSpace(q.Get("author"))
		p.ExcludeTags = SplitList(q["exclude_tags"]...)
		if v := q.Get("period"); v != "" {
			p.Period = Period(v)
		}
		if v := q.Get("sort"); v != "" {
			p.Sort = Sort(v)
		}
	}

	if err := validate.Struct(p); err != nil {
		return Params{}, ErrInvalidParams
	}
	return p, nil
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Query is the query string that reproduces this search on another page.
func (p Params) Query(page int) url.Values {
	v := url.Values{}
	if p.Terms != "" {
		v.Set("terms", p.Terms)
	}
	if p.Type == TypeTag {
		v.Set("type", string(TypeTag))
	}
	if p.Advanced {
		if p.Author != "" {
			v.Set("author", p.Author)
		}
		if p.Tag != "" && !(p.Type == TypeTag && p.Tag == p.Terms) {
			v.Set("tag", p.Tag)
		}
		if len(p.ExcludeTags) > 0 {
			v.Set("exclude_tags", strings.Join(p.ExcludeTags, ","))
		}
		if p.Period != PeriodAll {
			v.Set("period", string(p.Period))
		}
		if p.Sort != SortDesc {
			v.Set("sort", string(p.Sort))
		}
	}
	v.Set("page", strconv.Itoa(page))
	return v
}

// UserPostParams is one listing of a single author's posts.
type UserPostParams struct {
	Keyword string `json:"keyword" validate:"max=100"`
	TagID   int64  `json:"tagId" validate:"min=0"`
	Period  Period `json:"period" validate:"oneof=all day week month year"`
	Sort    Sort   `json:"sort" validate:"oneof=desc asc"`
	Showed  string `json:"showed" validate:"oneof=all public private"`
	Page    int    `json:"page" validate:"min=1"`
	Limit   int    `json:"limit" validate:"min=1,max=100"`
}

func ParseUserPosts(q url.Values) (UserPostParams, error) {
	p := UserPostParams{
		Keyword: strings.TrimSpace(q.Get("keyword")),
		Period:  PeriodAll,
		Sort:    SortDesc,
		Showed:  "all",
		Page:    parsePage(q.Get("page")),
		Limit:   PageSize,
	}
	if v := q.Get("period"); v != "" {
		p.Period = Period(v)
	}
	if v := q.Get("sort"); v != "" {
		p.Sort = Sort(v)
	}
	if v := q.Get("showed"); v != "" {
		p.Showed = v
	}
	if v := q.Get("tag"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return UserPostParams{}, ErrInvalidParams
		}
		p.TagID = id
	}

	if err := validate.Struct(p); err != nil {
		return UserPostParams{}, ErrInvalidParams
	}
	return p, nil
}

func (p UserPostParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p UserPostParams) Query(page int) url.Values {
	v := url.Values{}
	if p.Keyword != "" {
		v.Set("keyword", p.Keyword)
	}
	if p.TagID > 0 {
		v.Set("tag", strconv.FormatInt(p.TagID, 10))
	}
	if p.Period != PeriodAll {
		v.Set("period", string(p.Period))
	}
	if p.Sort != SortDesc {
		v.Set("sort", string(p.Sort))
	}
	if p.Showed != "all" {
		v.Set("showed", p.Showed)
	}
	v.Set("page", strconv.Itoa(page))
	return v
}

// ParsePage reads a 1-based page number; anything unusable is page 1.
func ParsePage(q url.Values) int {
	return parsePage(q.Get("page"))
}

func parsePage(v string) int {
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// SplitList splits comma separated values, trimming and dropping blanks.
func SplitList(values ...string) []string {
	out := []string{}
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// Union appends the names of b missing from a.
func Union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
