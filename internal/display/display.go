// Package display formats post data for listings: relative times, remaining
// visibility, excerpts, result counts and page links.
package display

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	day   = 24 * time.Hour
	month = 30 * day
)

// TimeAgo renders how long ago t was, Japanese style. Months are 30 days.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	seconds := int64(now.Sub(t) / time.Second)
	if seconds < 5 {
		return "たった今"
	}
	if seconds < 60 {
		return fmt.Sprintf("%d秒前", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%d分前", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%d時間前", hours)
	}
	days := hours / 24
	if days < 30 {
		return fmt.Sprintf("%d日前", days)
	}
	months := days / 30
	if months < 12 {
		return fmt.Sprintf("%dヶ月前", months)
	}
	return fmt.Sprintf("%d年前", months/12)
}

// TimeLeft renders the remaining visibility of a post. No deadline means the
// post never expires; a passed deadline renders as "".
func TimeLeft(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return "無期限"
	}
	if !deadline.After(now) {
		return ""
	}

	diff := deadline.Sub(now)
	days := int64(diff / day)
	diff -= time.Duration(days) * day
	hours := int64(diff / time.Hour)
	diff -= time.Duration(hours) * time.Hour
	minutes := int64(diff / time.Minute)

	const prefix = "閲覧期限: あと"
	result := prefix
	if days > 0 {
		result += fmt.Sprintf(" %d日", days)
	}
	if hours > 0 {
		result += fmt.Sprintf(" %d時間", hours)
	}
	if days == 0 && minutes > 0 {
		result += fmt.Sprintf(" %d分", minutes)
	}
	if result == prefix {
		return "閲覧期限: あとわずか"
	}
	return result
}

// Excerpt cuts text to n runes, marking the cut with "...".
func Excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// CountText is the "N件の投稿が見つかりました。" line above search results.
func CountText(total int) string {
	return humanize.Comma(int64(total)) + "件の投稿が見つかりました。"
}

type PageLink struct {
	Label   string `json:"label"`
	Page    int    `json:"page"`
	Href    string `json:"href,omitempty"`
	Current bool   `json:"current"`
}

// TotalPages is ceil(total/perPage).
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Paginate builds "« 前へ", every page number and "次へ »". A single page
// yields no links. The current page carries no href.
func Paginate(total, perPage, current int, href func(page int) string) []PageLink {
	links := []PageLink{}
	totalPages := TotalPages(total, perPage)
	if totalPages <= 1 {
		return links
	}

	if current > 1 {
		links = append(links, PageLink{Label: "« 前へ", Page: current - 1, Href: href(current - 1)})
	}
	for i := 1; i <= totalPages; i++ {
		if i == current {
			links = append(links, PageLink{Label: strconv.Itoa(i), Page: i, Current: true})
			continue
		}
		links = append(links, PageLink{Label: strconv.Itoa(i), Page: i, Href: href(i)})
	}
	if current < totalPages {
		links = append(links, PageLink{Label: "次へ »", Page: current + 1, Href: href(current + 1)})
	}

	return links
}
