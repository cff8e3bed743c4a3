package display

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

func TestTimeAgo(t *testing.T) {
	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"3秒前はたった今", 3 * time.Second, "たった今"},
		{"未来の日時もたった今", -time.Minute, "たった今"},
		{"秒", 30 * time.Second, "30秒前"},
		{"90秒は1分前", 90 * time.Second, "1分前"},
		{"時間", 5 * time.Hour, "5時間前"},
		{"2日前", 48 * time.Hour, "2日前"},
		{"29日", 29 * day, "29日前"},
		{"30日は1ヶ月前", 30 * day, "1ヶ月前"},
		{"11ヶ月", 359 * day, "11ヶ月前"},
		{"年", 400 * day, "1年前"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(now.Add(-tt.ago), now))
		})
	}

	assert.Equal(t, "", TimeAgo(time.Time{}, now))
}

func TestTimeLeft(t *testing.T) {
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name     string
		deadline *time.Time
		want     string
	}{
		{"期限なし", nil, "無期限"},
		{"過去", at(-time.Second), ""},
		{"ちょうど今", at(0), ""},
		{"25時間後", at(25 * time.Hour), "閲覧期限: あと 1日 1時間"},
		{"30分後", at(30 * time.Minute), "閲覧期限: あと 30分"},
		{"1日と30分は分を出さない", at(day + 30*time.Minute), "閲覧期限: あと 1日"},
		{"2時間5分", at(2*time.Hour + 5*time.Minute), "閲覧期限: あと 2時間 5分"},
		{"1分未満", at(30 * time.Second), "閲覧期限: あとわずか"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeLeft(tt.deadline, now))
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "短い本文", Excerpt("短い本文", 20))
	assert.Equal(t, "あいうえ...", Excerpt("あいうえお", 4))
	assert.Equal(t, "abcde", Excerpt("abcde", 5))
}

func TestCountText(t *testing.T) {
	assert.Equal(t, "3件の投稿が見つかりました。", CountText(3))
	assert.Equal(t, "1,234件の投稿が見つかりました。", CountText(1234))
}

func TestPaginate(t *testing.T) {
	href := func(p int) string { return fmt.Sprintf("?terms=x&page=%d", p) }

	t.Run("1ページ以下はリンクなし", func(t *testing.T) {
		assert.Empty(t, Paginate(10, 10, 1, href))
		assert.Empty(t, Paginate(0, 10, 1, href))
	})

	t.Run("25件・2ページ目", func(t *testing.T) {
		links := Paginate(25, 10, 2, href)

		require.Len(t, links, 5)
		assert.Equal(t, PageLink{Label: "« 前へ", Page: 1, Href: "?terms=x&page=1"}, links[0])
		assert.Equal(t, PageLink{Label: "2", Page: 2, Current: true}, links[2])
		assert.Equal(t, PageLink{Label: "次へ »", Page: 3, Href: "?terms=x&page=3"}, links[4])
	})

	t.Run("最初と最後", func(t *testing.T) {
		first := Paginate(25, 10, 1, href)
		assert.Equal(t, "1", first[0].Label)
		assert.Equal(t, "次へ »", first[len(first)-1].Label)

		last := Paginate(25, 10, 3, href)
		assert.Equal(t, "« 前へ", last[0].Label)
		assert.Equal(t, "3", last[len(last)-1].Label)
	})
}
