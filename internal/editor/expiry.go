package editor

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

const (
	ExpirePermanent = "permanent"
	ExpirePrivate   = "private"
)

var (
	ErrExpiryInPast   = errors.New("公開期限は現在より未来の日時を指定してください。")
	ErrInvalidExpiry  = errors.New("公開期限の指定が不正です。")
	expireDaysPattern = regexp.MustCompile(`^(\d+)days?$`)
)

// ExpiryChoice is what the author picked for post visibility. Free users pick
// a preset (Expire); premium users pick a date (ExpireAt) or Private.
type ExpiryChoice struct {
	Premium  bool
	Expire   string
	ExpireAt string
	Private  bool
}

// DeleteDate resolves the choice to the post's delete_date; nil means the
// post never expires. Local date-times without an offset are read in loc.
func (c ExpiryChoice) DeleteDate(now time.Time, loc *time.Location) (*time.Time, error) {
	if c.Premium {
		if c.Private {
			return &now, nil
		}
		if c.ExpireAt == "" {
			return nil, nil
		}
		at, err := parseLocal(c.ExpireAt, loc)
		if err != nil {
			return nil, ErrInvalidExpiry
		}
		if !at.After(now) {
			return nil, ErrExpiryInPast
		}
		return &at, nil
	}

	switch c.Expire {
	case "", ExpirePermanent:
		return nil, nil
	case ExpirePrivate:
		return &now, nil
	}

	m := expireDaysPattern.FindStringSubmatch(c.Expire)
	if m == nil {
		return nil, ErrInvalidExpiry
	}
	days, err := strconv.Atoi(m[1])
	if err != nil || days <= 0 {
		return nil, ErrInvalidExpiry
	}
	at := now.AddDate(0, 0, days)
	return &at, nil
}

func parseLocal(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", value, loc)
}
