package editor

import (
	"errors"
	"strings"
)

const MaxTags = 10

var ErrTooManyTags = errors.New("タグは最大10個までです。")

// TagSet is the ordered, duplicate-free list of tags attached to a post.
type TagSet struct {
	tags []string
}

func NewTagSet(existing []string) *TagSet {
	s := &TagSet{tags: []string{}}
	for _, name := range existing {
		if err := s.Add(name); err != nil {
			break
		}
	}
	return s
}

// Add trims name and appends it. Empty names and duplicates are ignored;
// an eleventh tag is refused.
func (s *TagSet) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for _, t := range s.tags {
		if t == name {
			return nil
		}
	}
	if len(s.tags) >= MaxTags {
		return ErrTooManyTags
	}
	s.tags = append(s.tags, name)
	return nil
}

// AddAll adds every comma separated name in each value, stopping at the first refusal.
func (s *TagSet) AddAll(values ...string) error {
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if err := s.Add(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *TagSet) Remove(index int) {
	if index < 0 || index >= len(s.tags) {
		return
	}
	s.tags = append(s.tags[:index], s.tags[index+1:]...)
}

// HandleKey applies one key press in the tag input. Enter and comma commit the
// input; Backspace on an empty input drops the last tag. It returns the input
// text left in the field.
func (s *TagSet) HandleKey(key, input string) (string, error) {
	switch key {
	case "Enter", ",":
		if err := s.Add(input); err != nil {
			return input, err
		}
		return "", nil
	case "Backspace":
		if input == "" && len(s.tags) > 0 {
			s.Remove(len(s.tags) - 1)
		}
	}
	return input, nil
}

func (s *TagSet) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

func (s *TagSet) Len() int { return len(s.tags) }
