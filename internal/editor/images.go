package editor

import (
	"fmt"
	"io"
)

const (
	FreeImageLimit    = 3
	PremiumImageLimit = 6
)

type ExistingImage struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// Upload is one new file waiting to be stored.
type Upload struct {
	FileName    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// ImageLimitError is returned when a post already holds Limit images.
type ImageLimitError struct {
	Limit int
}

func (e *ImageLimitError) Error() string {
	return fmt.Sprintf("画像は最大%d枚までです。", e.Limit)
}

// ImageSet tracks the images of a post being edited: the ones it already has,
// the ones marked for deletion and newly staged uploads.
type ImageSet struct {
	limit    int
	existing []ExistingImage
	deleted  map[int64]bool
	order    []int64
	staged   []Upload
}

func ImageLimit(isPremium bool) int {
	if isPremium {
		return PremiumImageLimit
	}
	return FreeImageLimit
}

func NewImageSet(isPremium bool, existing []ExistingImage) *ImageSet {
	return &ImageSet{
		limit:    ImageLimit(isPremium),
		existing: existing,
		deleted:  make(map[int64]bool),
	}
}

func (s *ImageSet) Limit() int { return s.limit }

// Kept is the number of existing images not marked for deletion.
func (s *ImageSet) Kept() int {
	return len(s.existing) - len(s.deleted)
}

func (s *ImageSet) Remaining() int {
	r := s.limit - s.Kept() - len(s.staged)
	if r < 0 {
		return 0
	}
	return r
}

func (s *ImageSet) Stage(u Upload) error {
	if s.Remaining() == 0 {
		return &ImageLimitError{Limit: s.limit}
	}
	s.staged = append(s.staged, u)
	return nil
}

// MarkForDeletion marks an existing image. Unknown ids and repeats are ignored.
func (s *ImageSet) MarkForDeletion(id int64) {
	if s.deleted[id] {
		return
	}
	for _, img := range s.existing {
		if img.ID == id {
			s.deleted[id] = true
			s.order = append(s.order, id)
			return
		}
	}
}

func (s *ImageSet) ImagesToDelete() []int64 {
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}

func (s *ImageSet) NewFiles() []Upload {
	out := make([]Upload, len(s.staged))
	copy(out, s.staged)
	return out
}
