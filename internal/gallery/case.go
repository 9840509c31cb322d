package gallery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bytedance/sonic"
)

// PhotoType is the closed set of photo roles on a case page.
type PhotoType string

const (
	PhotoBefore   PhotoType = "before"
	PhotoAfter    PhotoType = "after"
	PhotoSub      PhotoType = "sub"
	PhotoMaterial PhotoType = "material"
	PhotoVideo    PhotoType = "video"
)

// Badge is the corner label for before and after tiles.
func (t PhotoType) Badge() string {
	switch t {
	case PhotoBefore:
		return "BEFORE"
	case PhotoAfter:
		return "AFTER"
	}
	return ""
}

// BadgeClass is the stylesheet class matching Badge.
func (t PhotoType) BadgeClass() string {
	switch t {
	case PhotoBefore:
		return "bf"
	case PhotoAfter:
		return "af"
	}
	return ""
}

// GalleryType separates design mock-ups from finished installations.
type GalleryType string

const (
	GalleryPaas         GalleryType = "paas"
	GalleryConstruction GalleryType = "construction"
)

type Photo struct {
	Type   PhotoType `json:"type"`
	URL    string    `json:"url"`
	Label  string    `json:"label,omitempty"`
	Poster string    `json:"poster,omitempty"`
}

// Case is one case-study record. Records are authored by hand and assumed
// valid; missing optional fields only make the page sparser.
type Case struct {
	ID               string      `json:"id"`
	GalleryType      GalleryType `json:"galleryType,omitempty"`
	Theme            string      `json:"theme,omitempty"`
	Category         string      `json:"category"`
	Subtitle         string      `json:"subtitle,omitempty"`
	MainColor        string      `json:"mainColor,omitempty"`
	AccentColor      string      `json:"accentColor,omitempty"`
	MainColorLabel   string      `json:"mainColorLabel,omitempty"`
	AccentColorLabel string      `json:"accentColorLabel,omitempty"`
	Comments         []string    `json:"comments,omitempty"`
	Photos           []Photo     `json:"photos"`
}

// Kind returns the gallery type, defaulting to paas.
func (c Case) Kind() GalleryType {
	if c.GalleryType == GalleryConstruction {
		return GalleryConstruction
	}
	return GalleryPaas
}

// FileName is the page name a case renders to.
func (c Case) FileName() string {
	return fmt.Sprintf("case_%s.html", c.ID)
}

// ParseCase decodes one JSON case record.
func ParseCase(data []byte) (Case, error) {
	var c Case
	if err := sonic.Unmarshal(data, &c); err != nil {
		return Case{}, fmt.Errorf("decode case: %w", err)
	}
	if c.ID == "" {
		return Case{}, fmt.Errorf("decode case: missing id")
	}
	return c, nil
}

// LoadCase reads a case record from path.
func LoadCase(path string) (Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, fmt.Errorf("read case %s: %w", path, err)
	}
	c, err := ParseCase(data)
	if err != nil {
		return Case{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDir reads every case_*.json in dir, ordered by case ID.
func LoadDir(dir string) ([]Case, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "case_*.json"))
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	cases := make([]Case, 0, len(paths))
	for _, path := range paths {
		c, err := LoadCase(path)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].ID < cases[j].ID })
	return cases, nil
}
