package gallery

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"rollerstone-site/internal/slider"
)

//go:embed assets/*
var assets embed.FS

// Capabilities selects which optional sections a renderer may emit.
type Capabilities struct {
	Theming      bool // honour Case.Theme, otherwise DARK
	Video        bool
	ColorChips   bool
	ExtraPairs   bool
	GalleryTypes bool // honour Case.GalleryType copy, otherwise paas
}

// ClassicCapabilities is the dark-only page with no optional sections.
func ClassicCapabilities() Capabilities {
	return Capabilities{}
}

// FullCapabilities enables every section.
func FullCapabilities() Capabilities {
	return Capabilities{
		Theming:      true,
		Video:        true,
		ColorChips:   true,
		ExtraPairs:   true,
		GalleryTypes: true,
	}
}

type Options struct {
	Caps    Capabilities
	BackURL string
	CTAURL  string
}

type Renderer struct {
	tmpl   *template.Template
	style  template.CSS
	script template.JS
	opts   Options
}

func NewRenderer(opts Options) (*Renderer, error) {
	tmpl, err := template.ParseFS(assets, "assets/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	css, err := assets.ReadFile("assets/gallery.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	lightbox, err := assets.ReadFile("assets/lightbox.js")
	if err != nil {
		return nil, fmt.Errorf("read lightbox script: %w", err)
	}
	comparator, err := assets.ReadFile("assets/slider.js")
	if err != nil {
		return nil, fmt.Errorf("read slider script: %w", err)
	}

	if opts.BackURL == "" {
		opts.BackURL = "../" + IndexFile
	}
	if opts.CTAURL == "" {
		opts.CTAURL = "#"
	}

	return &Renderer{
		tmpl:   tmpl,
		style:  template.CSS(css),
		script: template.JS(string(lightbox) + "\n" + string(comparator)),
		opts:   opts,
	}, nil
}

type chip struct {
	Color template.CSS
	Label string
}

type sliderConfig struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Initial float64 `json:"initial"`
}

type casePage struct {
	Case          Case
	Theme         Theme
	Preset        Preset
	Sections      Sections
	CategoryClass string
	Chips         []chip
	Pairs         []Pair
	Stacked       []Photo // extra before/after photos when pairs are off
	Video         *Photo
	BackURL       string
	CTAURL        string
	Style         template.CSS
	Script        template.JS
	Slider        sliderConfig
}

// page assembles the template data for c under the renderer's capabilities.
func (r *Renderer) page(c Case) casePage {
	caps := r.opts.Caps
	p := casePage{
		Case:          c,
		Theme:         LookupTheme(DefaultTheme),
		Preset:        PresetFor(GalleryPaas),
		Sections:      Classify(c.Photos),
		CategoryClass: CategoryClass(c.Category),
		BackURL:       r.opts.BackURL,
		CTAURL:        r.opts.CTAURL,
		Style:         r.style,
		Script:        r.script,
		Slider: sliderConfig{
			Min:     slider.MinPosition,
			Max:     slider.MaxPosition,
			Initial: slider.InitialPosition,
		},
	}

	if caps.Theming {
		p.Theme = LookupTheme(c.Theme)
	}
	if caps.GalleryTypes {
		p.Preset = PresetFor(c.Kind())
	}
	if caps.ExtraPairs {
		p.Pairs = p.Sections.Pairs
	} else {
		p.Stacked = stackedPhotos(c.Photos)
	}
	if caps.Video {
		p.Video = p.Sections.Video
	}
	if caps.ColorChips {
		p.Chips = colorChips(c)
	}
	return p
}

// colorChips labels each usable colour with its role, falling back to the
// colour value itself when no label is set.
func colorChips(c Case) []chip {
	var chips []chip
	add := func(role, color, label string) {
		css, ok := SafeColor(color)
		if !ok {
			return
		}
		if label == "" {
			label = color
		}
		chips = append(chips, chip{Color: css, Label: role + "：" + label})
	}
	add("メイン", c.MainColor, c.MainColorLabel)
	add("イメージ", c.AccentColor, c.AccentColorLabel)
	return chips
}

// stackedPhotos returns every before and after photo past the first of each,
// in input order, for pages that do not pair them.
func stackedPhotos(photos []Photo) []Photo {
	var out []Photo
	var befores, afters int
	for _, p := range photos {
		switch p.Type {
		case PhotoBefore:
			if befores++; befores > 1 {
				out = append(out, p)
			}
		case PhotoAfter:
			if afters++; afters > 1 {
				out = append(out, p)
			}
		}
	}
	return out
}

// RenderCase writes the standalone page for c.
func (r *Renderer) RenderCase(w io.Writer, c Case) error {
	if err := r.tmpl.ExecuteTemplate(w, "case", r.page(c)); err != nil {
		return fmt.Errorf("render case %s: %w", c.ID, err)
	}
	return nil
}

type indexEntry struct {
	ID            string
	Href          string
	Thumb         string
	Category      string
	CategoryClass string
	Subtitle      string
	Word          string
}

type indexPage struct {
	Theme   Theme
	Style   template.CSS
	Entries []indexEntry
}

// RenderIndex writes the listing page linking every case.
func (r *Renderer) RenderIndex(w io.Writer, cases []Case) error {
	page := indexPage{
		Theme:   LookupTheme(DefaultTheme),
		Style:   r.style,
		Entries: make([]indexEntry, 0, len(cases)),
	}
	for _, c := range cases {
		kind := GalleryPaas
		if r.opts.Caps.GalleryTypes {
			kind = c.Kind()
		}
		page.Entries = append(page.Entries, indexEntry{
			ID:            c.ID,
			Href:          WorksDir + "/" + c.FileName(),
			Thumb:         thumbnail(c.Photos),
			Category:      c.Category,
			CategoryClass: CategoryClass(c.Category),
			Subtitle:      c.Subtitle,
			Word:          PresetFor(kind).Word,
		})
	}

	if err := r.tmpl.ExecuteTemplate(w, "index", page); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return nil
}

// thumbnail prefers the first after photo, then any still image.
func thumbnail(photos []Photo) string {
	for _, p := range photos {
		if p.Type == PhotoAfter {
			return p.URL
		}
	}
	for _, p := range photos {
		if p.Type != PhotoVideo {
			return p.URL
		}
	}
	return ""
}
