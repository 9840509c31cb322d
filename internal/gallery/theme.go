package gallery

import (
	"html/template"
	"regexp"
)

// Theme is a page palette. Values are trusted CSS.
type Theme struct {
	Name      string
	Bg        template.CSS
	Surface   template.CSS
	Border    template.CSS
	Text      template.CSS
	TextSub   template.CSS
	TextBody  template.CSS
	Gold      template.CSS
	GoldBg    template.CSS
	HeaderBg  template.CSS
	BadgeBg   template.CSS
	BadgeText template.CSS
}

const DefaultTheme = "DARK"

var themes = map[string]Theme{
	"DARK": {
		Name: "DARK", Bg: "#0a0a0a", Surface: "#111", Border: "rgba(255,255,255,0.08)",
		Text: "#fff", TextSub: "rgba(255,255,255,0.3)", TextBody: "rgba(255,255,255,0.65)",
		Gold: "#D4AF37", GoldBg: "rgba(212,175,55,0.9)",
		HeaderBg: "rgba(0,0,0,0.92)", BadgeBg: "rgba(255,255,255,0.92)", BadgeText: "#111",
	},
	"LIGHT": {
		Name: "LIGHT", Bg: "#f5f5f0", Surface: "#fff", Border: "rgba(0,0,0,0.08)",
		Text: "#111", TextSub: "rgba(0,0,0,0.35)", TextBody: "rgba(0,0,0,0.65)",
		Gold: "#B8860B", GoldBg: "rgba(184,134,11,0.9)",
		HeaderBg: "rgba(245,245,240,0.95)", BadgeBg: "#111", BadgeText: "#fff",
	},
	"ELEGANT": {
		Name: "ELEGANT", Bg: "#0d1b2a", Surface: "#162032", Border: "rgba(192,192,192,0.12)",
		Text: "#fff", TextSub: "rgba(255,255,255,0.3)", TextBody: "rgba(255,255,255,0.6)",
		Gold: "#C0C0C0", GoldBg: "rgba(192,192,192,0.9)",
		HeaderBg: "rgba(13,27,42,0.95)", BadgeBg: "rgba(255,255,255,0.9)", BadgeText: "#0d1b2a",
	},
	"NATURAL": {
		Name: "NATURAL", Bg: "#f0ebe3", Surface: "#fff", Border: "rgba(101,67,33,0.12)",
		Text: "#3d2b1f", TextSub: "rgba(61,43,31,0.4)", TextBody: "rgba(61,43,31,0.65)",
		Gold: "#8B6335", GoldBg: "rgba(139,99,53,0.9)",
		HeaderBg: "rgba(240,235,227,0.95)", BadgeBg: "#3d2b1f", BadgeText: "#f0ebe3",
	},
	"BOLD": {
		Name: "BOLD", Bg: "#000", Surface: "#0d0d0d", Border: "rgba(255,255,255,0.15)",
		Text: "#fff", TextSub: "rgba(255,255,255,0.3)", TextBody: "rgba(255,255,255,0.7)",
		Gold: "#fff", GoldBg: "rgba(255,255,255,0.95)",
		HeaderBg: "rgba(0,0,0,0.95)", BadgeBg: "#fff", BadgeText: "#000",
	},
}

// LookupTheme returns the named theme, or DARK for unknown names.
func LookupTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[DefaultTheme]
}

// Preset is the copy that differs between gallery types.
type Preset struct {
	Word          string // 制作 or 施工
	CTATitle      string
	CTALines      []string
	CTAButton     string
	Disclaimer    string
	DiscColor     template.CSS
	DiscBorder    template.CSS
	MaterialBadge string
	MaterialSub   string
}

var presets = map[GalleryType]Preset{
	GalleryPaas: {
		Word:          "制作",
		CTATitle:      "このデザインが気になりましたか？",
		CTALines:      []string{"あなたのお家の写真を送るだけで", "無料で完成イメージを作成します"},
		CTAButton:     "LINEで無料イメージ作成を依頼",
		Disclaimer:    "⚠ AIパース・施工前イメージです",
		DiscColor:     "#D4AF37",
		DiscBorder:    "#D4AF3755",
		MaterialBadge: "使用パターン素材",
		MaterialSub:   "使用パターン素材",
	},
	GalleryConstruction: {
		Word:          "施工",
		CTATitle:      "この施工が気になりましたか？",
		CTALines:      []string{"無料でイメージを作成することができます", "お気軽にご相談ください"},
		CTAButton:     "LINEで無料見積もりを依頼",
		Disclaimer:    "✓ 実際の施工写真です",
		DiscColor:     "#06C755",
		DiscBorder:    "#06C75555",
		MaterialBadge: "施工クローズアップ",
		MaterialSub:   "仕上がりの質感",
	},
}

// PresetFor returns the copy for a gallery type.
func PresetFor(t GalleryType) Preset {
	if p, ok := presets[t]; ok {
		return p
	}
	return presets[GalleryPaas]
}

var categoryClasses = map[string]string{
	"乱形石調":  "random",
	"タイル調":  "tile",
	"特殊・ロゴ": "original",
}

// CategoryClass maps a category to its badge style, defaulting to random.
func CategoryClass(category string) string {
	if c, ok := categoryClasses[category]; ok {
		return c
	}
	return "random"
}

var safeColor = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|(rgb|rgba|hsl|hsla)\([0-9., %]+\))$`)

// SafeColor returns c as trusted CSS when it is a plain colour value.
func SafeColor(c string) (template.CSS, bool) {
	if !safeColor.MatchString(c) {
		return "", false
	}
	return template.CSS(c), true
}
