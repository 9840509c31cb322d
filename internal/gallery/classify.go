package gallery

// Pair is a secondary before/after pair shown as two tiles.
type Pair struct {
	Before *Photo
	After  *Photo
	Label  string
}

// Sections is a case's photos sorted into the page sections that show them.
type Sections struct {
	MainBefore *Photo
	MainAfter  *Photo
	Pairs      []Pair
	Subs       []Photo
	Material   *Photo
	Video      *Photo
}

// HasSlider reports whether the main comparison slider can be rendered.
func (s Sections) HasSlider() bool {
	return s.MainBefore != nil && s.MainAfter != nil
}

// Classify sorts photos into sections. The first before and first after
// feed the slider; later ones pair up by order. The last material and the
// last video win. Unknown types are dropped.
func Classify(photos []Photo) Sections {
	var s Sections
	var befores, afters []Photo

	for i := range photos {
		p := photos[i]
		switch p.Type {
		case PhotoBefore:
			if s.MainBefore == nil {
				s.MainBefore = &p
			} else {
				befores = append(befores, p)
			}
		case PhotoAfter:
			if s.MainAfter == nil {
				s.MainAfter = &p
			} else {
				afters = append(afters, p)
			}
		case PhotoSub:
			s.Subs = append(s.Subs, p)
		case PhotoMaterial:
			s.Material = &p
		case PhotoVideo:
			s.Video = &p
		}
	}

	n := max(len(befores), len(afters))
	for i := 0; i < n; i++ {
		var pair Pair
		if i < len(befores) {
			pair.Before = &befores[i]
			pair.Label = befores[i].Label
		}
		if i < len(afters) {
			pair.After = &afters[i]
			if pair.Label == "" {
				pair.Label = afters[i].Label
			}
		}
		s.Pairs = append(s.Pairs, pair)
	}
	return s
}
