package gallery

import "testing"

func TestClassify(t *testing.T) {
	photos := []Photo{
		{Type: PhotoBefore, URL: "b1"},
		{Type: PhotoSub, URL: "s1"},
		{Type: PhotoAfter, URL: "a1"},
		{Type: PhotoBefore, URL: "b2", Label: "駐車場"},
		{Type: PhotoAfter, URL: "a2", Label: "ignored"},
		{Type: PhotoAfter, URL: "a3", Label: "アプローチ"},
		{Type: PhotoMaterial, URL: "m1"},
		{Type: PhotoMaterial, URL: "m2"},
		{Type: PhotoVideo, URL: "v1"},
		{Type: PhotoSub, URL: "s2"},
		{Type: "panorama", URL: "x"},
	}

	s := Classify(photos)

	if !s.HasSlider() || s.MainBefore.URL != "b1" || s.MainAfter.URL != "a1" {
		t.Fatalf("unexpected slider photos: %+v %+v", s.MainBefore, s.MainAfter)
	}
	if len(s.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(s.Pairs))
	}
	if s.Pairs[0].Before.URL != "b2" || s.Pairs[0].After.URL != "a2" || s.Pairs[0].Label != "駐車場" {
		t.Errorf("unexpected first pair: %+v", s.Pairs[0])
	}
	if s.Pairs[1].Before != nil || s.Pairs[1].After.URL != "a3" || s.Pairs[1].Label != "アプローチ" {
		t.Errorf("unexpected second pair: %+v", s.Pairs[1])
	}
	if len(s.Subs) != 2 || s.Subs[0].URL != "s1" || s.Subs[1].URL != "s2" {
		t.Errorf("unexpected subs: %+v", s.Subs)
	}
	if s.Material == nil || s.Material.URL != "m2" {
		t.Errorf("material = %+v, want m2", s.Material)
	}
	if s.Video == nil || s.Video.URL != "v1" {
		t.Errorf("video = %+v, want v1", s.Video)
	}
}

func TestClassify_NoSlider(t *testing.T) {
	tests := []struct {
		name   string
		photos []Photo
	}{
		{"empty", nil},
		{"before only", []Photo{{Type: PhotoBefore, URL: "b"}}},
		{"after only", []Photo{{Type: PhotoAfter, URL: "a"}}},
		{"subs only", []Photo{{Type: PhotoSub, URL: "s"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Classify(tt.photos)
			if s.HasSlider() {
				t.Error("expected no slider")
			}
			if len(s.Pairs) != 0 {
				t.Errorf("expected no pairs, got %d", len(s.Pairs))
			}
		})
	}
}
