package models

import "testing"

// Every source category must translate to a target id, and the category
// sets must stay consistent with each other.
func TestCategoryTranslationIsTotal(t *testing.T) {
	all := []Category{
		CategoryAlbum, CategorySingle, CategoryBluray, CategoryDVD,
		CategoryPV, CategoryTVMusic, CategoryTVVariety, CategoryTVDrama,
		CategoryFansubs, CategoryPictures, CategoryMisc,
	}

	seen := map[TargetCategory]Category{}
	for _, c := range all {
		target, ok := CategoryToTarget[c]
		if !ok {
			t.Errorf("Category %q has no target mapping", c)
			continue
		}
		if prev, dup := seen[target]; dup {
			t.Errorf("Categories %q and %q share target %d", prev, c, target)
		}
		seen[target] = c

		if !KnownCategory(string(c)) {
			t.Errorf("KnownCategory(%q) = false", c)
		}
	}
}

func TestCategorySetsArePartitioned(t *testing.T) {
	for c := range MusicCategories {
		if VideoCategories[c] {
			t.Errorf("Category %q is both music and video", c)
		}
	}

	for c := range NoDateCategories {
		if !VideoCategories[c] {
			t.Errorf("Dateless category %q is not a video category", c)
		}
	}

	for c := range NoReleaseDataCategories {
		if MusicCategories[c] || VideoCategories[c] {
			t.Errorf("No-release-data category %q overlaps music/video", c)
		}
	}
}

func TestKnownCategoryRejectsUnknown(t *testing.T) {
	for _, s := range []string{"Bootleg", "", "album"} {
		if KnownCategory(s) {
			t.Errorf("KnownCategory(%q) = true", s)
		}
	}
}

func TestGroupRecordValidate(t *testing.T) {
	va := &GroupRecord{GroupID: 1, Artists: []string{"V.A."}}
	if err := va.Validate(); err == nil {
		t.Error("V.A. without contributing artists must fail validation")
	}

	va.ContributingArtists = map[string]string{"Alice": "Alice"}
	if err := va.Validate(); err != nil {
		t.Errorf("V.A. with contributing artists must validate: %v", err)
	}

	plain := &GroupRecord{GroupID: 2, Artists: []string{"Perfume"}}
	if err := plain.Validate(); err != nil {
		t.Errorf("Ordinary group must validate: %v", err)
	}
}

func TestGroupYear(t *testing.T) {
	cases := map[string]string{
		"20190123": "2019",
		"2019":     "2019",
		"":         "",
	}
	for date, want := range cases {
		g := &GroupRecord{Date: date}
		if got := g.GroupYear(); got != want {
			t.Errorf("GroupYear(%q) = %q, want %q", date, got, want)
		}
	}
}
