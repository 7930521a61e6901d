package models

// Category represents a JPS release-group category as it appears in the
// bracketed token at the start of the group headline.
type Category string

const (
	CategoryAlbum     Category = "Album"
	CategorySingle    Category = "Single"
	CategoryBluray    Category = "Bluray"
	CategoryDVD       Category = "DVD"
	CategoryPV        Category = "PV"
	CategoryTVMusic   Category = "TV-Music"
	CategoryTVVariety Category = "TV-Variety"
	CategoryTVDrama   Category = "TV-Drama"
	CategoryFansubs   Category = "Fansubs"
	CategoryPictures  Category = "Pictures"
	CategoryMisc      Category = "Misc"
)

// TargetCategory is a SugoiMusic upload-form category id.
type TargetCategory int

const (
	TargetAlbum            TargetCategory = 0
	TargetEP               TargetCategory = 1
	TargetSingle           TargetCategory = 2
	TargetBluray           TargetCategory = 3
	TargetDVD              TargetCategory = 4
	TargetPV               TargetCategory = 5
	TargetMusicPerformance TargetCategory = 6
	TargetTVMusic          TargetCategory = 7
	TargetTVVariety        TargetCategory = 8
	TargetTVDrama          TargetCategory = 9
	TargetPictures         TargetCategory = 10
	TargetMisc             TargetCategory = 11
	TargetFansubs          TargetCategory = 12
)

// CategoryToTarget maps every JPS category to its SugoiMusic id. Album and
// Fansubs entries are provisional: Album may be rewritten to EP and Fansubs
// to a concrete TV category during payload assembly.
var CategoryToTarget = map[Category]TargetCategory{
	CategoryAlbum:     TargetAlbum,
	CategorySingle:    TargetSingle,
	CategoryBluray:    TargetBluray,
	CategoryDVD:       TargetDVD,
	CategoryPV:        TargetPV,
	CategoryTVMusic:   TargetTVMusic,
	CategoryTVVariety: TargetTVVariety,
	CategoryTVDrama:   TargetTVDrama,
	CategoryFansubs:   TargetFansubs,
	CategoryPictures:  TargetPictures,
	CategoryMisc:      TargetMisc,
}

// VideoCategories are the JPS categories whose releases are expected to
// carry container/media slash tokens rather than format/bitrate/media.
var VideoCategories = map[Category]bool{
	CategoryBluray:    true,
	CategoryDVD:       true,
	CategoryPV:        true,
	CategoryTVMusic:   true,
	CategoryTVVariety: true,
	CategoryTVDrama:   true,
	CategoryFansubs:   true,
}

// MusicCategories carry format/bitrate/media slash tokens.
var MusicCategories = map[Category]bool{
	CategoryAlbum:  true,
	CategorySingle: true,
}

// NoDateCategories may legitimately lack a release date in the headline.
// The date is backfilled from the upload date of the chosen torrent.
var NoDateCategories = map[Category]bool{
	CategoryTVMusic:   true,
	CategoryTVVariety: true,
	CategoryTVDrama:   true,
	CategoryFansubs:   true,
}

// NoReleaseDataCategories carry no per-release format data at all.
var NoReleaseDataCategories = map[Category]bool{
	CategoryPictures: true,
	CategoryMisc:     true,
}

// NoArtistCategories may lack an artist link in the headline; the artist
// is recovered from the headline text with a category-specific pattern.
var NoArtistCategories = map[Category]bool{
	CategoryPictures: true,
	CategoryMisc:     true,
}

// StripMediaInfoTargets are SugoiMusic categories that carry no per-file
// technical metadata; container/mediainfo/resolution fields are removed
// from the payload once the final type is one of these.
var StripMediaInfoTargets = map[TargetCategory]bool{
	TargetMisc: true,
}

// FansubsCandidates is the fixed list the operator chooses from when the
// concrete category of a Fansubs group cannot be auto-detected.
var FansubsCandidates = []Category{
	CategoryTVMusic,
	CategoryTVVariety,
	CategoryTVDrama,
}

// CategoryStatus records whether a release's slash-token shape matched the
// expected shape for its group category.
type CategoryStatus string

const (
	CategoryStatusGood CategoryStatus = "good"
	CategoryStatusBad  CategoryStatus = "bad"
)

// KnownCategory reports whether the bracketed headline token is a category
// this tool understands.
func KnownCategory(s string) bool {
	_, ok := CategoryToTarget[Category(s)]
	return ok
}
