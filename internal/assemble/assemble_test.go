package assemble

import (
	"testing"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

func musicGroup() *models.GroupRecord {
	return &models.GroupRecord{
		GroupID:     100,
		Category:    models.CategorySingle,
		Artists:     []string{"Perfume"},
		Date:        "20180815",
		Title:       "Future Pop",
		Description: "Sixth studio album.",
		ImageLink:   "https://img.example.org/futurepop.jpg",
		Tags:        []string{"electronic", "j-pop"},
	}
}

func musicRelease() *models.ReleaseRecord {
	return &models.ReleaseRecord{
		TorrentID:   "111",
		SlashTokens: []string{"MP3", "320", "CD"},
		UploadDate:  "2018-08-20 12:00:00",
	}
}

func musicNormalized() *models.NormalizedRelease {
	return &models.NormalizedRelease{
		CategoryStatus: models.CategoryStatusGood,
		AudioFormat:    "MP3",
		Bitrate:        "320",
		Media:          "CD",
	}
}

var testAuth = &models.AuthContext{AuthKey: "deadbeef", UserID: "42"}

func TestAssembleMusic(t *testing.T) {
	payload, err := Assemble(musicGroup(), musicNormalized(), musicRelease(), testAuth, nil, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := map[string]interface{}{
		"submit":      "true",
		"title":       "Future Pop",
		"tags":        "electronic,j-pop",
		"year":        "20180815",
		"auth":        "deadbeef",
		"album_desc":  "Sixth studio album.",
		"media":       "CD",
		"audioformat": "MP3",
		"bitrate":     "320",
		"image":       "https://img.example.org/futurepop.jpg",
		"type":        int(models.TargetSingle),
	}
	for key, val := range want {
		if payload[key] != val {
			t.Errorf("payload[%q] = %v, want %v", key, payload[key], val)
		}
	}

	if _, present := payload["release_desc"]; present {
		t.Error("Music release must use album_desc, not release_desc")
	}

	idols, ok := payload["idols[]"].([]string)
	if !ok || len(idols) != 1 || idols[0] != "Perfume" {
		t.Errorf("Unexpected idols %v", payload["idols[]"])
	}
}

func TestAssembleVideo(t *testing.T) {
	group := musicGroup()
	group.Category = models.CategoryPV
	group.Description = "Music video, 1920x1080."

	n := &models.NormalizedRelease{
		IsVideo:        true,
		CategoryStatus: models.CategoryStatusGood,
		Container:      "MP4",
		AudioFormat:    "CHANGEME",
		Media:          "Web",
	}

	payload, err := Assemble(group, n, musicRelease(), testAuth, nil, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if payload["release_desc"] != "Music video, 1920x1080." {
		t.Errorf("Video release must use release_desc, got %v", payload["release_desc"])
	}
	if _, present := payload["album_desc"]; present {
		t.Error("Video release must not carry album_desc")
	}
	if payload["sub"] != "NoSubs" {
		t.Errorf("Expected sub NoSubs, got %v", payload["sub"])
	}
	if payload["lang"] != "CHANGEME" {
		t.Errorf("Expected lang CHANGEME, got %v", payload["lang"])
	}
	if payload["container"] != "MP4" {
		t.Errorf("Expected container MP4, got %v", payload["container"])
	}
	if payload["ressel"] != "1920x1080" {
		t.Errorf("Expected resolution from description, got %v", payload["ressel"])
	}
	if payload["type"] != int(models.TargetPV) {
		t.Errorf("Expected PV type, got %v", payload["type"])
	}
	if _, present := payload["bitrate"]; present {
		t.Error("Video release must not carry a bitrate")
	}
}

func TestAssembleYearBackfill(t *testing.T) {
	group := musicGroup()
	group.Category = models.CategoryTVVariety
	group.Date = ""

	n := &models.NormalizedRelease{
		IsVideo:        true,
		CategoryStatus: models.CategoryStatusGood,
		Container:      "TS",
		AudioFormat:    "CHANGEME",
		Media:          "TV",
	}

	payload, err := Assemble(group, n, musicRelease(), testAuth, nil, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if payload["year"] != "2018" {
		t.Errorf("Expected year backfilled from upload date, got %v", payload["year"])
	}
}

func TestAssembleRemaster(t *testing.T) {
	n := musicNormalized()
	n.RemasterTitle = "Deluxe Edition"
	n.RemasterYear = "2021"

	payload, err := Assemble(musicGroup(), n, musicRelease(), testAuth, nil, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if payload["remaster"] != "on" {
		t.Errorf("Expected remaster flag, got %v", payload["remaster"])
	}
	if payload["remastertitle"] != "Deluxe Edition" || payload["remasteryear"] != "2021" {
		t.Errorf("Unexpected remaster fields %v / %v", payload["remastertitle"], payload["remasteryear"])
	}
}

func TestAssembleAlbumEPDecision(t *testing.T) {
	group := musicGroup()
	group.Category = models.CategoryAlbum

	res := Resolution{TorrentFiles: []string{"01.mp3", "02.mp3", "03.mp3"}}
	payload, err := Assemble(group, musicNormalized(), musicRelease(), testAuth, nil, res)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if payload["type"] != int(models.TargetEP) {
		t.Errorf("Expected EP for a 3-track album, got %v", payload["type"])
	}
}

// A music-shaped release inside a video group re-resolves through the
// Album/EP decision instead of keeping the video category.
func TestAssembleBadStatusMusic(t *testing.T) {
	group := musicGroup()
	group.Category = models.CategoryPV

	n := musicNormalized()
	n.CategoryStatus = models.CategoryStatusBad

	res := Resolution{TorrentFiles: []string{"01.mp3", "02.mp3"}}
	payload, err := Assemble(group, n, musicRelease(), testAuth, nil, res)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if payload["type"] != int(models.TargetEP) {
		t.Errorf("Expected EP remap, got %v", payload["type"])
	}
}

func TestAssembleBadStatusVideo(t *testing.T) {
	group := musicGroup()
	group.Category = models.CategoryAlbum

	n := &models.NormalizedRelease{
		IsVideo:        true,
		CategoryStatus: models.CategoryStatusBad,
		Codec:          "h264",
		AudioFormat:    "CHANGEME",
		Media:          "DVD",
	}

	payload, err := Assemble(group, n, musicRelease(), testAuth, nil, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if payload["type"] != int(models.TargetDVD) {
		t.Errorf("Expected DVD remap, got %v", payload["type"])
	}
}

func TestAssembleStripMisc(t *testing.T) {
	group := musicGroup()
	group.Category = models.CategoryMisc
	group.Artists = []string{"Various Magazines"}

	n := &models.NormalizedRelease{CategoryStatus: models.CategoryStatusGood}

	payload, err := Assemble(group, n, musicRelease(), testAuth, nil, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	for _, field := range []string{"media", "audioformat", "bitrate", "container", "codec", "ressel"} {
		if _, present := payload[field]; present {
			t.Errorf("Misc upload must not carry %q", field)
		}
	}
}

func TestAssembleOverrides(t *testing.T) {
	overrides := models.UploadPayload{"audioformat": "FLAC", "mediainfo": "raw dump"}

	payload, err := Assemble(musicGroup(), musicNormalized(), musicRelease(), testAuth, overrides, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if payload["audioformat"] != "FLAC" {
		t.Errorf("Override must win, got %v", payload["audioformat"])
	}
	if payload["mediainfo"] != "raw dump" {
		t.Errorf("Expected override-only field, got %v", payload["mediainfo"])
	}
}

func TestAssembleVariousArtists(t *testing.T) {
	group := musicGroup()
	group.Artists = []string{"V.A."}
	group.ContributingArtists = map[string]string{
		"Bob":   "ぼぶ",
		"Alice": "ありす",
	}

	payload, err := Assemble(group, musicNormalized(), musicRelease(), testAuth, nil, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	idols, ok := payload["idols[]"].([]string)
	if !ok {
		t.Fatalf("idols[] has wrong type %T", payload["idols[]"])
	}
	if len(idols) != 2 || idols[0] != "Alice" || idols[1] != "Bob" {
		t.Errorf("Expected sorted contributing artists, got %v", idols)
	}
	if _, present := payload["contrib_artists[]"]; present {
		t.Error("V.A. upload must not carry contrib_artists[]")
	}
}

func TestAssembleVariousArtistsWithoutContrib(t *testing.T) {
	group := musicGroup()
	group.Artists = []string{"V.A."}

	if _, err := Assemble(group, musicNormalized(), musicRelease(), testAuth, nil, Resolution{}); err == nil {
		t.Fatal("Expected a validation failure for V.A. without contributing artists")
	}
}

func TestAssembleContributingArtists(t *testing.T) {
	group := musicGroup()
	group.ContributingArtists = map[string]string{"Guest": "げすと"}

	payload, err := Assemble(group, musicNormalized(), musicRelease(), testAuth, nil, Resolution{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	contrib, ok := payload["contrib_artists[]"].([]string)
	if !ok || len(contrib) != 1 || contrib[0] != "Guest" {
		t.Errorf("Unexpected contrib_artists[] %v", payload["contrib_artists[]"])
	}
}
