package normalize

import (
	"errors"
	"testing"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

type fakeProber struct {
	categories []models.Category
	err        error
}

func (p *fakeProber) ArtistCategories(artist string) ([]models.Category, error) {
	return p.categories, p.err
}

func TestDecideEP(t *testing.T) {
	shortAlbum := []string{
		"01 Track.flac", "02 Track.flac", "03 Track.flac", "cover.jpg",
	}
	fullAlbum := []string{
		"01.mp3", "02.mp3", "03.mp3", "04.mp3", "05.mp3", "06.mp3", "07.mp3",
	}

	if got := DecideEP("CD", shortAlbum); got != models.TargetEP {
		t.Errorf("Expected EP for a 3-track CD, got %v", got)
	}
	if got := DecideEP("CD", fullAlbum); got != models.TargetAlbum {
		t.Errorf("Expected Album for a 7-track CD, got %v", got)
	}
	if got := DecideEP("DVD", shortAlbum); got != models.TargetAlbum {
		t.Errorf("Disc media must always be Album, got %v", got)
	}
	if got := DecideEP("CD", []string{"album.iso"}); got != models.TargetAlbum {
		t.Errorf("Disc image must always be Album, got %v", got)
	}
}

func TestDecideEPIgnoresOffVocal(t *testing.T) {
	files := []string{
		"01 Song.flac",
		"02 Song (Instrumental).flac",
		"03 B-Side.flac",
		"04 B-Side (off vocal).flac",
	}

	if got := DecideEP("CD", files); got != models.TargetEP {
		t.Errorf("Expected EP with off-vocal tracks excluded, got %v", got)
	}
}

func TestDecideMusicPerformance(t *testing.T) {
	multiFile := []string{"part1.mkv", "part2.mkv"}
	oneFile := []string{"show.mkv"}

	got, err := DecideMusicPerformance([]string{"Artist"}, multiFile, 0, nil)
	if err != nil {
		t.Fatalf("DecideMusicPerformance failed: %v", err)
	}
	if got != models.TargetTVMusic {
		t.Errorf("Multi-file must be TV Music, got %v", got)
	}

	got, err = DecideMusicPerformance([]string{"Artist"}, oneFile, 1600000, nil)
	if err != nil {
		t.Fatalf("DecideMusicPerformance failed: %v", err)
	}
	if got != models.TargetTVMusic {
		t.Errorf("Long video must be TV Music, got %v", got)
	}

	got, err = DecideMusicPerformance([]string{"A", "B"}, oneFile, 0, nil)
	if err != nil {
		t.Fatalf("DecideMusicPerformance failed: %v", err)
	}
	if got != models.TargetMusicPerformance {
		t.Errorf("Multiple artists must be Music Performance, got %v", got)
	}
}

func TestDecideMusicPerformanceProbesArtist(t *testing.T) {
	oneFile := []string{"live.mkv"}

	nonTV := &fakeProber{categories: []models.Category{models.CategoryAlbum, models.CategoryPV}}
	got, err := DecideMusicPerformance([]string{"Artist"}, oneFile, 0, nonTV)
	if err != nil {
		t.Fatalf("DecideMusicPerformance failed: %v", err)
	}
	if got != models.TargetMusicPerformance {
		t.Errorf("Non-TV artist must be Music Performance, got %v", got)
	}

	tvArtist := &fakeProber{categories: []models.Category{models.CategoryAlbum, models.CategoryTVVariety}}
	got, err = DecideMusicPerformance([]string{"Artist"}, oneFile, 0, tvArtist)
	if err != nil {
		t.Fatalf("DecideMusicPerformance failed: %v", err)
	}
	if got != models.TargetTVMusic {
		t.Errorf("TV artist must be TV Music, got %v", got)
	}
}

func TestDecideMusicPerformanceProbeFailure(t *testing.T) {
	broken := &fakeProber{err: errors.New("connection reset")}

	_, err := DecideMusicPerformance([]string{"Artist"}, []string{"live.mkv"}, 0, broken)
	if err == nil {
		t.Fatal("Expected an error from a failed probe")
	}

	var perr *models.ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected ProtocolError, got %T", err)
	}
}

func TestAlternateFansubsCategoryAutoDetect(t *testing.T) {
	prober := &fakeProber{categories: []models.Category{models.CategoryTVDrama}}

	got, err := AlternateFansubsCategory("Artist", prober, nil)
	if err != nil {
		t.Fatalf("AlternateFansubsCategory failed: %v", err)
	}
	if got != models.TargetTVDrama {
		t.Errorf("Expected TV Drama from auto-detect, got %v", got)
	}
}

// A music category in the artist listing blocks auto-detection even when
// only one TV category is present.
func TestAlternateFansubsCategoryAmbiguous(t *testing.T) {
	prober := &fakeProber{categories: []models.Category{models.CategorySingle, models.CategoryTVDrama}}

	answered := func(candidates []models.Category) (string, error) {
		return "TV-Variety", nil
	}
	got, err := AlternateFansubsCategory("Artist", prober, answered)
	if err != nil {
		t.Fatalf("AlternateFansubsCategory failed: %v", err)
	}
	if got != models.TargetTVVariety {
		t.Errorf("Expected prompted TV Variety, got %v", got)
	}
}

func TestAlternateFansubsCategoryEmptyAnswer(t *testing.T) {
	prober := &fakeProber{categories: []models.Category{models.CategoryTVDrama, models.CategoryTVMusic}}

	silent := func(candidates []models.Category) (string, error) {
		return "", nil
	}
	got, err := AlternateFansubsCategory("Artist", prober, silent)
	if err != nil {
		t.Fatalf("AlternateFansubsCategory failed: %v", err)
	}
	if got != models.TargetFansubs {
		t.Errorf("Empty answer must keep Fansubs, got %v", got)
	}
}

func TestAlternateFansubsCategoryNoPrompt(t *testing.T) {
	got, err := AlternateFansubsCategory("", nil, nil)
	if err != nil {
		t.Fatalf("AlternateFansubsCategory failed: %v", err)
	}
	if got != models.TargetFansubs {
		t.Errorf("No prompt must keep Fansubs, got %v", got)
	}
}

func TestAlternateFansubsCategoryBadAnswer(t *testing.T) {
	prompt := func(candidates []models.Category) (string, error) {
		return "Album", nil
	}
	if _, err := AlternateFansubsCategory("", nil, prompt); err == nil {
		t.Fatal("Expected an error for an answer outside the candidates")
	}
}
