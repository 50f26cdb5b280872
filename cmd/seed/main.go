package main

import (
	"encoding/csv"
	"math/rand"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/musiq-plus/backend/internal/catalog"
	"github.com/musiq-plus/backend/internal/config"
)

// Fixed seed so the ground truth is reproducible across runs.
const rngSeed = 42

var songs = []catalog.Item{
	{ID: 1, Name: "Blinding Lights", Artist: "The Weeknd", Genre: "Pop", Tempo: "Fast", Instrumentation: "Synthesizer, Vocals", Keyword: "pop", Mood: "Upbeat", DurationSeconds: 200, Language: "English", Tags: "pop, fast, 2020, hit", Description: "Modern pop hit with a strong synthwave influence."},
	{ID: 2, Name: "Shape of You", Artist: "Ed Sheeran", Genre: "Pop", Tempo: "Medium", Instrumentation: "Guitar, Vocals, Percussion", Keyword: "pop", Mood: "Upbeat", DurationSeconds: 234, Language: "English", Tags: "pop, danceable, radio", Description: "Romantic pop track with a catchy groove."},
	{ID: 3, Name: "Bohemian Rhapsody", Artist: "Queen", Genre: "Rock", Tempo: "Medium", Instrumentation: "Guitar, Piano, Vocals, Drums", Keyword: "rock", Mood: "Dramatic", DurationSeconds: 355, Language: "English", Tags: "rock, classic, 70s", Description: "Rock classic with an unconventional structure."},
	{ID: 4, Name: "Smells Like Teen Spirit", Artist: "Nirvana", Genre: "Rock", Tempo: "Fast", Instrumentation: "Guitar, Drums, Bass, Vocals", Keyword: "rock", Mood: "Upbeat", DurationSeconds: 301, Language: "English", Tags: "rock, grunge, 90s", Description: "Grunge anthem that defined the nineties."},
	{ID: 5, Name: "Take Five", Artist: "The Dave Brubeck Quartet", Genre: "Jazz", Tempo: "Medium", Instrumentation: "Saxophone, Piano, Drums", Keyword: "jazz", Mood: "Chill", DurationSeconds: 324, Language: "Instrumental", Tags: "jazz, classic, instrumental", Description: "Jazz standard in 5/4, one of the most iconic ever recorded."},
	{ID: 6, Name: "Garota de Ipanema", Artist: "Tom Jobim", Genre: "MPB", Tempo: "Medium", Instrumentation: "Guitar, Vocals, Piano", Keyword: "mpb", Mood: "Relaxed", DurationSeconds: 210, Language: "Portuguese", Tags: "mpb, bossa nova, classic", Description: "One of the greatest Bossa Nova classics."},
	{ID: 7, Name: "Aquarela do Brasil", Artist: "Ary Barroso", Genre: "MPB", Tempo: "Medium", Instrumentation: "Orchestra, Vocals", Keyword: "mpb", Mood: "Upbeat", DurationSeconds: 260, Language: "Portuguese", Tags: "mpb, samba, classic", Description: "Classic Brazilian song with a strong national identity."},
	{ID: 8, Name: "Blue in Green", Artist: "Miles Davis", Genre: "Jazz", Tempo: "Slow", Instrumentation: "Trumpet, Piano, Bass", Keyword: "jazz", Mood: "Sad", DurationSeconds: 329, Language: "Instrumental", Tags: "jazz, modal, classic", Description: "Melancholic, introspective jazz ballad."},
	{ID: 9, Name: "Clair de Lune", Artist: "Claude Debussy", Genre: "Classical", Tempo: "Slow", Instrumentation: "Piano", Keyword: "classical", Mood: "Relaxed", DurationSeconds: 290, Language: "Instrumental", Tags: "classical, piano, romantic", Description: "Soft, contemplative impressionist piano piece."},
	{ID: 10, Name: "Für Elise", Artist: "Ludwig van Beethoven", Genre: "Classical", Tempo: "Medium", Instrumentation: "Piano", Keyword: "classical", Mood: "Nostalgic", DurationSeconds: 195, Language: "Instrumental", Tags: "classical, piano, study", Description: "Extremely well-known piano piece, widely used for study."},
	{ID: 11, Name: "SICKO MODE", Artist: "Travis Scott", Genre: "Hip Hop", Tempo: "Medium", Instrumentation: "Beat, Vocals", Keyword: "hip hop", Mood: "Upbeat", DurationSeconds: 312, Language: "English", Tags: "hip hop, trap, modern", Description: "Hip hop and trap track with striking beat switches."},
	{ID: 12, Name: "God's Plan", Artist: "Drake", Genre: "Hip Hop", Tempo: "Medium", Instrumentation: "Beat, Vocals", Keyword: "hip hop", Mood: "Chill", DurationSeconds: 210, Language: "English", Tags: "hip hop, chill, radio", Description: "Hip hop track with a calmer, melodic feel."},
	{ID: 13, Name: "One More Time", Artist: "Daft Punk", Genre: "Electronic", Tempo: "Fast", Instrumentation: "Synthesizer, Vocals", Keyword: "electronic", Mood: "Upbeat", DurationSeconds: 320, Language: "English", Tags: "electronic, house, classic", Description: "Electronic music classic for parties."},
	{ID: 14, Name: "Strobe", Artist: "deadmau5", Genre: "Electronic", Tempo: "Medium", Instrumentation: "Synthesizer", Keyword: "electronic", Mood: "Focused", DurationSeconds: 630, Language: "Instrumental", Tags: "electronic, progressive, long", Description: "Long progressive track, often used for focus."},
	{ID: 15, Name: "Lose Yourself", Artist: "Eminem", Genre: "Hip Hop", Tempo: "Medium", Instrumentation: "Beat, Vocals", Keyword: "hip hop", Mood: "Focused", DurationSeconds: 326, Language: "English", Tags: "hip hop, soundtrack, motivational", Description: "Intense, motivational Eminem track."},
	{ID: 16, Name: "Numb", Artist: "Linkin Park", Genre: "Rock", Tempo: "Medium", Instrumentation: "Guitar, Drums, Synth", Keyword: "rock", Mood: "Sad", DurationSeconds: 185, Language: "English", Tags: "rock, nu metal, 2000s", Description: "Melancholic and intense Linkin Park track."},
	{ID: 17, Name: "Perfect", Artist: "Ed Sheeran", Genre: "Pop", Tempo: "Slow", Instrumentation: "Guitar, Vocals", Keyword: "pop", Mood: "Romantic", DurationSeconds: 263, Language: "English", Tags: "pop, ballad, romantic", Description: "Romantic pop ballad made for slow dances."},
	{ID: 18, Name: "Astronomia", Artist: "Vicetone & Tony Igy", Genre: "Electronic", Tempo: "Fast", Instrumentation: "Synthesizer", Keyword: "electronic", Mood: "Upbeat", DurationSeconds: 222, Language: "Instrumental", Tags: "electronic, meme, danceable", Description: "Electronic track made famous by internet memes."},
}

// Ground-truth users rate every item; their like probability depends on
// whether the item's genre is among their preferences.
var groundTruthPrefs = map[int][]string{
	1:  {"MPB", "Classical"},
	2:  {"Rock", "Hip Hop"},
	3:  {"Pop", "Electronic"},
	4:  {"Jazz", "Classical"},
	5:  {"Hip Hop"},
	6:  {"Electronic"},
	7:  {"MPB", "Jazz"},
	8:  {"Rock"},
	9:  {"Pop"},
	10: {"Jazz", "MPB", "Classical"},
}

const (
	likeProbPreferred = 0.85
	likeProbOther     = 0.35
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "seed")

	cfg := config.Load()
	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		entry.Fatalf("Failed to create data directory: %v", err)
	}

	if err := writeItems(cfg.Data.ItemsFile); err != nil {
		entry.Fatalf("Failed to write items table: %v", err)
	}
	entry.Infof("Wrote %d items to %s", len(songs), cfg.Data.ItemsFile)

	if err := writeGroundTruth(cfg.Data.GroundTruthFile); err != nil {
		entry.Fatalf("Failed to write ground truth: %v", err)
	}
	entry.Infof("Wrote ground truth for %d users to %s", len(groundTruthPrefs), cfg.Data.GroundTruthFile)

	if err := writeEmptyRatings(cfg.Data.RatingsFile); err != nil {
		entry.Fatalf("Failed to write ratings table: %v", err)
	}
	entry.Infof("Wrote empty ratings table to %s", cfg.Data.RatingsFile)
}

func writeItems(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"item_id", "name", "artist", "genre", "tempo", "instrumentation",
		"keyword", "mood", "duration_seconds", "language", "tags",
		"description", "youtube_url",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range songs {
		rec := []string{
			strconv.Itoa(s.ID), s.Name, s.Artist, s.Genre, s.Tempo,
			s.Instrumentation, s.Keyword, s.Mood,
			strconv.Itoa(s.DurationSeconds), s.Language, s.Tags,
			s.Description, s.YouTubeURL,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeGroundTruth(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(rngSeed))
	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "item_id", "liked"}); err != nil {
		return err
	}
	for userID := 1; userID <= len(groundTruthPrefs); userID++ {
		prefs := groundTruthPrefs[userID]
		for _, item := range songs {
			p := likeProbOther
			for _, genre := range prefs {
				if genre == item.Genre {
					p = likeProbPreferred
					break
				}
			}
			liked := "0"
			if rng.Float64() < p {
				liked = "1"
			}
			rec := []string{strconv.Itoa(userID), strconv.Itoa(item.ID), liked}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeEmptyRatings(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "name", "item_id", "liked", "origin"}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
