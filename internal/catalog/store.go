package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/musiq-plus/backend/internal/apperr"
)

// Store holds the immutable item catalog in file row order
type Store struct {
	items []Item
	byID  map[int]int // item id -> row index
}

// New builds a store from already-loaded items, keeping their order.
func New(items []Item) *Store {
	s := &Store{byID: make(map[int]int, len(items))}
	for _, item := range items {
		s.byID[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	return s
}

// Load reads the items table. The catalog is read-only for the process
// lifetime; a changed file requires a restart.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: items table %s: %v", apperr.ErrConfiguration, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", apperr.ErrConfiguration, path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: items table %s is empty", apperr.ErrConfiguration, path)
	}

	col := columnIndex(rows[0])
	s := &Store{byID: make(map[int]int)}
	for _, row := range rows[1:] {
		id, err := strconv.Atoi(field(row, col, "item_id"))
		if err != nil {
			return nil, fmt.Errorf("%w: bad item_id %q in %s", apperr.ErrConfiguration, field(row, col, "item_id"), path)
		}
		duration, _ := strconv.Atoi(field(row, col, "duration_seconds"))
		item := Item{
			ID:              id,
			Name:            field(row, col, "name"),
			Artist:          field(row, col, "artist"),
			Genre:           field(row, col, "genre"),
			Tempo:           field(row, col, "tempo"),
			Instrumentation: field(row, col, "instrumentation"),
			Keyword:         field(row, col, "keyword"),
			Mood:            field(row, col, "mood"),
			DurationSeconds: duration,
			Language:        field(row, col, "language"),
			Tags:            field(row, col, "tags"),
			Description:     field(row, col, "description"),
			YouTubeURL:      field(row, col, "youtube_url"),
		}
		if item.Genre == "" {
			item.Genre = "unknown"
		}
		s.byID[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	return s, nil
}

// Items returns the catalog in stable file row order.
func (s *Store) Items() []Item {
	return s.items
}

// Len returns the number of catalog items.
func (s *Store) Len() int {
	return len(s.items)
}

// ByID looks up an item by id.
func (s *Store) ByID(id int) (Item, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Item{}, false
	}
	return s.items[idx], true
}

// RowIndex maps an item id to its row index in the catalog order.
func (s *Store) RowIndex(id int) (int, bool) {
	idx, ok := s.byID[id]
	return idx, ok
}

// Search filters the catalog by a free-text query (case-insensitive
// substring over name, artist and tags) and/or an exact genre match.
func (s *Store) Search(query, genre string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]Item, 0)
	for _, item := range s.items {
		if q != "" &&
			!strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.Artist), q) &&
			!strings.Contains(strings.ToLower(item.Tags), q) {
			continue
		}
		if genre != "" && !strings.EqualFold(item.Genre, genre) {
			continue
		}
		results = append(results, item)
	}
	return results
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func field(row []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
