package rating

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/musiq-plus/backend/internal/apperr"
)

// row is one persisted record. A user-creation row has ItemID 0 and exists
// only to register the user; item ids in the catalog start at 1.
type row struct {
	UserID int
	Name   string
	ItemID int
	Liked  bool
	Origin Origin
}

// Store persists users and their ratings in a single tabular file.
// Mutations are serialized by the mutex and written through before the
// call returns.
type Store struct {
	path string
	mu   sync.RWMutex
	rows []row
}

// Open loads the ratings table, creating an empty one if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ratings table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ratings table %s: %w", path, err)
	}
	for i, rec := range records {
		if i == 0 || len(rec) < 5 {
			continue // header
		}
		userID, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("bad user_id %q in %s", rec[0], path)
		}
		itemID := 0
		if v := strings.TrimSpace(rec[2]); v != "" {
			itemID, _ = strconv.Atoi(v)
		}
		origin, err := ParseOrigin(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, fmt.Errorf("bad row in %s: %w", path, err)
		}
		s.rows = append(s.rows, row{
			UserID: userID,
			Name:   strings.TrimSpace(rec[1]),
			ItemID: itemID,
			Liked:  strings.TrimSpace(rec[3]) == "1",
			Origin: origin,
		})
	}
	return s, nil
}

// CreateUser registers a user under the next sequential id.
func (s *Store) CreateUser(name string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, fmt.Errorf("%w: user name must not be blank", apperr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextID := 1
	for _, r := range s.rows {
		if r.UserID >= nextID {
			nextID = r.UserID + 1
		}
	}
	s.rows = append(s.rows, row{UserID: nextID, Name: name, Origin: OriginOther})
	if err := s.persist(); err != nil {
		return User{}, err
	}
	return User{ID: nextID, Name: name}, nil
}

// Record upserts the rating for (userID, itemID): any prior record for the
// pair is replaced wholesale, liked and origin both.
func (s *Store) Record(userID, itemID int, liked bool, origin Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := ""
	kept := s.rows[:0]
	for _, r := range s.rows {
		if r.UserID == userID && r.Name != "" {
			name = r.Name
		}
		if r.UserID == userID && r.ItemID == itemID {
			continue
		}
		kept = append(kept, r)
	}
	s.rows = append(kept, row{
		UserID: userID,
		Name:   name,
		ItemID: itemID,
		Liked:  liked,
		Origin: origin,
	})
	return s.persist()
}

// Users lists registered users ordered by id.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[int]string)
	for _, r := range s.rows {
		if _, seen := byID[r.UserID]; !seen {
			byID[r.UserID] = r.Name
		}
	}
	users := make([]User, 0, len(byID))
	for id, name := range byID {
		users = append(users, User{ID: id, Name: name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// HasUser reports whether a user id is known to the store.
func (s *Store) HasUser(userID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// UserName returns the display name recorded for a user.
func (s *Store) UserName(userID int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.UserID == userID && r.Name != "" {
			return r.Name
		}
	}
	return ""
}

// Ratings returns all item ratings for a user in insertion order.
func (s *Store) Ratings(userID int) []Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Rating
	for _, r := range s.rows {
		if r.UserID != userID || r.ItemID == 0 {
			continue
		}
		out = append(out, Rating{UserID: r.UserID, ItemID: r.ItemID, Liked: r.Liked, Origin: r.Origin})
	}
	return out
}

// LikedItemIDs returns the distinct item ids the user marked as liked.
func (s *Store) LikedItemIDs(userID int) []int {
	var ids []int
	seen := make(map[int]bool)
	for _, r := range s.Ratings(userID) {
		if r.Liked && !seen[r.ItemID] {
			seen[r.ItemID] = true
			ids = append(ids, r.ItemID)
		}
	}
	return ids
}

// persist writes the full table through to disk. Callers must hold the
// write lock (or, at Open time, have exclusive ownership).
func (s *Store) persist() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to write ratings table: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "name", "item_id", "liked", "origin"}); err != nil {
		f.Close()
		return err
	}
	for _, r := range s.rows {
		itemID := ""
		if r.ItemID != 0 {
			itemID = strconv.Itoa(r.ItemID)
		}
		liked := "0"
		if r.Liked {
			liked = "1"
		}
		rec := []string{strconv.Itoa(r.UserID), r.Name, itemID, liked, string(r.Origin)}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
