// Package notes stores indexed study material: lecture notes and past exam
// papers, keyed by the unit-code metadata extracted at indexing time. It
// stands in for the original vector knowledge base with a plain key-value
// layout and keyword retrieval, which is all the assistant chains need.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned when a note or paper does not exist in the store.
var ErrNotFound = errors.New("not found")

// Note is one indexed piece of study material.
type Note struct {
	ID       string `json:"id"`
	UnitCode string `json:"unitCode"`
	Topic    string `json:"topic"`
	Year     string `json:"year"`
	Content  string `json:"content"`
}

// Paper is one past exam paper, identified by unit code and year.
type Paper struct {
	UnitCode string `json:"unitCode"`
	Year     string `json:"year"`
	Content  string `json:"content"`
}

// Store persists notes and papers in a BoltDB file.
type Store struct {
	db *bolt.DB
}

var (
	notesBucket  = []byte("notes")
	papersBucket = []byte("papers")
)

// NewStore opens (or creates) the store at path and ensures the required
// buckets exist. The database file is created with 0600 permissions.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(notesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(papersBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutNote stores a note and returns its assigned ID. The ID combines a
// sequence number with the note's unit code.
func (s *Store) PutNote(_ context.Context, note Note) (string, error) {
	var newID string
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(notesBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		newID = fmt.Sprintf("%d-%s", seq, strings.ToLower(note.UnitCode))
		note.ID = newID

		v, err := json.Marshal(note)
		if err != nil {
			return fmt.Errorf("failed to marshal note: %w", err)
		}
		return b.Put([]byte(newID), v)
	})
	return newID, err
}

// Notes returns all stored notes.
func (s *Store) Notes(context.Context) ([]Note, error) {
	var all []Note
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(notesBucket).ForEach(func(_, v []byte) error {
			var note Note
			if err := json.Unmarshal(v, &note); err != nil {
				return fmt.Errorf("failed to unmarshal note: %w", err)
			}
			all = append(all, note)
			return nil
		})
	})
	return all, err
}

// Note returns the note with the given ID, or ErrNotFound.
func (s *Store) Note(_ context.Context, id string) (Note, error) {
	var note Note
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(notesBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &note)
	})
	return note, err
}

func paperKey(unitCode, year string) []byte {
	return []byte(fmt.Sprintf("%s/%s", strings.ToUpper(unitCode), year))
}

// PutPaper stores a past paper under its unit code and year.
func (s *Store) PutPaper(_ context.Context, p Paper) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		v, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal paper: %w", err)
		}
		return tx.Bucket(papersBucket).Put(paperKey(p.UnitCode, p.Year), v)
	})
}

// FindPaper looks up a past paper. An exact unit-code-and-year match is
// preferred; failing that the unit constraint is relaxed (filename metadata is
// unreliable for unit codes), then the year constraint. Either argument may be
// empty. Returns ErrNotFound when nothing matches at all.
func (s *Store) FindPaper(_ context.Context, unitCode, year string) (Paper, error) {
	unitCode = strings.ToUpper(unitCode)

	var best Paper
	bestScore := -1
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(papersBucket).ForEach(func(_, v []byte) error {
			var p Paper
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("failed to unmarshal paper: %w", err)
			}

			unitMatch := unitCode != "" && strings.EqualFold(p.UnitCode, unitCode)
			yearMatch := year != "" && p.Year == year
			score := 0
			if unitMatch {
				score += 1
			}
			if yearMatch {
				score += 2
			}
			if score > bestScore {
				best = p
				bestScore = score
			}
			return nil
		})
	})
	if err != nil {
		return Paper{}, err
	}
	if bestScore < 0 {
		return Paper{}, ErrNotFound
	}
	// When the caller named a unit or year, a paper matching neither is no
	// better than nothing.
	if bestScore == 0 && (unitCode != "" || year != "") {
		return Paper{}, ErrNotFound
	}
	return best, nil
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Search returns up to k notes ranked by keyword overlap with the query.
// Notes sharing no token with the query are excluded; a nil result means the
// knowledge base had nothing relevant.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Note, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	all, err := s.Notes(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		note  Note
		score int
	}
	var matches []scored
	for _, note := range all {
		contentTokens := make(map[string]struct{})
		for _, t := range tokenize(note.Content + " " + note.Topic + " " + note.UnitCode) {
			contentTokens[t] = struct{}{}
		}

		score := 0
		for _, qt := range queryTokens {
			if len(qt) < 3 {
				continue
			}
			if _, ok := contentTokens[qt]; ok {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{note: note, score: score})
		}
	}

	slices.SortStableFunc(matches, func(a, b scored) int {
		return b.score - a.score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	result := make([]Note, len(matches))
	for i, m := range matches {
		result[i] = m.note
	}
	return result, nil
}
