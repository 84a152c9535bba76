package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyLastSession = "last_session"
	prefixSession  = "session/"
	prefixDrops    = "drops/"
)

// ErrNoSession is returned when a session id is unknown or no session was saved yet.
var ErrNoSession = errors.New("no session")

// Preferences stores viewer settings that survive restarts.
type Preferences struct {
	Orientation     string    `json:"orientation"`
	Animations      bool      `json:"animations"`
	ShowCoordinates bool      `json:"show_coordinates"`
	LastUsed        time.Time `json:"last_used"`
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Orientation:     "white",
		Animations:      true,
		ShowCoordinates: true,
	}
}

// Session is one viewing session of a board: the placement it shows and
// the game state the rules attach to it.
type Session struct {
	ID        uuid.UUID `json:"id"`
	FEN       string    `json:"fen"`
	Started   time.Time `json:"started"`
	Updated   time.Time `json:"updated"`
	DropCount int       `json:"drop_count"`
}

// NewSession starts a session showing fen.
func NewSession(fen string) *Session {
	now := time.Now()
	return &Session{ID: uuid.New(), FEN: fen, Started: now, Updated: now}
}

// Drop is one piece drop accepted by the board.
type Drop struct {
	Seq   int       `json:"seq"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	Piece string    `json:"piece"`
	FEN   string    `json:"fen"`
	At    time.Time `json:"at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves viewer preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()
	return s.put([]byte(keyPreferences), prefs)
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get([]byte(keyPreferences), prefs); err != nil {
		return DefaultPreferences(), err
	}
	return prefs, nil
}

// SaveSession stores sess and marks it as the most recent session.
func (s *Storage) SaveSession(sess *Session) error {
	sess.Updated = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(sessionKey(sess.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyLastSession), []byte(sess.ID.String()))
	})
}

// LoadSession returns the session with the given id.
func (s *Storage) LoadSession(id uuid.UUID) (*Session, error) {
	sess := &Session{}
	found, err := s.get(sessionKey(id), sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	return sess, nil
}

// LastSession returns the most recently saved session.
func (s *Storage) LastSession() (*Session, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyLastSession))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNoSession
	}
	id, err := uuid.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("last session id: %w", err)
	}
	return s.LoadSession(id)
}

// RecordDrop appends d to the session's drop log and updates the session
// to the drop's resulting placement. The sequence number is assigned here.
func (s *Storage) RecordDrop(sess *Session, d Drop) (Drop, error) {
	sess.DropCount++
	d.Seq = sess.DropCount
	if d.At.IsZero() {
		d.At = time.Now()
	}
	if d.FEN != "" {
		sess.FEN = d.FEN
	}
	sess.Updated = d.At

	dropData, err := json.Marshal(d)
	if err != nil {
		return d, err
	}
	sessData, err := json.Marshal(sess)
	if err != nil {
		return d, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(dropKey(sess.ID, d.Seq), dropData); err != nil {
			return err
		}
		if err := txn.Set(sessionKey(sess.ID), sessData); err != nil {
			return err
		}
		return txn.Set([]byte(keyLastSession), []byte(sess.ID.String()))
	})
	return d, err
}

// Drops returns the drops of a session in the order they were recorded.
func (s *Storage) Drops(id uuid.UUID) ([]Drop, error) {
	var drops []Drop
	prefix := []byte(prefixDrops + id.String() + "/")
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var d Drop
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			}); err != nil {
				return err
			}
			drops = append(drops, d)
		}
		return nil
	})
	return drops, err
}

func sessionKey(id uuid.UUID) []byte {
	return []byte(prefixSession + id.String())
}

// dropKey zero-pads the sequence so keys sort in recording order.
func dropKey(id uuid.UUID, seq int) []byte {
	return fmt.Appendf(nil, "%s%s/%010d", prefixDrops, id, seq)
}

func (s *Storage) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// get decodes key into v and reports whether the key existed.
func (s *Storage) get(key []byte, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
