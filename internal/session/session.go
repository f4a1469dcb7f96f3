// Package session persists lightweight editing sessions: the topic a user is
// working on, the lesson it produced, and the message history. Sessions are
// plain JSON documents on disk, one file per session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

var idRe = regexp.MustCompile(`^[0-9a-f]{8}$`)

type Session struct {
	SessionID string           `json:"session_id"`
	Topic     string           `json:"topic"`
	LessonID  string           `json:"lesson_id,omitempty"`
	Messages  []map[string]any `json:"messages,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save assigns a fresh id and persists the session.
func (s *Store) Save(sess Session) (Session, error) {
	sess.SessionID = uuid.NewString()[:8]
	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	if err := s.write(sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Update overwrites mutable fields of an existing session.
func (s *Store) Update(id string, topic, lessonID string, messages []map[string]any) (Session, error) {
	sess, err := s.Get(id)
	if err != nil {
		return Session{}, err
	}

	if topic != "" {
		sess.Topic = topic
	}
	if lessonID != "" {
		sess.LessonID = lessonID
	}
	if messages != nil {
		sess.Messages = messages
	}
	sess.UpdatedAt = time.Now().UTC()

	if err := s.write(sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Store) Get(id string) (Session, error) {
	if !idRe.MatchString(id) {
		return Session{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: read %s: %w", id, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("session: parse %s: %w", id, err)
	}
	return sess, nil
}

// List returns all sessions, newest first.
func (s *Store) List() ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("session: list dir: %w", err)
	}

	var out []Session
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue
		}
		out = append(out, sess)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) write(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal %s: %w", sess.SessionID, err)
	}
	if err := os.WriteFile(s.path(sess.SessionID), data, 0o644); err != nil {
		return fmt.Errorf("session: write %s: %w", sess.SessionID, err)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, "session_"+id+".json")
}
