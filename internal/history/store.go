// Package history keeps the topics the user submitted locally, for the topic
// suggestion list. The remote submission history lives behind the client.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"curriculum-cli/internal/curriculum"
)

type Entry struct {
	Topic string          `json:"topic"`
	Kind  curriculum.Kind `json:"kind,omitempty"`
	TS    time.Time       `json:"ts"`
}

type Store struct {
	Path string
}

func (s *Store) ensureDir() error {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return errors.New("topic store path is empty")
	}
	return os.MkdirAll(filepath.Dir(s.Path), 0o755)
}

// Append records a submitted topic. Blank topics are ignored.
func (s *Store) Append(kind curriculum.Kind, topic string) error {
	if s == nil {
		return errors.New("topic store is nil")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(Entry{Topic: topic, Kind: kind, TS: time.Now()})
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Load returns every readable entry in file order; corrupt lines are skipped.
func (s *Store) Load() ([]Entry, error) {
	if s == nil {
		return nil, errors.New("topic store is nil")
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("topic store path is empty")
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []Entry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if strings.TrimSpace(e.Topic) == "" {
			continue
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Topics returns distinct topics, most recent first. Case-insensitive
// duplicates keep their latest spelling.
func (s *Store) Topics() ([]string, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		key := strings.ToLower(entries[i].Topic)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, entries[i].Topic)
	}
	return out, nil
}
