// Package bbolt provides a BoltDB-backed statistics store.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/omerad1/TriviaKings/internal/stats"
)

const (
	playersBucket   = "players"
	questionsBucket = "questions"
	metaBucket      = "meta"

	gamesPlayedKey = "games_played"
	leaderKey      = "leader"
)

// Store is a BoltDB-backed statistics sink.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("statistics path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open statistics db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureBuckets() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{playersBucket, questionsBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ensure buckets: %w", err)
	}
	return nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the full snapshot. A fresh database yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (stats.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return stats.Snapshot{}, err
	}

	snap := stats.NewSnapshot()
	err := s.db.View(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(playersBucket)).ForEach(func(k, v []byte) error {
			var tally stats.PlayerTally
			if err := json.Unmarshal(v, &tally); err != nil {
				return fmt.Errorf("decode player %s: %w", k, err)
			}
			snap.Players[string(k)] = tally
			return nil
		}); err != nil {
			return err
		}

		if err := tx.Bucket([]byte(questionsBucket)).ForEach(func(k, v []byte) error {
			var tally stats.QuestionTally
			if err := json.Unmarshal(v, &tally); err != nil {
				return fmt.Errorf("decode question %s: %w", k, err)
			}
			snap.Questions[string(k)] = tally
			return nil
		}); err != nil {
			return err
		}

		meta := tx.Bucket([]byte(metaBucket))
		if v := meta.Get([]byte(gamesPlayedKey)); v != nil {
			if err := json.Unmarshal(v, &snap.GamesPlayed); err != nil {
				return fmt.Errorf("decode games played: %w", err)
			}
		}
		if v := meta.Get([]byte(leaderKey)); v != nil {
			if err := json.Unmarshal(v, &snap.Leader); err != nil {
				return fmt.Errorf("decode leader: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("load statistics: %w", err)
	}
	return snap, nil
}

// Save writes the full snapshot, replacing whatever was stored before.
func (s *Store) Save(ctx context.Context, snap stats.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		players, err := recreateBucket(tx, playersBucket)
		if err != nil {
			return err
		}
		for name, tally := range snap.Players {
			if err := putJSON(players, name, tally); err != nil {
				return err
			}
		}

		questions, err := recreateBucket(tx, questionsBucket)
		if err != nil {
			return err
		}
		for text, tally := range snap.Questions {
			if err := putJSON(questions, text, tally); err != nil {
				return err
			}
		}

		meta, err := recreateBucket(tx, metaBucket)
		if err != nil {
			return err
		}
		if err := putJSON(meta, gamesPlayedKey, snap.GamesPlayed); err != nil {
			return err
		}
		return putJSON(meta, leaderKey, snap.Leader)
	})
	if err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}

func recreateBucket(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	if err := tx.DeleteBucket([]byte(name)); err != nil {
		return nil, fmt.Errorf("clear bucket %s: %w", name, err)
	}
	bucket, err := tx.CreateBucket([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", name, err)
	}
	return bucket, nil
}

func putJSON(bucket *bbolt.Bucket, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := bucket.Put([]byte(key), data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
