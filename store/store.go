// Package store persists plans, the photo library and practice history in a
// BoltDB database
package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	planBucket    = "plans"
	tagBucket     = "tags"
	photoBucket   = "photos"
	sessionBucket = "sessions"
	resultBucket  = "results"
	artistBucket  = "artists"
	drawingBucket = "drawings"
	metaBucket    = "meta"

	// exercise ids are drawn from this bucket's sequence; the exercises
	// themselves live inside their plan.
	exerciseBucket = "exercises"
)

var buckets = []string{
	planBucket,
	exerciseBucket,
	tagBucket,
	photoBucket,
	sessionBucket,
	resultBucket,
	artistBucket,
	drawingBucket,
	metaBucket,
}

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
	now func() time.Time
	log *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithClock replaces the clock used for stored timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithLogger sets the logger used for write operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errInstanceRunning
		}

		return nil, errOpenDB.Fmt(pathToDB).Wrap(err)
	}

	return db, nil
}

// NewClient opens the database at dbPath, creating the buckets and upgrading
// the schema where necessary.
func NewClient(dbPath string, opts ...Option) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{
		DB:  db,
		now: time.Now,
		log: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			_, err = tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return c.migrate(tx)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// view runs fn in a read-only transaction unless ctx is already done.
func (c *Client) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.View(fn)
}

// update runs fn in a read-write transaction unless ctx is already done.
func (c *Client) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.Update(fn)
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)

	return b
}

// get decodes the record stored under id. It reports false if there is none.
func get[T any](tx *bolt.Tx, bucket string, id uint64, v *T) (bool, error) {
	data := tx.Bucket([]byte(bucket)).Get(itob(id))
	if data == nil {
		return false, nil
	}

	return true, json.Unmarshal(data, v)
}

func put(tx *bolt.Tx, bucket string, id uint64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return tx.Bucket([]byte(bucket)).Put(itob(id), data)
}

// all decodes every record in bucket in key order.
func all[T any](tx *bolt.Tx, bucket string) ([]T, error) {
	var records []T

	err := tx.Bucket([]byte(bucket)).ForEach(func(_, v []byte) error {
		var rec T

		err := json.Unmarshal(v, &rec)
		if err != nil {
			return err
		}

		records = append(records, rec)

		return nil
	})

	return records, err
}

func nextID(tx *bolt.Tx, bucket string) (uint64, error) {
	return tx.Bucket([]byte(bucket)).NextSequence()
}
