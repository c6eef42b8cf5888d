package store

import (
	"encoding/binary"
	"log/slog"

	"go.etcd.io/bbolt"

	"github.com/ayoisaiah/sketch/internal/models"
)

// schemaVersion is the layout written by this version of the store.
// Version 2 copies the category, duration and photo of a result onto the
// drawing attached to it.
const schemaVersion = 2

var versionKey = []byte("schema_version")

func readVersion(tx *bbolt.Tx) uint64 {
	v := tx.Bucket([]byte(metaBucket)).Get(versionKey)
	if len(v) != 8 {
		return 0
	}

	return binary.BigEndian.Uint64(v)
}

// migrate stamps the schema version on new databases and refuses to open
// databases written by a newer release.
func (c *Client) migrate(tx *bbolt.Tx) error {
	version := readVersion(tx)

	if version > schemaVersion {
		return errSchemaTooNew.Fmt(version, schemaVersion)
	}

	if version == schemaVersion {
		return nil
	}

	if version == 1 {
		err := backfillDrawings(tx)
		if err != nil {
			return err
		}
	}

	c.log.Info(
		"database schema upgraded",
		slog.Uint64("from", version),
		slog.Uint64("to", schemaVersion),
	)

	return tx.Bucket([]byte(metaBucket)).Put(versionKey, itob(schemaVersion))
}

// backfillDrawings fills in the fields that version 1 drawings only held
// through their result.
func backfillDrawings(tx *bbolt.Tx) error {
	drawings, err := all[models.Drawing](tx, drawingBucket)
	if err != nil {
		return err
	}

	for i := range drawings {
		d := &drawings[i]

		if d.ResultID == nil {
			continue
		}

		var rec resultRecord

		ok, err := get(tx, resultBucket, *d.ResultID, &rec)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		d.TagID = rec.TagID
		d.DurationSeconds = rec.DurationSeconds
		d.PhotoID = rec.PhotoID

		if d.DrawnAt.IsZero() {
			d.DrawnAt = d.UploadedAt
		}

		err = put(tx, drawingBucket, d.ID, d)
		if err != nil {
			return err
		}
	}

	return nil
}
