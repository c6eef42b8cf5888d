package store

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/sketch/internal/models"
)

// AddArtist records a person drawings can be attributed to.
func (c *Client) AddArtist(ctx context.Context, name string) (*models.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errEmptyName.Fmt("artist")
	}

	artist := &models.Artist{
		Name:      name,
		CreatedAt: c.now(),
	}

	err := c.update(ctx, func(tx *bolt.Tx) error {
		var err error

		artist.ID, err = nextID(tx, artistBucket)
		if err != nil {
			return err
		}

		return put(tx, artistBucket, artist.ID, artist)
	})
	if err != nil {
		return nil, err
	}

	return artist, nil
}

// UpdateArtist renames an artist.
func (c *Client) UpdateArtist(ctx context.Context, id uint64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errEmptyName.Fmt("artist")
	}

	return c.update(ctx, func(tx *bolt.Tx) error {
		var artist models.Artist

		ok, err := get(tx, artistBucket, id, &artist)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("artist", id)
		}

		artist.Name = name

		return put(tx, artistBucket, id, &artist)
	})
}

// DeleteArtist removes an artist. Their drawings are kept without an artist.
func (c *Client) DeleteArtist(ctx context.Context, id uint64) error {
	var unlinked int

	err := c.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(artistBucket))
		if b.Get(itob(id)) == nil {
			return notFound("artist", id)
		}

		drawings, err := all[models.Drawing](tx, drawingBucket)
		if err != nil {
			return err
		}

		for i := range drawings {
			d := &drawings[i]

			if d.ArtistID == nil || *d.ArtistID != id {
				continue
			}

			d.ArtistID = nil
			unlinked++

			err = put(tx, drawingBucket, d.ID, d)
			if err != nil {
				return err
			}
		}

		return b.Delete(itob(id))
	})
	if err != nil {
		return err
	}

	c.log.Debug(
		"artist deleted",
		slog.Uint64("artist_id", id),
		slog.Int("drawings_unlinked", unlinked),
	)

	return nil
}

// ListArtists returns all artists ordered by name.
func (c *Client) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist

	err := c.view(ctx, func(tx *bolt.Tx) error {
		var err error

		artists, err = all[models.Artist](tx, artistBucket)

		return err
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(artists, func(a, b models.Artist) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return artists, nil
}

// AttachDrawing links a drawing file to a result. The category, duration and
// photo are taken from the result. A result holds at most one drawing.
func (c *Client) AttachDrawing(
	ctx context.Context,
	d models.Drawing,
) (*models.Drawing, error) {
	if d.ResultID == nil {
		return nil, errNoResult
	}

	resultID := *d.ResultID

	err := c.update(ctx, func(tx *bolt.Tx) error {
		var rec resultRecord

		ok, err := get(tx, resultBucket, resultID, &rec)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("result", resultID)
		}

		drawings, err := all[models.Drawing](tx, drawingBucket)
		if err != nil {
			return err
		}

		for i := range drawings {
			if drawings[i].ResultID != nil && *drawings[i].ResultID == resultID {
				return errDrawingExists.Fmt(resultID)
			}
		}

		d.TagID = rec.TagID
		d.DurationSeconds = rec.DurationSeconds
		d.PhotoID = rec.PhotoID

		return c.insertDrawing(tx, &d)
	})
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// AddDrawing stores a drawing made outside a session. The category is
// required; the reference photo and artist are optional.
func (c *Client) AddDrawing(
	ctx context.Context,
	d models.Drawing,
) (*models.Drawing, error) {
	d.ResultID = nil

	if d.DurationSeconds < 0 {
		return nil, errDrawingDuration
	}

	err := c.update(ctx, func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(tagBucket)).Get(itob(d.TagID)) == nil {
			return notFound("tag", d.TagID)
		}

		if d.PhotoID != nil &&
			tx.Bucket([]byte(photoBucket)).Get(itob(*d.PhotoID)) == nil {
			return notFound("photo", *d.PhotoID)
		}

		return c.insertDrawing(tx, &d)
	})
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// insertDrawing checks the artist, fills in the timestamps and saves d.
func (c *Client) insertDrawing(tx *bolt.Tx, d *models.Drawing) error {
	if d.ArtistID != nil &&
		tx.Bucket([]byte(artistBucket)).Get(itob(*d.ArtistID)) == nil {
		return notFound("artist", *d.ArtistID)
	}

	if d.UploadedAt.IsZero() {
		d.UploadedAt = c.now()
	}

	if d.DrawnAt.IsZero() {
		d.DrawnAt = d.UploadedAt
	}

	var err error

	d.ID, err = nextID(tx, drawingBucket)
	if err != nil {
		return err
	}

	return put(tx, drawingBucket, d.ID, d)
}

// ListDrawings returns drawings newest first, limited to the category and
// artist in filter when those are set.
func (c *Client) ListDrawings(
	ctx context.Context,
	filter models.DrawingFilter,
) ([]models.DrawingDetail, error) {
	var drawings []models.DrawingDetail

	err := c.view(ctx, func(tx *bolt.Tx) error {
		j, err := newJoiner(tx)
		if err != nil {
			return err
		}

		stored, err := all[models.Drawing](tx, drawingBucket)
		if err != nil {
			return err
		}

		artists, err := all[models.Artist](tx, artistBucket)
		if err != nil {
			return err
		}

		artistNames := make(map[uint64]string, len(artists))
		for _, a := range artists {
			artistNames[a.ID] = a.Name
		}

		for _, d := range stored {
			if filter.TagID != 0 && d.TagID != filter.TagID {
				continue
			}

			if filter.ArtistID != 0 &&
				(d.ArtistID == nil || *d.ArtistID != filter.ArtistID) {
				continue
			}

			detail := models.DrawingDetail{
				Drawing: d,
				TagName: j.tags[d.TagID],
			}

			if d.ResultID != nil {
				detail.SessionID = j.results[*d.ResultID].SessionID
			}

			if d.PhotoID != nil {
				detail.PhotoPath = j.photos[*d.PhotoID]
			}

			if d.ArtistID != nil {
				detail.ArtistName = artistNames[*d.ArtistID]
			}

			drawings = append(drawings, detail)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(drawings, func(a, b models.DrawingDetail) int {
		return cmp.Or(
			b.DrawnAt.Compare(a.DrawnAt),
			cmp.Compare(b.ID, a.ID),
		)
	})

	return drawings, nil
}
