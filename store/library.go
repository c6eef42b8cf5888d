package store

import (
	"cmp"
	"context"
	"slices"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/sketch/internal/models"
)

func findTag(tx *bolt.Tx, name string) (*models.Tag, error) {
	tags, err := all[models.Tag](tx, tagBucket)
	if err != nil {
		return nil, err
	}

	for i := range tags {
		if strings.EqualFold(tags[i].Name, name) {
			return &tags[i], nil
		}
	}

	return nil, nil
}

// CreateTag adds a category. Names are unique regardless of case.
func (c *Client) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errEmptyName.Fmt("tag")
	}

	tag := &models.Tag{
		Name:      name,
		CreatedAt: c.now(),
	}

	err := c.update(ctx, func(tx *bolt.Tx) error {
		existing, err := findTag(tx, name)
		if err != nil {
			return err
		}

		if existing != nil {
			return errDuplicateTag.Fmt(existing.Name)
		}

		tag.ID, err = nextID(tx, tagBucket)
		if err != nil {
			return err
		}

		return put(tx, tagBucket, tag.ID, tag)
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

// FindTag looks up a tag by name, ignoring case.
func (c *Client) FindTag(ctx context.Context, name string) (*models.Tag, error) {
	var tag *models.Tag

	err := c.view(ctx, func(tx *bolt.Tx) error {
		var err error

		tag, err = findTag(tx, strings.TrimSpace(name))

		return err
	})
	if err != nil {
		return nil, err
	}

	if tag == nil {
		return nil, errUnknownTag.Fmt(name)
	}

	return tag, nil
}

// ListTags returns every tag ordered by name with the number of photos in
// each.
func (c *Client) ListTags(ctx context.Context) ([]models.TagSummary, error) {
	var (
		tags   []models.Tag
		photos []models.Photo
	)

	err := c.view(ctx, func(tx *bolt.Tx) error {
		var err error

		tags, err = all[models.Tag](tx, tagBucket)
		if err != nil {
			return err
		}

		photos, err = all[models.Photo](tx, photoBucket)

		return err
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[uint64]int)

	for i := range photos {
		for _, id := range photos[i].TagIDs {
			counts[id]++
		}
	}

	summaries := make([]models.TagSummary, 0, len(tags))

	for _, t := range tags {
		summaries = append(summaries, models.TagSummary{
			Tag:        t,
			PhotoCount: counts[t.ID],
		})
	}

	slices.SortFunc(summaries, func(a, b models.TagSummary) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return summaries, nil
}

// AddPhoto records a photo that has already been copied into the library.
func (c *Client) AddPhoto(
	ctx context.Context,
	filePath, originalName string,
	tagIDs []uint64,
) (*models.Photo, error) {
	photo := &models.Photo{
		FilePath:         filePath,
		OriginalFileName: originalName,
		ImportedAt:       c.now(),
		TagIDs:           []uint64{},
	}

	err := c.update(ctx, func(tx *bolt.Tx) error {
		for _, id := range tagIDs {
			if tx.Bucket([]byte(tagBucket)).Get(itob(id)) == nil {
				return notFound("tag", id)
			}

			if !photo.HasTag(id) {
				photo.TagIDs = append(photo.TagIDs, id)
			}
		}

		var err error

		photo.ID, err = nextID(tx, photoBucket)
		if err != nil {
			return err
		}

		return put(tx, photoBucket, photo.ID, photo)
	})
	if err != nil {
		return nil, err
	}

	return photo, nil
}

func (c *Client) editPhoto(
	ctx context.Context,
	photoID uint64,
	fn func(tx *bolt.Tx, p *models.Photo) error,
) error {
	return c.update(ctx, func(tx *bolt.Tx) error {
		var photo models.Photo

		ok, err := get(tx, photoBucket, photoID, &photo)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("photo", photoID)
		}

		err = fn(tx, &photo)
		if err != nil {
			return err
		}

		return put(tx, photoBucket, photoID, &photo)
	})
}

// TagPhoto files a photo under a tag. Tagging twice has no effect.
func (c *Client) TagPhoto(ctx context.Context, photoID, tagID uint64) error {
	return c.editPhoto(ctx, photoID, func(tx *bolt.Tx, p *models.Photo) error {
		if tx.Bucket([]byte(tagBucket)).Get(itob(tagID)) == nil {
			return notFound("tag", tagID)
		}

		if !p.HasTag(tagID) {
			p.TagIDs = append(p.TagIDs, tagID)
		}

		return nil
	})
}

// UntagPhoto removes a photo from a tag.
func (c *Client) UntagPhoto(ctx context.Context, photoID, tagID uint64) error {
	return c.editPhoto(ctx, photoID, func(_ *bolt.Tx, p *models.Photo) error {
		p.TagIDs = slices.DeleteFunc(p.TagIDs, func(id uint64) bool {
			return id == tagID
		})

		return nil
	})
}

// DeletePhoto removes a photo record and returns it.
func (c *Client) DeletePhoto(ctx context.Context, id uint64) (*models.Photo, error) {
	var photo models.Photo

	err := c.update(ctx, func(tx *bolt.Tx) error {
		ok, err := get(tx, photoBucket, id, &photo)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("photo", id)
		}

		return tx.Bucket([]byte(photoBucket)).Delete(itob(id))
	})
	if err != nil {
		return nil, err
	}

	return &photo, nil
}

// ListPhotos returns photos newest first. A zero tagID lists the whole
// library.
func (c *Client) ListPhotos(ctx context.Context, tagID uint64) ([]models.Photo, error) {
	photos, err := c.photos(ctx, tagID)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(photos, func(a, b models.Photo) int {
		return cmp.Or(
			b.ImportedAt.Compare(a.ImportedAt),
			cmp.Compare(b.ID, a.ID),
		)
	})

	return photos, nil
}

// PhotosByTag returns every photo filed under tagID.
func (c *Client) PhotosByTag(ctx context.Context, tagID uint64) ([]models.Photo, error) {
	return c.photos(ctx, tagID)
}

func (c *Client) photos(ctx context.Context, tagID uint64) ([]models.Photo, error) {
	var photos []models.Photo

	err := c.view(ctx, func(tx *bolt.Tx) error {
		var err error

		photos, err = all[models.Photo](tx, photoBucket)

		return err
	})
	if err != nil {
		return nil, err
	}

	if tagID == 0 {
		return photos, nil
	}

	return slices.DeleteFunc(photos, func(p models.Photo) bool {
		return !p.HasTag(tagID)
	}), nil
}
