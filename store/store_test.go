package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/store"
)

var epoch = time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

type clock struct {
	t time.Time
}

// now advances a minute on every call so stored timestamps are distinct.
func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func openClient(t *testing.T) (*store.Client, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sketch.db")

	c, err := store.NewClient(path, store.WithClock((&clock{t: epoch}).now))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c, path
}

type fixture struct {
	gesture *models.Tag
	hands   *models.Tag
	plan    *models.Plan
	photos  []*models.Photo
}

func seed(t *testing.T, c *store.Client) fixture {
	t.Helper()

	ctx := context.Background()

	var (
		f   fixture
		err error
	)

	f.gesture, err = c.CreateTag(ctx, "Gesture")
	require.NoError(t, err)

	f.hands, err = c.CreateTag(ctx, "Hands")
	require.NoError(t, err)

	for _, name := range []string{"a.jpg", "b.jpg"} {
		p, err := c.AddPhoto(ctx, "/lib/"+name, name, []uint64{f.gesture.ID})
		require.NoError(t, err)

		f.photos = append(f.photos, p)
	}

	p, err := c.AddPhoto(ctx, "/lib/hand.png", "hand.png", []uint64{f.hands.ID})
	require.NoError(t, err)

	f.photos = append(f.photos, p)

	f.plan, err = c.CreatePlan(ctx, "  Warm up ", []models.ExerciseInput{
		{TagID: f.gesture.ID, DurationSeconds: 30},
		{TagID: f.hands.ID, DurationSeconds: 120},
	})
	require.NoError(t, err)

	return f
}

func TestCreatePlan(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	assert.Equal(t, "Warm up", f.plan.Name)
	require.Len(t, f.plan.Exercises, 2)

	for i, ex := range f.plan.Exercises {
		assert.Equal(t, i, ex.SortOrder)
		assert.Equal(t, f.plan.ID, ex.PlanID)
		assert.NotZero(t, ex.ID)
	}

	got, err := c.GetPlan(ctx, f.plan.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(f.plan, got); diff != "" {
		t.Fatalf("GetPlan() mismatch (-want +got):\n%s", diff)
	}

	exercises, err := c.PlanExercises(ctx, f.plan.ID)
	require.NoError(t, err)
	assert.Equal(t, f.plan.Exercises, exercises)
	assert.Equal(t, 150*time.Second, got.TotalDuration())
}

func TestCreatePlanValidation(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	testCases := []struct {
		name      string
		plan      string
		exercises []models.ExerciseInput
		want      error
	}{
		{
			name: "empty name",
			plan: "   ",
		},
		{
			name:      "zero duration",
			plan:      "bad",
			exercises: []models.ExerciseInput{{TagID: f.gesture.ID}},
		},
		{
			name:      "unknown tag",
			plan:      "bad",
			exercises: []models.ExerciseInput{{TagID: 99, DurationSeconds: 5}},
			want:      store.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.CreatePlan(ctx, tc.plan, tc.exercises)
			require.Error(t, err)

			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}

	plans, err := c.ListPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestUpdateAndDeletePlan(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	second, err := c.CreatePlan(ctx, "Long poses", []models.ExerciseInput{
		{TagID: f.hands.ID, DurationSeconds: 600},
	})
	require.NoError(t, err)

	plans, err := c.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, second.ID, plans[0].ID)

	err = c.UpdatePlan(ctx, f.plan.ID, "Renamed", []models.ExerciseInput{
		{TagID: f.hands.ID, DurationSeconds: 60},
	})
	require.NoError(t, err)

	got, err := c.GetPlan(ctx, f.plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, 60, got.Exercises[0].DurationSeconds)
	assert.Equal(t, 0, got.Exercises[0].SortOrder)

	require.NoError(t, c.DeletePlan(ctx, f.plan.ID))

	_, err = c.GetPlan(ctx, f.plan.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, c.DeletePlan(ctx, f.plan.ID), store.ErrNotFound)
}

func TestTags(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	_, err := c.CreateTag(ctx, "gesture")
	assert.Error(t, err)

	tag, err := c.FindTag(ctx, "HANDS")
	require.NoError(t, err)
	assert.Equal(t, f.hands.ID, tag.ID)

	_, err = c.FindTag(ctx, "feet")
	assert.Error(t, err)

	_, err = c.CreateTag(ctx, "anatomy")
	require.NoError(t, err)

	tags, err := c.ListTags(ctx)
	require.NoError(t, err)

	var got []string

	counts := make(map[string]int)

	for _, tg := range tags {
		got = append(got, tg.Name)
		counts[tg.Name] = tg.PhotoCount
	}

	assert.Equal(t, []string{"anatomy", "Gesture", "Hands"}, got)
	assert.Equal(t, map[string]int{"anatomy": 0, "Gesture": 2, "Hands": 1}, counts)
}

func TestPhotos(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	_, err := c.AddPhoto(ctx, "/lib/x.jpg", "x.jpg", []uint64{42})
	assert.ErrorIs(t, err, store.ErrNotFound)

	hand := f.photos[2]

	require.NoError(t, c.TagPhoto(ctx, hand.ID, f.gesture.ID))
	require.NoError(t, c.TagPhoto(ctx, hand.ID, f.gesture.ID))

	gesture, err := c.PhotosByTag(ctx, f.gesture.ID)
	require.NoError(t, err)
	assert.Len(t, gesture, 3)

	all, err := c.ListPhotos(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, hand.ID, all[0].ID)
	assert.Equal(t, []uint64{f.hands.ID, f.gesture.ID}, all[0].TagIDs)

	require.NoError(t, c.UntagPhoto(ctx, hand.ID, f.hands.ID))

	hands, err := c.PhotosByTag(ctx, f.hands.ID)
	require.NoError(t, err)
	assert.Empty(t, hands)

	deleted, err := c.DeletePhoto(ctx, f.photos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "/lib/a.jpg", deleted.FilePath)

	gesture, err = c.PhotosByTag(ctx, f.gesture.ID)
	require.NoError(t, err)
	assert.Len(t, gesture, 2)

	_, err = c.DeletePhoto(ctx, f.photos[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, c.TagPhoto(ctx, 99, f.hands.ID), store.ErrNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	_, err := c.StartSession(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	id, err := c.StartSession(ctx, f.plan.ID)
	require.NoError(t, err)

	first := f.photos[0].ID
	second := f.photos[1].ID

	inputs := []models.ResultInput{
		{ExerciseID: f.plan.Exercises[0].ID, PhotoID: &first, Skipped: true},
		{ExerciseID: f.plan.Exercises[0].ID, PhotoID: &second, SortOrder: 1},
		{ExerciseID: f.plan.Exercises[1].ID, SortOrder: 2},
	}

	var resultIDs []uint64

	for _, in := range inputs {
		in.SessionID = id

		rid, err := c.RecordResult(ctx, in)
		require.NoError(t, err)

		resultIDs = append(resultIDs, rid)
	}

	require.NoError(t, c.CompleteSession(ctx, id))

	detail, err := c.GetSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, detail.CompletedAt)

	completedAt := *detail.CompletedAt

	// completing again keeps the original timestamp
	require.NoError(t, c.CompleteSession(ctx, id))

	detail, err = c.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, completedAt, *detail.CompletedAt)
	assert.True(t, detail.Completed)
	assert.Equal(t, "Warm up", detail.PlanName)
	assert.Equal(t, 3, detail.Presented())

	want := []models.ResultDetail{
		{
			Result: models.Result{
				ID:         resultIDs[0],
				SessionID:  id,
				ExerciseID: f.plan.Exercises[0].ID,
				PhotoID:    &first,
				Skipped:    true,
			},
			TagID:           f.gesture.ID,
			TagName:         "Gesture",
			PhotoPath:       "/lib/a.jpg",
			DurationSeconds: 30,
		},
		{
			Result: models.Result{
				ID:         resultIDs[1],
				SessionID:  id,
				ExerciseID: f.plan.Exercises[0].ID,
				PhotoID:    &second,
				SortOrder:  1,
			},
			TagID:           f.gesture.ID,
			TagName:         "Gesture",
			PhotoPath:       "/lib/b.jpg",
			DurationSeconds: 30,
		},
		{
			Result: models.Result{
				ID:         resultIDs[2],
				SessionID:  id,
				ExerciseID: f.plan.Exercises[1].ID,
				SortOrder:  2,
			},
			TagID:           f.hands.ID,
			TagName:         "Hands",
			DurationSeconds: 120,
		},
	}

	if diff := cmp.Diff(want, detail.Results); diff != "" {
		t.Fatalf("GetSession() results mismatch (-want +got):\n%s", diff)
	}

	_, err = c.RecordResult(ctx, models.ResultInput{SessionID: id})
	assert.Error(t, err)

	assert.ErrorIs(t, c.CompleteSession(ctx, 99), store.ErrNotFound)
}

func TestListSessions(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	done, err := c.StartSession(ctx, f.plan.ID)
	require.NoError(t, err)

	_, err = c.RecordResult(ctx, models.ResultInput{
		SessionID:  done,
		ExerciseID: f.plan.Exercises[0].ID,
	})
	require.NoError(t, err)
	require.NoError(t, c.CompleteSession(ctx, done))

	abandoned, err := c.StartSession(ctx, f.plan.ID)
	require.NoError(t, err)

	sessions, err := c.ListSessions(ctx, false)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, abandoned, sessions[0].ID)
	assert.Len(t, sessions[1].Results, 1)

	sessions, err = c.ListSessions(ctx, true)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, done, sessions[0].ID)
}

func TestDrawings(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	artist, err := c.AddArtist(ctx, "Ada")
	require.NoError(t, err)

	_, err = c.AddArtist(ctx, "")
	assert.Error(t, err)

	_, err = c.AddArtist(ctx, "bea")
	require.NoError(t, err)

	artists, err := c.ListArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "Ada", artists[0].Name)

	sess, err := c.StartSession(ctx, f.plan.ID)
	require.NoError(t, err)

	photo := f.photos[2].ID

	gestureResult, err := c.RecordResult(ctx, models.ResultInput{
		SessionID:  sess,
		ExerciseID: f.plan.Exercises[0].ID,
	})
	require.NoError(t, err)

	handResult, err := c.RecordResult(ctx, models.ResultInput{
		SessionID:  sess,
		ExerciseID: f.plan.Exercises[1].ID,
		PhotoID:    &photo,
		SortOrder:  1,
	})
	require.NoError(t, err)

	_, err = c.AttachDrawing(ctx, models.Drawing{
		ResultID:         &gestureResult,
		FilePath:         "/drawings/1.jpg",
		OriginalFileName: "scan1.jpg",
	})
	require.NoError(t, err)

	d, err := c.AttachDrawing(ctx, models.Drawing{
		ResultID:         &handResult,
		ArtistID:         &artist.ID,
		FilePath:         "/drawings/2.jpg",
		OriginalFileName: "scan2.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, f.hands.ID, d.TagID)
	assert.Equal(t, 120, d.DurationSeconds)
	require.NotNil(t, d.PhotoID)
	assert.Equal(t, photo, *d.PhotoID)
	assert.Equal(t, d.UploadedAt, d.DrawnAt)

	_, err = c.AttachDrawing(ctx, models.Drawing{ResultID: &handResult})
	assert.Error(t, err)

	_, err = c.AttachDrawing(ctx, models.Drawing{})
	assert.Error(t, err)

	missing := uint64(99)

	_, err = c.AttachDrawing(ctx, models.Drawing{ResultID: &missing})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.AttachDrawing(ctx, models.Drawing{
		ResultID: &gestureResult,
		ArtistID: &missing,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	drawings, err := c.ListDrawings(ctx, models.DrawingFilter{})
	require.NoError(t, err)
	require.Len(t, drawings, 2)
	assert.Equal(t, d.ID, drawings[0].ID)
	assert.Equal(t, "Ada", drawings[0].ArtistName)
	assert.Equal(t, "/lib/hand.png", drawings[0].PhotoPath)
	assert.Equal(t, sess, drawings[0].SessionID)

	drawings, err = c.ListDrawings(ctx, models.DrawingFilter{TagID: f.gesture.ID})
	require.NoError(t, err)
	require.Len(t, drawings, 1)
	assert.Equal(t, "Gesture", drawings[0].TagName)

	drawings, err = c.ListDrawings(ctx, models.DrawingFilter{ArtistID: artist.ID})
	require.NoError(t, err)
	require.Len(t, drawings, 1)
	assert.Equal(t, d.ID, drawings[0].ID)

	detail, err := c.GetSession(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, detail.Results[1].Drawing)
	assert.Equal(t, "/drawings/2.jpg", detail.Results[1].Drawing.FilePath)
}

func TestManualDrawings(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	artist, err := c.AddArtist(ctx, "Ada")
	require.NoError(t, err)

	photo := f.photos[0].ID
	drawnAt := epoch.Add(-48 * time.Hour)

	d, err := c.AddDrawing(ctx, models.Drawing{
		TagID:            f.gesture.ID,
		PhotoID:          &photo,
		ArtistID:         &artist.ID,
		DurationSeconds:  300,
		DrawnAt:          drawnAt,
		FilePath:         "/drawings/m.jpg",
		OriginalFileName: "sketchbook.jpg",
	})
	require.NoError(t, err)
	assert.Nil(t, d.ResultID)
	assert.Equal(t, drawnAt, d.DrawnAt)

	plain, err := c.AddDrawing(ctx, models.Drawing{
		TagID:    f.hands.ID,
		FilePath: "/drawings/n.jpg",
	})
	require.NoError(t, err)
	assert.False(t, plain.DrawnAt.IsZero())

	missing := uint64(99)

	_, err = c.AddDrawing(ctx, models.Drawing{TagID: missing})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.AddDrawing(ctx, models.Drawing{TagID: f.hands.ID, PhotoID: &missing})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.AddDrawing(ctx, models.Drawing{TagID: f.hands.ID, ArtistID: &missing})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = c.AddDrawing(ctx, models.Drawing{TagID: f.hands.ID, DurationSeconds: -1})
	assert.Error(t, err)

	drawings, err := c.ListDrawings(ctx, models.DrawingFilter{})
	require.NoError(t, err)
	require.Len(t, drawings, 2)

	// ordered by when they were drawn, not when they were uploaded
	assert.Equal(t, plain.ID, drawings[0].ID)
	assert.Equal(t, d.ID, drawings[1].ID)
	assert.Zero(t, drawings[1].SessionID)
	assert.Equal(t, "Gesture", drawings[1].TagName)
	assert.Equal(t, "/lib/a.jpg", drawings[1].PhotoPath)
	assert.Equal(t, "Ada", drawings[1].ArtistName)

	drawings, err = c.ListDrawings(ctx, models.DrawingFilter{
		TagID:    f.gesture.ID,
		ArtistID: artist.ID,
	})
	require.NoError(t, err)
	require.Len(t, drawings, 1)
	assert.Equal(t, d.ID, drawings[0].ID)
}

func TestUpdateAndDeleteArtist(t *testing.T) {
	c, _ := openClient(t)
	f := seed(t, c)
	ctx := context.Background()

	artist, err := c.AddArtist(ctx, "Ada")
	require.NoError(t, err)

	require.NoError(t, c.UpdateArtist(ctx, artist.ID, "  Ada L. "))
	assert.Error(t, c.UpdateArtist(ctx, artist.ID, " "))
	assert.ErrorIs(t, c.UpdateArtist(ctx, 99, "Bea"), store.ErrNotFound)

	artists, err := c.ListArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "Ada L.", artists[0].Name)

	d, err := c.AddDrawing(ctx, models.Drawing{
		TagID:    f.gesture.ID,
		ArtistID: &artist.ID,
		FilePath: "/drawings/m.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, c.DeleteArtist(ctx, artist.ID))
	assert.ErrorIs(t, c.DeleteArtist(ctx, artist.ID), store.ErrNotFound)

	artists, err = c.ListArtists(ctx)
	require.NoError(t, err)
	assert.Empty(t, artists)

	// the drawing survives without an artist
	drawings, err := c.ListDrawings(ctx, models.DrawingFilter{})
	require.NoError(t, err)
	require.Len(t, drawings, 1)
	assert.Equal(t, d.ID, drawings[0].ID)
	assert.Nil(t, drawings[0].ArtistID)
	assert.Empty(t, drawings[0].ArtistName)
}

func TestDrawingsUpgradedFromVersionOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.db")

	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)

	key := []byte{0, 0, 0, 0, 0, 0, 0, 1}

	records := map[string]string{
		"results": `{"id":1,"session_id":4,"exercise_id":2,"photo_id":5,` +
			`"sort_order":0,"skipped":false,"tag_id":3,"duration_seconds":60}`,
		"drawings": `{"uploaded_at":"2024-03-09T18:30:00Z","result_id":1,` +
			`"file_path":"/drawings/old.jpg","original_file_name":"old.jpg","id":1}`,
	}

	err = db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte("meta"))
		if err != nil {
			return err
		}

		err = meta.Put([]byte("schema_version"), key)
		if err != nil {
			return err
		}

		for bucket, value := range records {
			b, err := tx.CreateBucketIfNotExists([]byte(bucket))
			if err != nil {
				return err
			}

			err = b.Put(key, []byte(value))
			if err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	c, err := store.NewClient(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	drawings, err := c.ListDrawings(context.Background(), models.DrawingFilter{TagID: 3})
	require.NoError(t, err)
	require.Len(t, drawings, 1)

	d := drawings[0]
	assert.Equal(t, 60, d.DurationSeconds)
	require.NotNil(t, d.PhotoID)
	assert.Equal(t, uint64(5), *d.PhotoID)
	assert.Equal(t, d.UploadedAt, d.DrawnAt)
	assert.Equal(t, uint64(4), d.SessionID)
}

func TestReopen(t *testing.T) {
	c, path := openClient(t)
	f := seed(t, c)

	_, err := store.NewClient(path)
	assert.Error(t, err, "a locked database must not open twice")

	require.NoError(t, c.Close())

	c, err = store.NewClient(path)
	require.NoError(t, err)

	plan, err := c.GetPlan(context.Background(), f.plan.ID)
	require.NoError(t, err)
	assert.Equal(t, f.plan.Name, plan.Name)

	require.NoError(t, c.Close())
}

func TestNewerSchemaIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.db")

	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("meta"))
		if err != nil {
			return err
		}

		return b.Put(
			[]byte("schema_version"),
			[]byte{0, 0, 0, 0, 0, 0, 0, 99},
		)
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = store.NewClient(path)
	assert.Error(t, err)
}

func TestCancelledContext(t *testing.T) {
	c, _ := openClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.StartSession(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
