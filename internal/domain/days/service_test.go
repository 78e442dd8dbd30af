package days

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francolucas/habit-tracker/internal/domain/habits"
	"github.com/francolucas/habit-tracker/internal/store"
	"github.com/francolucas/habit-tracker/pkg/logger"
)

const testDate = "2025-03-01"

func newTestService(t *testing.T) (Service, habits.Service) {
	t.Helper()

	docs := store.NewMemoryStore()
	log := logger.NewLogger()
	catalogRepo := habits.NewRepository(docs)
	catalog := habits.NewService(catalogRepo, log)

	ctx := context.Background()
	seed := []habits.CreateInput{
		{Label: "Floss", Type: habits.TypeBoolean},
		{Label: "Workout Intensity", Type: habits.TypeEnum, EnumOptions: []string{"light", "medium", "hard"}},
		{Label: "Supplements", Type: habits.TypeMultiEnum, EnumOptions: []string{"Vitamin D", "Magnesium", "Zinc"}},
		{Label: "Water", Type: habits.TypeNumber, Unit: "l"},
	}
	for _, input := range seed {
		_, err := catalog.Create(ctx, input)
		require.NoError(t, err)
	}

	return NewService(NewRepository(docs), catalogRepo, log), catalog
}

func TestGetMissingDay(t *testing.T) {
	svc, _ := newTestService(t)

	rec, err := svc.Get(context.Background(), testDate)
	require.NoError(t, err)
	assert.False(t, rec.Exists)
	assert.Empty(t, rec.Values)
	assert.Equal(t, testDate, rec.Date)
}

func TestGetInvalidDate(t *testing.T) {
	svc, _ := newTestService(t)

	for _, date := range []string{"2025-3-1", "2025-13-01", "20250301", "yesterday", ""} {
		_, err := svc.Get(context.Background(), date)
		assert.ErrorIs(t, err, ErrInvalidDate, "date %q", date)
	}
}

func TestSetBooleanStoresFalse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SetBoolean(ctx, testDate, "floss", false)
	require.NoError(t, err)

	// False is a recorded value, not an absent key.
	assert.True(t, rec.Exists)
	value, tracked := rec.Values["floss"]
	require.True(t, tracked)
	assert.Equal(t, false, value)
}

func TestToggle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Untracked toggles to done.
	rec, err := svc.Toggle(ctx, testDate, "floss")
	require.NoError(t, err)
	assert.Equal(t, true, rec.Values["floss"])

	rec, err = svc.Toggle(ctx, testDate, "floss")
	require.NoError(t, err)
	assert.Equal(t, false, rec.Values["floss"])
}

func TestSetEnum(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SetEnum(ctx, testDate, "workoutIntensity", "medium")
	require.NoError(t, err)
	assert.Equal(t, "medium", rec.Values["workoutIntensity"])

	// Empty selection clears the key.
	rec, err = svc.SetEnum(ctx, testDate, "workoutIntensity", "")
	require.NoError(t, err)
	_, tracked := rec.Values["workoutIntensity"]
	assert.False(t, tracked)
	assert.True(t, rec.Exists)
}

func TestSetMultiNormalizes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SetMulti(ctx, testDate, "supplements", []string{"Vitamin D", "Vitamin D", "  ", " Magnesium "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Vitamin D", "Magnesium"}, rec.Values["supplements"])

	rec, err = svc.SetMulti(ctx, testDate, "supplements", []string{"", "  "})
	require.NoError(t, err)
	_, tracked := rec.Values["supplements"]
	assert.False(t, tracked)
}

func TestSetNumber(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	value := 2.5
	rec, err := svc.SetNumber(ctx, testDate, "water", &value)
	require.NoError(t, err)
	assert.Equal(t, 2.5, rec.Values["water"])

	rec, err = svc.SetNumber(ctx, testDate, "water", nil)
	require.NoError(t, err)
	_, tracked := rec.Values["water"]
	assert.False(t, tracked)
}

func TestSetNumberText(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SetNumberText(ctx, testDate, "water", "2,5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, rec.Values["water"])

	_, err = svc.SetNumberText(ctx, testDate, "water", "a lot")
	assert.ErrorIs(t, err, ErrNotANumber)

	// Blank text clears.
	rec, err = svc.SetNumberText(ctx, testDate, "water", "  ")
	require.NoError(t, err)
	_, tracked := rec.Values["water"]
	assert.False(t, tracked)
}

func TestClearingWriteOnMissingRecordCreatesNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SetEnum(ctx, testDate, "workoutIntensity", "")
	require.NoError(t, err)
	assert.False(t, rec.Exists)

	rec, err = svc.Get(ctx, testDate)
	require.NoError(t, err)
	assert.False(t, rec.Exists)
}

func TestWritesMergeUntouchedKeys(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetBoolean(ctx, testDate, "floss", true)
	require.NoError(t, err)
	_, err = svc.SetEnum(ctx, testDate, "workoutIntensity", "hard")
	require.NoError(t, err)

	rec, err := svc.SaveNote(ctx, testDate, "long run")
	require.NoError(t, err)

	assert.Equal(t, true, rec.Values["floss"])
	assert.Equal(t, "hard", rec.Values["workoutIntensity"])
	assert.Equal(t, "long run", rec.Note)
}

func TestSaveNoteCreatesRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.SaveNote(ctx, testDate, "rest day")
	require.NoError(t, err)

	assert.True(t, rec.Exists)
	assert.Equal(t, "rest day", rec.Note)
	assert.Equal(t, testDate, rec.Date)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestTimestampsOnRepeatedWrites(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.SetBoolean(ctx, testDate, "floss", true)
	require.NoError(t, err)

	second, err := svc.SetBoolean(ctx, testDate, "floss", false)
	require.NoError(t, err)

	// createdAt is written once; updatedAt moves with every write.
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestWriteValidation(t *testing.T) {
	svc, catalog := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetBoolean(ctx, testDate, "missing", true)
	assert.ErrorIs(t, err, ErrUnknownHabit)

	_, err = svc.SetEnum(ctx, testDate, "floss", "medium")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = svc.SetBoolean(ctx, "2025-3-1", "floss", true)
	assert.ErrorIs(t, err, ErrInvalidDate)

	// Retired habits stop accepting writes.
	inactive := false
	_, err = catalog.Update(ctx, "floss", habits.UpdateInput{Active: &inactive})
	require.NoError(t, err)

	_, err = svc.SetBoolean(ctx, testDate, "floss", true)
	assert.ErrorIs(t, err, ErrInactiveHabit)
}

func TestSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetBoolean(ctx, testDate, "floss", true)
	require.NoError(t, err)
	_, err = svc.SetNumberText(ctx, testDate, "water", "1.234,56")
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, testDate)
	require.NoError(t, err)

	assert.True(t, summary.Completed["floss"])
	assert.True(t, summary.Completed["water"])
	assert.False(t, summary.Completed["workoutIntensity"])
	assert.False(t, summary.Completed["supplements"])
	// 2 of 4 active habits done.
	assert.Equal(t, 50, summary.Rate)
	assert.Equal(t, 1234.56, summary.Record.Values["water"])
}

func TestWatchDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var records []*Record
	err := svc.Watch(ctx, testDate, func(rec *Record) {
		records = append(records, rec)
	}, func(err *store.Error) {
		t.Fatalf("unexpected watch error: %v", err)
	})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.False(t, records[0].Exists)

	_, err = svc.SetBoolean(context.Background(), testDate, "floss", true)
	require.NoError(t, err)

	// applyMerge re-reads after writing, so the watch saw the raw write too.
	last := records[len(records)-1]
	assert.True(t, last.Exists)
	assert.Equal(t, true, last.Values["floss"])
}
