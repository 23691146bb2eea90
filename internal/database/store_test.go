package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) (database.Store, *sqlx.DB) {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil), db
}

func testDraft(userID int64) *database.AdDraft {
	price := 1500.0
	return &database.AdDraft{
		UserID:      userID,
		Username:    "seller",
		Phone:       "+79990000000",
		Title:       "Продам диван",
		Description: "Угловой, почти новый",
		PriceText:   "1500 ₽",
		PriceValue:  &price,
		Category:    "Мебель",
		City:        "Центр",
		Photos:      []string{"file-1", "file-2"},
	}
}

func createPublished(t *testing.T, store database.Store, draft *database.AdDraft) int64 {
	t.Helper()
	ctx := context.Background()

	id, err := store.CreateAd(ctx, draft)
	require.NoError(t, err)
	changed, err := store.UpdateAdStatus(ctx, id, database.StatusPublished)
	require.NoError(t, err)
	require.True(t, changed)
	return id
}

func TestCreateAndGetAd(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)
	require.Positive(t, id)

	ad, err := store.GetAd(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ad)

	assert.Equal(t, int64(42), ad.UserID)
	assert.Equal(t, "seller", ad.Username.String)
	assert.Equal(t, "Продам диван", ad.Title)
	assert.Equal(t, "1500 ₽", ad.PriceText)
	assert.InDelta(t, 1500.0, ad.PriceValue.Float64, 0.001)
	assert.Equal(t, database.StringList{"file-1", "file-2"}, ad.Photos)
	assert.Equal(t, database.StatusPending, ad.Status)
	assert.False(t, ad.PublishedAt.Valid)
	assert.False(t, ad.CreatedAt.IsZero())
}

func TestGetAdNotFound(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	ad, err := store.GetAd(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, ad)
}

func TestFreeTextPriceRoundTrip(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	draft := testDraft(42)
	draft.PriceText = "Договорная"
	draft.PriceValue = nil

	id, err := store.CreateAd(ctx, draft)
	require.NoError(t, err)

	ad, err := store.GetAd(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, "Договорная", ad.PriceText)
	assert.False(t, ad.PriceValue.Valid)
}

func TestPublishStampsTimestamp(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	id := createPublished(t, store, testDraft(42))

	ad, err := store.GetAd(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, database.StatusPublished, ad.Status)
	assert.True(t, ad.PublishedAt.Valid)
}

func TestUpdateAdStatusUnknownID(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	changed, err := store.UpdateAdStatus(context.Background(), 999, database.StatusRejected)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateAdStatusRejectsInvalid(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)

	_, err = store.UpdateAdStatus(ctx, id, database.Status("archived"))
	assert.Error(t, err)
}

func TestDeleteUserAd(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)

	// Wrong owner cannot delete.
	deleted, err := store.DeleteUserAd(ctx, id, 99)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.DeleteUserAd(ctx, id, 42)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting twice reports no change.
	deleted, err = store.DeleteUserAd(ctx, id, 42)
	require.NoError(t, err)
	assert.False(t, deleted)

	// The row survives as a tombstone.
	ad, err := store.GetAd(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, database.StatusDeleted, ad.Status)

	// But it disappears from the owner's listing.
	ads, err := store.GetUserAds(ctx, 42, 10)
	require.NoError(t, err)
	assert.Empty(t, ads)
}

func TestGetUserAdsNewestFirst(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)
	second, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)
	_, err = store.CreateAd(ctx, testDraft(7))
	require.NoError(t, err)

	ads, err := store.GetUserAds(ctx, 42, 10)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, second, ads[0].ID)
	assert.Equal(t, first, ads[1].ID)
}

func TestListAdsByStatus(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	pendingID, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)
	createPublished(t, store, testDraft(42))

	pending, err := store.ListAds(ctx, database.StatusPending, 20)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, pendingID, pending[0].ID)

	all, err := store.ListAds(ctx, "", 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetAdsByCategoryOnlyPublished(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAd(ctx, testDraft(42)) // stays pending
	require.NoError(t, err)

	other := testDraft(42)
	other.Category = "Электроника"
	createPublished(t, store, other)

	furnitureID := createPublished(t, store, testDraft(42))

	ads, err := store.GetAdsByCategory(ctx, "Мебель", 10)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, furnitureID, ads[0].ID)
}

func TestSearchAds(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	sofa := testDraft(42)
	sofa.Title = "Продам диван"
	sofa.City = "Центр"
	sofaID := createPublished(t, store, sofa)

	phone := testDraft(42)
	phone.Title = "Телефон Nokia"
	phone.Description = "Кнопочный, рабочий"
	createPublished(t, store, phone)

	pendingSofa := testDraft(42)
	pendingSofa.Title = "Диван пружинный"
	_, err := store.CreateAd(ctx, pendingSofa) // pending, must stay hidden
	require.NoError(t, err)

	ads, err := store.SearchAds(ctx, "диван", 10)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, sofaID, ads[0].ID)

	// Every token must match (AND semantics). The tokens span title and
	// city, so only the index can satisfy this query.
	ads, err = store.SearchAds(ctx, "диван центр", 10)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, sofaID, ads[0].ID)

	ads, err = store.SearchAds(ctx, "диван nokia", 10)
	require.NoError(t, err)
	assert.Empty(t, ads)
}

func TestSearchAdsHostileInput(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	createPublished(t, store, testDraft(42))

	// Quotes and FTS operators must not produce a syntax error.
	for _, query := range []string{`"диван`, `диван" OR "1`, "NEAR(", "   "} {
		_, err := store.SearchAds(ctx, query, 10)
		assert.NoError(t, err, "query %q", query)
	}
}

func TestSearchIndexFollowsUpdates(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	id := createPublished(t, store, testDraft(42))

	updated := testDraft(42)
	updated.Title = "Кресло офисное"
	require.NoError(t, store.UpdateAd(ctx, id, updated))
	_, err := store.UpdateAdStatus(ctx, id, database.StatusPublished)
	require.NoError(t, err)

	ads, err := store.SearchAds(ctx, "кресло", 10)
	require.NoError(t, err)
	require.Len(t, ads, 1)

	ads, err = store.SearchAds(ctx, "диван", 10)
	require.NoError(t, err)
	assert.Empty(t, ads)
}

func TestUpdateAdResetsPublicationState(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	id := createPublished(t, store, testDraft(42))
	require.NoError(t, store.SetPublicationInfo(ctx, id, -100123, []int64{10, 11}))

	require.NoError(t, store.UpdateAd(ctx, id, testDraft(42)))

	ad, err := store.GetAd(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, database.StatusPending, ad.Status)
	assert.False(t, ad.PublishedAt.Valid)

	info, err := store.GetPublicationInfo(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestPublicationInfoRoundTrip(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)

	info, err := store.GetPublicationInfo(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, info, "never-broadcast ad must have no publication info")

	require.NoError(t, store.SetPublicationInfo(ctx, id, -100123, []int64{10, 11, 12}))

	info, err = store.GetPublicationInfo(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, int64(-100123), info.ChatID)
	assert.Equal(t, database.Int64List{10, 11, 12}, info.MessageIDs)
}

func TestCountRecentAdsWindow(t *testing.T) {
	t.Parallel()
	store, db := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)
	oldID, err := store.CreateAd(ctx, testDraft(42))
	require.NoError(t, err)

	// Push one ad outside the 24-hour window.
	_, err = db.ExecContext(ctx, `UPDATE ads SET created_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-25*time.Hour), oldID)
	require.NoError(t, err)

	count, err := store.CountRecentAds(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.CountRecentAds(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	require.NoError(t, store.RunSQLMaintenance(context.Background()))
}
