package services_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFavoriteAndDuplicateConflict(t *testing.T) {
	app, db := newTestApp(t)
	game := createTestGame(t, db, "Bookmark Me")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	token := accessToken(t, alice.ID)

	status, body := doRequest(t, app, http.MethodPost, "/games/"+game.ID+"/favorite", token, nil)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, body["favorite"])

	status, body = doRequest(t, app, http.MethodPost, "/games/"+game.ID+"/favorite", token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddFavoriteUnknownGame(t *testing.T) {
	app, db := newTestApp(t)
	alice := createTestUser(t, db, "alice", models.RoleUser)

	status, body := doRequest(t, app, http.MethodPost, "/games/"+uuid.NewString()+"/favorite", accessToken(t, alice.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestRemoveFavorite(t *testing.T) {
	app, db := newTestApp(t)
	game := createTestGame(t, db, "Fleeting Favorite")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	token := accessToken(t, alice.ID)

	// absent pair → 404
	status, body := doRequest(t, app, http.MethodDelete, "/games/"+game.ID+"/favorite", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	doRequest(t, app, http.MethodPost, "/games/"+game.ID+"/favorite", token, nil)
	status, _ = doRequest(t, app, http.MethodDelete, "/games/"+game.ID+"/favorite", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestFavoriteStatus(t *testing.T) {
	app, db := newTestApp(t)
	game := createTestGame(t, db, "Status Game")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	token := accessToken(t, alice.ID)

	status, body := doRequest(t, app, http.MethodGet, "/games/"+game.ID+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["is_favorite"])
	assert.Nil(t, body["added_at"])

	doRequest(t, app, http.MethodPost, "/games/"+game.ID+"/favorite", token, nil)

	status, body = doRequest(t, app, http.MethodGet, "/games/"+game.ID+"/favorite", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["is_favorite"])
	assert.NotNil(t, body["added_at"])
}

func TestGetMyFavoritesFiltersAndPagination(t *testing.T) {
	app, db := newTestApp(t)
	alice := createTestUser(t, db, "alice", models.RoleUser)
	token := accessToken(t, alice.ID)

	shooter := createTestGame(t, db, "Space Shooter", func(g *models.Game) {
		g.Genre = "Shooter"
		g.Platform = "PC (Windows)"
	})
	rpg := createTestGame(t, db, "Dragon Quest Lite", func(g *models.Game) {
		g.Genre = "RPG"
		g.Platform = "Web Browser"
	})
	strategy := createTestGame(t, db, "Battle Tactics", func(g *models.Game) {
		g.Genre = "Strategy"
		g.Platform = "PC (Windows)"
	})

	for _, g := range []*models.Game{shooter, rpg, strategy} {
		status, _ := doRequest(t, app, http.MethodPost, "/games/"+g.ID+"/favorite", token, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	// unfiltered, default sort = added-at desc
	status, body := doRequest(t, app, http.MethodGet, "/users/me/favorites", token, nil)
	require.Equal(t, http.StatusOK, status)
	favorites := body["favorites"].([]interface{})
	require.Len(t, favorites, 3)
	last := favorites[0].(map[string]interface{})
	assert.Equal(t, strategy.ID, last["game_id"])

	// genre filter
	status, body = doRequest(t, app, http.MethodGet, "/users/me/favorites?genre=rpg", token, nil)
	require.Equal(t, http.StatusOK, status)
	favorites = body["favorites"].([]interface{})
	require.Len(t, favorites, 1)
	assert.Equal(t, rpg.ID, favorites[0].(map[string]interface{})["game_id"])

	// search over joined game title
	status, body = doRequest(t, app, http.MethodGet, "/users/me/favorites?search=battle", token, nil)
	require.Equal(t, http.StatusOK, status)
	favorites = body["favorites"].([]interface{})
	require.Len(t, favorites, 1)
	assert.Equal(t, strategy.ID, favorites[0].(map[string]interface{})["game_id"])

	// title sort
	status, body = doRequest(t, app, http.MethodGet, "/users/me/favorites?sortBy=title", token, nil)
	require.Equal(t, http.StatusOK, status)
	favorites = body["favorites"].([]interface{})
	require.Len(t, favorites, 3)
	assert.Equal(t, strategy.ID, favorites[0].(map[string]interface{})["game_id"]) // "Battle Tactics"

	// pagination metadata
	status, body = doRequest(t, app, http.MethodGet, "/users/me/favorites?page=2&pageSize=2", token, nil)
	require.Equal(t, http.StatusOK, status)
	favorites = body["favorites"].([]interface{})
	assert.Len(t, favorites, 1)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["total_count"])
	assert.Equal(t, false, meta["has_next_page"])
	assert.Equal(t, true, meta["has_previous_page"])
}

func TestGetMyFavoritesSortByReleaseDateUnknownLast(t *testing.T) {
	app, db := newTestApp(t)
	alice := createTestUser(t, db, "alice", models.RoleUser)
	token := accessToken(t, alice.ID)

	old := time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	classic := createTestGame(t, db, "Retro Racer", func(g *models.Game) { g.ReleaseDate = &old })
	undated := createTestGame(t, db, "Mystery Project")
	fresh := createTestGame(t, db, "Neo Racer", func(g *models.Game) { g.ReleaseDate = &recent })

	for _, g := range []*models.Game{classic, undated, fresh} {
		status, _ := doRequest(t, app, http.MethodPost, "/games/"+g.ID+"/favorite", token, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := doRequest(t, app, http.MethodGet, "/users/me/favorites?sortBy=release-date", token, nil)
	require.Equal(t, http.StatusOK, status)
	favorites := body["favorites"].([]interface{})
	require.Len(t, favorites, 3)
	got := make([]string, 0, 3)
	for _, f := range favorites {
		got = append(got, f.(map[string]interface{})["game_id"].(string))
	}
	assert.Equal(t, []string{fresh.ID, classic.ID, undated.ID}, got)
}

func TestFavoritesAreScopedToCaller(t *testing.T) {
	app, db := newTestApp(t)
	game := createTestGame(t, db, "Shared Game")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)

	doRequest(t, app, http.MethodPost, "/games/"+game.ID+"/favorite", accessToken(t, alice.ID), nil)

	status, body := doRequest(t, app, http.MethodGet, "/users/me/favorites", accessToken(t, bob.ID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["favorites"], 0)
}
