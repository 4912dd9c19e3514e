// workers/catalog_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/JakeNLelis/gamehub-server/models"
	"github.com/JakeNLelis/gamehub-server/utils"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExternalGame matches one entry of the external catalog feed.
type ExternalGame struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Thumbnail        string `json:"thumbnail"`
	ShortDescription string `json:"short_description"`
	GameURL          string `json:"game_url"`
	Genre            string `json:"genre"`
	Platform         string `json:"platform"`
	Publisher        string `json:"publisher"`
	Developer        string `json:"developer"`
	ReleaseDate      string `json:"release_date"` // YYYY-MM-DD
}

// CatalogSyncWorker refreshes the local games table from the external
// catalog feed: feed wins on descriptive fields, local rating columns are
// never touched.
type CatalogSyncWorker struct {
	db         *gorm.DB
	feedURL    string
	httpClient *http.Client
	titler     cases.Caser
}

func NewCatalogSyncWorker(db *gorm.DB, feedURL string) *CatalogSyncWorker {
	return &CatalogSyncWorker{
		db:         db,
		feedURL:    feedURL,
		httpClient: utils.HTTPClient,
		titler:     cases.Title(language.English),
	}
}

// StartWeekly runs one sync immediately when the catalog is empty, then
// once a week.
func (w *CatalogSyncWorker) StartWeekly(ctx context.Context) {
	var count int64
	if err := w.db.Model(&models.Game{}).Count(&count).Error; err == nil && count == 0 {
		go func() {
			if err := w.SyncOnce(ctx); err != nil {
				log.Printf("[CATALOG_SYNC] ⚠️ initial sync failed: %v", err)
			}
		}()
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[CATALOG_SYNC] ❌ scheduler init failed: %v", err)
		return
	}
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(7*24*time.Hour),
		gocron.NewTask(func() {
			if err := w.SyncOnce(ctx); err != nil {
				log.Printf("[CATALOG_SYNC] ❌ weekly sync failed: %v", err)
			}
		}),
	)

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
}

// SyncOnce fetches the whole feed and upserts every entry by external id.
func (w *CatalogSyncWorker) SyncOnce(ctx context.Context) error {
	log.Printf("[CATALOG_SYNC] 📡 fetching %s", w.feedURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.feedURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("feed request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("feed returned %d: %s", resp.StatusCode, string(body))
	}

	var feed []ExternalGame
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return fmt.Errorf("failed to decode feed: %w", err)
	}

	var upserted, skipped int
	for _, eg := range feed {
		if eg.ID == 0 || eg.Title == "" {
			skipped++
			continue
		}
		if err := w.upsert(eg); err != nil {
			skipped++
			log.Printf("[CATALOG_SYNC] ⚠️ upsert failed for external_id=%d (%s): %v", eg.ID, eg.Title, err)
			continue
		}
		upserted++
	}

	log.Printf("[CATALOG_SYNC] ✅ synced %d game(s), %d skipped", upserted, skipped)
	return nil
}

func (w *CatalogSyncWorker) upsert(eg ExternalGame) error {
	externalID := eg.ID
	game := models.Game{
		ID:               uuid.NewString(),
		ExternalID:       &externalID,
		Title:            eg.Title,
		Slug:             slug.Make(eg.Title),
		Thumbnail:        eg.Thumbnail,
		ShortDescription: eg.ShortDescription,
		GameURL:          eg.GameURL,
		Genre:            w.titler.String(strings.ToLower(eg.Genre)),
		Platform:         eg.Platform,
		Publisher:        eg.Publisher,
		Developer:        eg.Developer,
	}

	if eg.ReleaseDate != "" {
		if t, err := time.Parse("2006-01-02", eg.ReleaseDate); err == nil {
			game.ReleaseDate = &t
		}
	}

	// average_rating/total_reviews deliberately absent from the update set.
	return w.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "slug", "thumbnail", "short_description", "game_url",
			"genre", "platform", "publisher", "developer", "release_date",
			"updated_at",
		}),
	}).Create(&game).Error
}
