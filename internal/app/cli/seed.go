package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"fineart/config"
	"fineart/internal/app/http/middleware"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/exhibitions"
	"fineart/internal/fallback"
	"fineart/internal/infra/logger"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset through the public API",
		Long: `seed pushes the demo artists, artworks, exhibitions, boards and articles to a
running server. It needs FINEART_PUBLIC_URL and FINEART_SERVICE_KEY; records that
already exist are skipped, so running it twice is harmless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadSeed()
			if err != nil {
				return err
			}
			log, err := logger.New("info", "console")
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			report, err := NewSeeder(cfg.PublicURL, cfg.ServiceKey, log).Run(cmd.Context())
			cmd.Printf("created %d, skipped %d\n", report.Created, report.Skipped)
			return err
		},
	}
}

type SeedReport struct {
	Created int
	Skipped int
}

// Seeder writes the fallback dataset through the HTTP API with the service-role key.
type Seeder struct {
	client *resty.Client
	log    *zap.Logger
}

func NewSeeder(baseURL, serviceKey string, log *zap.Logger) *Seeder {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader(middleware.ServiceKeyHeader, serviceKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Seeder{client: client, log: log}
}

func (s *Seeder) Run(ctx context.Context) (SeedReport, error) {
	var report SeedReport

	artistIDs := map[string]string{}
	for _, a := range fallback.Artist() {
		id, created, err := s.create(ctx, "/artists", map[string]any{
			"name":        a.Name,
			"slug":        a.Slug,
			"nationality": a.Nationality,
			"discipline":  a.Discipline,
			"bio":         a.Bio,
			"imageUrl":    a.ImageURL,
		})
		if err != nil {
			return report, err
		}
		if !created {
			if id, err = s.lookup(ctx, "/artists/"+url.PathEscape(a.Slug), "data.artist.id"); err != nil {
				return report, err
			}
		}
		report.count(created)
		artistIDs[a.ID] = id
	}

	for _, w := range fallback.Artwork() {
		artistID, ok := remap(artistIDs, w.ArtistID)
		if !ok {
			s.log.Warn("artwork has no seeded artist, skipped", zap.String("title", w.Title))
			report.Skipped++
			continue
		}
		exists, err := s.listed(ctx, "/artworks", w.Title)
		if err != nil {
			return report, err
		}
		if exists {
			report.Skipped++
			continue
		}
		if _, _, err := s.create(ctx, "/artworks", artworkBody(w, artistID)); err != nil {
			return report, err
		}
		report.Created++
	}

	for _, e := range fallback.Exhibitions() {
		artistID, ok := remap(artistIDs, e.ArtistID)
		if !ok {
			s.log.Warn("exhibition has no seeded artist, skipped", zap.String("title", e.Title))
			report.Skipped++
			continue
		}
		exists, err := s.listed(ctx, "/exhibitions", e.Title)
		if err != nil {
			return report, err
		}
		if exists {
			report.Skipped++
			continue
		}
		if _, _, err := s.create(ctx, "/exhibitions", exhibitionBody(e, artistID)); err != nil {
			return report, err
		}
		report.Created++
	}

	for _, b := range fallback.Boards() {
		_, created, err := s.create(ctx, "/boards", map[string]any{
			"name":        b.Name,
			"slug":        b.Slug,
			"description": b.Description,
			"layoutType":  string(b.LayoutType),
			"orderIndex":  b.OrderIndex,
			"isVisible":   b.IsVisible,
			"imageUrl":    b.ImageURL,
		})
		if err != nil {
			return report, err
		}
		report.count(created)

		boardPath := "/boards/" + url.PathEscape(b.Slug)
		for _, a := range fallback.Articles(b.Slug) {
			exists, err := s.listed(ctx, boardPath, a.Title)
			if err != nil {
				return report, err
			}
			if exists {
				report.Skipped++
				continue
			}
			if _, _, err := s.create(ctx, boardPath+"/articles", map[string]any{
				"title":        a.Title,
				"content":      a.Content,
				"category":     a.Category,
				"imageUrl":     a.ImageURL,
				"thumbnailUrl": a.ThumbnailURL,
				"isPinned":     a.IsPinned,
				"writer":       a.Writer,
			}); err != nil {
				return report, err
			}
			report.Created++
		}
	}

	s.log.Info("seed finished", zap.Int("created", report.Created), zap.Int("skipped", report.Skipped))
	return report, nil
}

func (r *SeedReport) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Skipped++
	}
}

// create posts body and returns the new record's id. A conflict is reported as
// created=false with no error.
func (s *Seeder) create(ctx context.Context, path string, body any) (string, bool, error) {
	resp, err := s.client.R().SetContext(ctx).SetBody(body).Post(path)
	if err != nil {
		return "", false, fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return "", false, nil
	}
	if resp.IsError() {
		return "", false, fmt.Errorf("POST %s: %s: %s", path, resp.Status(), gjson.GetBytes(resp.Body(), "error").String())
	}
	return gjson.GetBytes(resp.Body(), "data.id").String(), true, nil
}

func (s *Seeder) lookup(ctx context.Context, path, field string) (string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("GET %s: %s", path, resp.Status())
	}
	id := gjson.GetBytes(resp.Body(), field).String()
	if id == "" {
		return "", fmt.Errorf("GET %s: no %s in response", path, field)
	}
	return id, nil
}

// listed reports whether a list endpoint already returns a record titled title.
// Fallback responses never count as existing data.
func (s *Seeder) listed(ctx context.Context, path, title string) (bool, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"q": title, "pageSize": "100"}).
		Get(path)
	if err != nil {
		return false, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("GET %s: %s", path, resp.Status())
	}
	body := gjson.ParseBytes(resp.Body())
	if body.Get("isFallback").Bool() {
		return false, nil
	}
	found := false
	body.Get("data").ForEach(func(_, item gjson.Result) bool {
		found = item.Get("title").String() == title
		return !found
	})
	return found, nil
}

func remap(ids map[string]string, old *string) (string, bool) {
	if old == nil {
		return "", false
	}
	id, ok := ids[*old]
	return id, ok && id != ""
}

func artworkBody(w artworks.Artwork, artistID string) map[string]any {
	return map[string]any{
		"title":       w.Title,
		"status":      string(w.Status),
		"price":       w.Price,
		"artistId":    artistID,
		"mainTheme":   w.MainTheme,
		"material":    w.Material,
		"sizeBucket":  w.SizeBucket,
		"width":       w.Width,
		"height":      w.Height,
		"imageUrl":    w.ImageURL,
		"description": w.Description,
		"isRentable":  w.IsRentable,
		"rentPrice":   w.RentPrice,
	}
}

func exhibitionBody(e exhibitions.Exhibition, artistID string) map[string]any {
	body := map[string]any{
		"title":       e.Title,
		"artistId":    artistID,
		"location":    e.Location,
		"startDate":   e.StartDate.Format("2006-01-02"),
		"description": e.Description,
		"imageUrl":    e.ImageURL,
		"category":    string(e.Category),
	}
	if !e.EndDate.IsZero() {
		body["endDate"] = e.EndDate.Format("2006-01-02")
	}
	return body
}
