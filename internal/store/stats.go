package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"fineart/internal/domain/articles"
	"fineart/internal/domain/artists"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/boards"
	"fineart/internal/domain/exhibitions"
	"fineart/internal/domain/orders"
	"fineart/internal/domain/profiles"
)

type Stats struct {
	Artists          int64                     `json:"artists"`
	ArtworksByStatus map[artworks.Status]int64 `json:"artworksByStatus"`
	Exhibitions      int64                     `json:"exhibitions"`
	Boards           int64                     `json:"boards"`
	Articles         int64                     `json:"articles"`
	Profiles         int64                     `json:"profiles"`
	PaidOrders       int64                     `json:"paidOrders"`
}

type statusCount struct {
	Status artworks.Status
	N      int64
}

// Stats gathers the admin dashboard counters concurrently.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	out := Stats{ArtworksByStatus: map[artworks.Status]int64{
		artworks.StatusForSale:  0,
		artworks.StatusSold:     0,
		artworks.StatusRentable: 0,
	}}
	var byStatus []statusCount

	g, gctx := errgroup.WithContext(ctx)
	count := func(model any, dest *int64, where ...any) {
		g.Go(func() error {
			q := s.db.WithContext(gctx).Model(model)
			if len(where) > 0 {
				q = q.Where(where[0], where[1:]...)
			}
			return q.Count(dest).Error
		})
	}
	count(&artists.Artist{}, &out.Artists)
	count(&exhibitions.Exhibition{}, &out.Exhibitions)
	count(&boards.Board{}, &out.Boards)
	count(&articles.Article{}, &out.Articles)
	count(&profiles.Profile{}, &out.Profiles)
	count(&orders.Order{}, &out.PaidOrders, "status = ?", orders.StatusPaid)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&artworks.Artwork{}).
			Select("status, count(*) as n").Group("status").Scan(&byStatus).Error
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	for _, sc := range byStatus {
		out.ArtworksByStatus[sc.Status] = sc.N
	}
	return out, nil
}
