// Package catalog joins artists with their artworks and exhibitions.
package catalog

import (
	"strings"

	"fineart/internal/domain/artists"
	"fineart/internal/domain/artworks"
	"fineart/internal/domain/exhibitions"
)

// Bundle is one artist with everything linked to it.
type Bundle struct {
	Artist      artists.Artist           `json:"artist"`
	Artworks    []artworks.Artwork       `json:"artworks"`
	Exhibitions []exhibitions.Exhibition `json:"exhibitions"`
}

// Joined is the result of Aggregate.
type Joined struct {
	Bundles []Bundle `json:"bundles"`
	// records whose artistId is empty or unknown
	OrphanArtworks    []artworks.Artwork       `json:"orphanArtworks,omitempty"`
	OrphanExhibitions []exhibitions.Exhibition `json:"orphanExhibitions,omitempty"`
}

// Aggregate groups artworks and exhibitions under the artist their artistId names.
// Bundles keep the order of list; each record lands in at most one bundle.
func Aggregate(list []artists.Artist, works []artworks.Artwork, shows []exhibitions.Exhibition) Joined {
	index := make(map[string]int, len(list))
	out := Joined{Bundles: make([]Bundle, 0, len(list))}
	for _, a := range list {
		if _, dup := index[a.ID]; dup {
			continue
		}
		index[a.ID] = len(out.Bundles)
		out.Bundles = append(out.Bundles, Bundle{
			Artist:      a,
			Artworks:    []artworks.Artwork{},
			Exhibitions: []exhibitions.Exhibition{},
		})
	}

	for _, w := range works {
		i, ok := lookup(index, w.ArtistID)
		if !ok {
			out.OrphanArtworks = append(out.OrphanArtworks, w)
			continue
		}
		out.Bundles[i].Artworks = append(out.Bundles[i].Artworks, w)
	}
	for _, e := range shows {
		i, ok := lookup(index, e.ArtistID)
		if !ok {
			out.OrphanExhibitions = append(out.OrphanExhibitions, e)
			continue
		}
		out.Bundles[i].Exhibitions = append(out.Bundles[i].Exhibitions, e)
	}
	return out
}

func lookup(index map[string]int, id *string) (int, bool) {
	if id == nil || *id == "" {
		return 0, false
	}
	i, ok := index[*id]
	return i, ok
}

// NormalizeName lowercases, trims and collapses inner whitespace.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
