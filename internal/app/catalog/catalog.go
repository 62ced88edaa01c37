/*
Package catalog holds the static destination table.

The table is defined at process start and read-only thereafter: six travel
destinations, each with a stable key, a display name, and its route path.
It backs the destination pages, the want-to-go list, and the name search.
*/
package catalog

import "strings"

// Destination is one entry of the catalog.
type Destination struct {
	// Key is the stable identifier, e.g. "inca". It doubles as the route slug.
	Key string

	// Name is the display string shown on pages and in search results.
	Name string

	// Path is the route path of the destination page.
	Path string
}

// destinations lists every catalog entry in display order.
var destinations = []Destination{
	{Key: "inca", Name: "Inca Trail to Machu Picchu", Path: "/inca"},
	{Key: "annapurna", Name: "Annapurna Circuit", Path: "/annapurna"},
	{Key: "paris", Name: "Paris", Path: "/paris"},
	{Key: "rome", Name: "Rome", Path: "/rome"},
	{Key: "bali", Name: "Bali Island", Path: "/bali"},
	{Key: "santorini", Name: "Santorini Island", Path: "/santorini"},
}

var byKey = func() map[string]Destination {
	m := make(map[string]Destination, len(destinations))
	for _, d := range destinations {
		m[d.Key] = d
	}
	return m
}()

// All returns every destination in catalog order. The returned slice is a copy.
func All() []Destination {
	out := make([]Destination, len(destinations))
	copy(out, destinations)
	return out
}

// Lookup returns the destination for the given key, if it exists.
func Lookup(key string) (Destination, bool) {
	d, ok := byKey[key]
	return d, ok
}

// Search performs a case-insensitive substring match of query against every
// destination name, preserving catalog order in the result. An empty or
// blank query matches nothing.
func Search(query string) []Destination {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []Destination
	for _, d := range destinations {
		if strings.Contains(strings.ToLower(d.Name), query) {
			results = append(results, d)
		}
	}
	return results
}
