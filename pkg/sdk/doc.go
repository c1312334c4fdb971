// Package facetdex embeds the facetdex search engine in a Go program: it
// loads a document catalog once and answers text and tag-filtered queries
// with the tags still available for narrowing.
//
// # One-shot queries
//
//	client, _ := facetdex.New(ctx, facetdex.WithFile("catalog.json"))
//	defer client.Close()
//	view, _ := client.Search(ctx, facetdex.Query{
//	    Text:    "pacino",
//	    Filters: []facetdex.Filter{{Category: "type", Tag: "movie"}},
//	})
//
// # Interactive sessions
//
//	s := client.NewSession()
//	_ = s.SetQuery("heat")
//	_ = s.ToggleTag("genre", "crime")
//	s.CycleModifier("crime") // none -> include
//	view, _ := s.View(ctx)
package facetdex
