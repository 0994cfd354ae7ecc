// Package bazaarsearch provides an embedded Go client for the bazaarsearch
// retail product search engine, backed by Redis with the RediSearch module
// or by an in-process memory store.
//
// The client wires the full search pipeline locally, so no HTTP server is
// required:
//
//	client, _ := bazaarsearch.New(ctx, bazaarsearch.WithMemory())
//	defer client.Close()
//
//	_ = client.Catalog().UpsertBatch(ctx, products)
//
//	page, _ := client.Search(ctx, "samsung phone under 30k", bazaarsearch.SearchOptions{
//	    Limit: 10,
//	})
//	for _, hit := range page.Hits {
//	    fmt.Println(hit.Title, hit.Price)
//	}
//
// Queries go through the same interpretation step as the HTTP API: Hinglish
// phrases, common misspellings, price bands ("under 30k"), brand and
// attribute hints are all understood.
package bazaarsearch
