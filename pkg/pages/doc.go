// Package pages defines the domain model shared by the sweeper: Pages
// projects, their deployments, and the lazy Pager used to walk server-side
// paginated listings.
//
// # Pagination
//
// Listings are never materialized. A Pager fetches one page at a time and
// only requests the next page once every item of the current page has been
// consumed:
//
//	pager := client.Deployments("my-site")
//	for pager.Next(ctx) {
//	    d := pager.Value()
//	    // evaluate d before the next item is read
//	}
//	if err := pager.Err(); err != nil {
//	    return err
//	}
//
// The context is checked before each page request, so a cancelled run stops
// at the next page boundary instead of in the middle of a request.
package pages
