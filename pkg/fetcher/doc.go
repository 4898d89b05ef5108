// Package fetcher runs a batch: one metadata request per date on a bounded
// pool, then one download per photo on a second bounded pool.
//
// A failed date or photo is logged and counted in the Summary. Nothing short
// of the context ending stops the run early.
//
//	f := fetcher.New(client, dl, fetcher.Options{
//	    ConcurrentDates:     4,
//	    ConcurrentDownloads: 8,
//	}, log)
//	summary := f.Run(ctx, parsed.Dates)
package fetcher
