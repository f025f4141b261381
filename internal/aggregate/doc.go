// Package aggregate fans a per-device fetch out across many zone players at
// once and joins the results back in input order.
//
// Workers only ever see a device's address, never a discovery handle, so a
// fetch function can run without access to anything shared. Each worker
// writes to its own result slot and the slots are read only after every
// worker has returned, so no locking is involved.
//
//	results := aggregate.Run(ctx, ips, aggregate.Infallible(fetcher.Fetch))
//	byIP := aggregate.ByAddr(results)
package aggregate
