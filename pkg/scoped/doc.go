// Package scoped provides tenant-scoped MongoDB collection handles.
//
// A scoped Collection closes over one tenant id and intersects every
// operation with {tenant_id: <id>}, pushing the isolation invariant into the
// accessor instead of relying on every call site to remember the filter. A
// caller-supplied tenant_id, even a conflicting one, is always overridden by
// the bound id.
//
//	vehicles, err := scoped.For(db.Collection("vehicles"), info.ID)
//	if err != nil { ... }
//	cur, err := vehicles.Find(ctx, bson.M{"brand": "Toyota"})
package scoped
