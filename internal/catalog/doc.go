// Package catalog is the recipe service: it lists, loads, saves, deletes,
// imports, and exports recipes over a storage.Backend.
//
// Decode and encode failures are recovered here. List skips documents that
// cannot be decoded and logs them; single-recipe operations return a *Failure
// whose message names the slug and is safe to show to users. Every successful
// write or delete notifies the registered Invalidators so caches such as the
// summary index stay in step with storage.
package catalog
