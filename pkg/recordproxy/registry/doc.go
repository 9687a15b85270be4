// Package registry holds named values of one kind.
//
// persist keeps two registries: the store kinds Open can create, and the
// named in-process memory stores that several records or commands share.
//
//	openers := registry.New[Opener]("store kind")
//	openers.Set("memory", openMemory)
//
//	open, err := openers.Lookup(kind)
//	// unknown store kind "etcd" (available: memory, sqlite): not registered
//
// Ensure creates a missing value under the registry's lock, so concurrent
// callers asking for the same name share one value.
package registry
