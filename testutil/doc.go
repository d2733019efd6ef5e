// Package testutil provides testing utilities for resredis.
//
// This package is intended for use in tests only.
//
// # In-process Redis
//
//	client, mr := testutil.NewRedis(t) // miniredis, closed on cleanup
//
// # Random Records
//
//	rng := testutil.NewRNG(seed)
//	people := rng.People(100) // deterministic name/age/city records
//
// # Fault Injection
//
//	fs := testutil.NewFaultyStore(store.NewRedis(client, nil))
//	fs.AddRule("ZADD", testutil.Fault{})  // every ZADD fails
//	fs.AddRule("INCR", testutil.Fault{After: 2}) // the third INCR onwards fails
package testutil
