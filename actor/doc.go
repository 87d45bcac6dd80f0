// Package actor is the Go SDK for code that runs on, or calls into, the actor
// platform.
//
// The pieces most programs need:
//
//   - Client.Call starts another actor, waits for it to finish within a budget
//     and returns the finished run together with its OUTPUT record.
//   - GetEnv reads the APIFY_* environment the platform passes to a running actor.
//   - ProxyURL builds a URL for the platform's HTTP proxy.
//   - Main wraps an actor's entry point and turns its result into an exit code.
//   - GetValue and SetValue access the run's default key-value store, falling
//     back to local files when the actor runs outside the platform.
//
// # Authentication
//
// Clients created with NewFromEnv use APIFY_TOKEN. Any single Call can use a
// different token through CallOptions.Token; it is sent with every request made
// on behalf of that call.
package actor
