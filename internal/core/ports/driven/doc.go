// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - KVStore: Durable key-value slot holding the persisted selection
//   - AssetFeed: Market data source for the asset listing
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be absent - the application degrades gracefully:
//
//   - KVWatcher: Change notifications for records written by other
//     processes. Without it, the selection is only read at startup.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
