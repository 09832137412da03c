// Package file provides a TOML-file implementation of driven.ConfigStore.
//
// Settings are addressed by dotted keys ("feed.limit") and written as
// nested tables, so ~/.assetdeck/config.toml reads naturally:
//
//	[feed]
//	limit = 100
//
//	[storage]
//	backend = "sqlite"
package file
