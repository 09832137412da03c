// Package file provides a directory-backed implementation of driven.KVStore.
//
// Each key is stored as <dir>/<key>.json and replaced atomically through a
// temporary file and rename, so readers never observe a partial write. The
// store also implements driven.KVWatcher using fsnotify, which lets a running
// TUI notice selections toggled from another process.
package file
