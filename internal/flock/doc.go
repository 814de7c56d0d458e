// Package flock provides cross-platform file locking utilities.
//
// It provides exclusive, non-blocking file locks that work on both Unix and
// Windows systems. The state store uses these locks to keep concurrent
// satchel invocations from clobbering each other's writes.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    // Lock not acquired - file is in use
//	}
//	defer flock.Unlock(file.Fd())
package flock
