// Package redis provides Redis client construction with retry for the
// bundled Redis session store.
package redis
