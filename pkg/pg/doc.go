// Package pg provides PostgreSQL connection pooling with retry and goose
// migration support for the bundled Postgres session store.
package pg
