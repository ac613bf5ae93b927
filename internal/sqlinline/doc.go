// Package sqlinline holds every SQL statement the Postgres adapter runs.
// Each statement starts with a `--sql <uuid>` marker that infra.SQLRunner
// logs and validates.
package sqlinline

//go:generate go run ../tools/sqllint .
