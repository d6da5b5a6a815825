// Package postgres implements the store interfaces on top of PostgreSQL,
// accessed through database/sql with the pgx stdlib driver. Schema changes
// live in the embedded migrations applied by goose at startup.
package postgres
