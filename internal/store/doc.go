// Package store provides the persistence interfaces and shared errors for the
// task manager. Implementations live in internal/platform/postgres; services
// and handlers depend only on the interfaces defined here.
package store
