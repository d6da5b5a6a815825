// Package domain contains the core business entities of the task manager:
// users and their tasks. Entities validate themselves; persistence and
// serialization concerns live in the store and api packages respectively.
package domain
