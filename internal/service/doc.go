// Package service contains the application's use-case logic on top of the
// store interfaces: the user account lifecycle, patch whitelisting, and
// avatar normalization. Authentication-token concerns live in the auth
// subpackage.
package service
