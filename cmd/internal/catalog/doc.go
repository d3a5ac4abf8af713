// Package catalog serves bombay's read-only music catalog (artists and
// songs) and the public bootstrap data used by clients.
package catalog
