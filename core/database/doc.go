// Package database establishes the optional MySQL connection backing the
// comparison run history.
package database
