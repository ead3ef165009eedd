// Package utils converts loosely typed values decoded from snapshot documents
// into the column types of the world database.
package utils
