// Package scanner enumerates source files eligible for classification and the
// category folders already present in a target directory.
package scanner
