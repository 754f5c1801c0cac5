// Package textutil turns untrusted classification labels into canonical,
// filesystem-safe folder names.
package textutil
