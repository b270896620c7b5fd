// Package filesystem provides implementations of the types.FS interface:
// one backed by the OS and one backed by afero for tests.
package filesystem
