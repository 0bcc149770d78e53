// Package runner prints a start notice, sleeps for a fixed interval and prints
// a completion notice, all inside a protected region.
//
// Interrupts and faults raised in the region are reported on the console and
// absorbed. The termination notice is printed exactly once on every path and
// the resulting exit code is always 0.
package runner
