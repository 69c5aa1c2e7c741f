// Package bootstrap runs the one-time setup steps a fresh checkout needs before it can be used.
// Each step is an Action with a single input file. The time of the last successful run is
// recorded in a stamp file and an action only runs again once its input is newer than its stamp
// (kind of like a very dumb Makefile).
package bootstrap
