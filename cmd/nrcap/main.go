// Package main provides the entry point for the nrcap CLI.
//
// nrcap estimates the cells and sites a 5G NR deployment needs to carry
// the busy-hour traffic of an area, for both FR1 and FR2.
//
// Usage:
//
//	nrcap dimension [scenario...]
//	nrcap dimension --area 10 --density 5000 ...
//	nrcap serve
//
// See --help for all available options.
package main

// main is the entry point for nrcap.
func main() {
	Execute()
}
