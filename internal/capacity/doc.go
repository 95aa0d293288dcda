// Package capacity implements the NR capacity dimensioning engine.
//
// The engine is a short chain of pure functions:
//
//	Input --NewParams--> Params --TotalTraffic----------\
//	                           \--CellThroughput (FR1) --+--EstimateSites--> Summary
//	                            \-CellThroughput (FR2) --/
//
// NewParams normalizes the busy-hour traffic volume (GB per subscriber)
// into a bit rate (Mbps per subscriber) and freezes the record. Every other
// function takes its inputs explicitly and returns a fresh value, so calls
// may run concurrently without coordination.
//
// The package never logs and never retries. Invalid input is reported
// through ErrInvalidParameter, an unusable cell capacity through
// ErrInvalidCapacity.
package capacity
