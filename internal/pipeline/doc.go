// Package pipeline parses several trace inputs concurrently and collects
// their records in input order. Each input is parsed independently, so goal
// heap state never carries over from one file to the next.
package pipeline
