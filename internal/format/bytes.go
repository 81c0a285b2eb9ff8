package format

import "github.com/dustin/go-humanize"

// FormatBytes renders a byte count with binary units ("4.0 MiB").
func FormatBytes(n uint64) string {
	return humanize.IBytes(n)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
