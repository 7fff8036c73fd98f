package utils

import (
	"fmt"
	"math"
)

// SizeUnits are the binary units used by HumanSize, smallest first.
var SizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// HumanSize formats a byte count with 1024-based units and two decimals,
// e.g. 1536 -> "1.50 KB". Values past the largest unit stay in that unit.
// A value that would print as "1024.00" moves up a unit instead.
// Negative sizes are treated as zero.
func HumanSize(size int64) string {
	if size < 0 {
		size = 0
	}
	value := float64(size)
	i := 0
	for math.Round(value*100)/100 >= 1024 && i < len(SizeUnits)-1 {
		value /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", value, SizeUnits[i])
}
