package parallel

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Cores reports the number of logical cores of the machine
func Cores() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Workers sizes a pool to half of the cores, capped by the smallest batch count so that
// no worker starves. It never returns less than 1.
func Workers(smallest int) int {
	n := Cores() / 2
	if smallest < n {
		n = smallest
	}
	if n < 1 {
		n = 1
	}
	return n
}
