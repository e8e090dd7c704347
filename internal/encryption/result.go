package encryption

import "time"

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Direction of the operation
	Direction Direction

	// Mode used
	Mode Mode

	// Input file size in bytes
	InputSize int64

	// Output file size in bytes
	OutputSize int64

	// Wall time spent on the operation
	Duration time.Duration
}

// Throughput returns the processed input rate in megabits per second.
func (r Result) Throughput() float64 {
	seconds := r.Duration.Seconds()
	if seconds <= 0 {
		return 0
	}

	const bitsPerByte, bitsPerMegabit = 8, 1_000_000

	return float64(r.InputSize) * bitsPerByte / bitsPerMegabit / seconds
}
