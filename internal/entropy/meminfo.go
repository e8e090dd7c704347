package entropy

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const (
	meminfoPath  = "/proc/meminfo"
	meminfoField = "MemAvailable:"
	kibibyte     = 1024
)

// ErrNoMemInfo is returned when the meminfo file lacks an available-memory line.
var ErrNoMemInfo = errors.New("MemAvailable not reported")

// MemInfoProbe returns a MemoryProbe parsing MemAvailable from /proc/meminfo on fsys.
func MemInfoProbe(fsys afero.Fs) MemoryProbe {
	return func() (uint64, error) {
		data, err := afero.ReadFile(fsys, meminfoPath)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", meminfoPath, err)
		}

		return parseMemInfo(data)
	}
}

// parseMemInfo extracts MemAvailable in bytes.
func parseMemInfo(data []byte) (uint64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != meminfoField {
			continue
		}

		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing %s %q: %w", meminfoField, fields[1], err)
		}

		if len(fields) > 2 && strings.EqualFold(fields[2], "kB") {
			value *= kibibyte
		}

		return value, nil
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scanning %s: %w", meminfoPath, err)
	}

	return 0, ErrNoMemInfo
}
