package log

import (
	"fmt"
	"os"
	"time"
)

var now = time.Now

// Start creates the process logger. An empty target logs to the console on
// stderr, anything else is treated as a file path opened in append mode.
// The returned teardown function must be called once logging is done.
func Start(target string, min Level) (*Logger, func() error, error) {
	if target == "" {
		return New(NewConsoleSink(os.Stderr), min), func() error { return nil }, nil
	}

	sink, err := OpenFileSink(target)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", target, err)
	}

	return New(sink, min), sink.Close, nil
}
