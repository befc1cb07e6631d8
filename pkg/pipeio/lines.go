package pipeio

import (
	"bufio"
	"io"
)

// LimitLines returns a reader that yields at most n lines of r, then EOF.
// A non-positive n means no limit.
func LimitLines(r io.Reader, n int) io.Reader {
	if n <= 0 {
		return r
	}
	return &lineLimiter{r: bufio.NewReader(r), left: n}
}

type lineLimiter struct {
	r    *bufio.Reader
	left int
	line []byte
}

func (l *lineLimiter) Read(p []byte) (int, error) {
	if len(l.line) == 0 {
		if l.left == 0 {
			return 0, io.EOF
		}
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.left--
		l.line = line
	}

	n := copy(p, l.line)
	l.line = l.line[n:]
	return n, nil
}
