package stream

import (
	"bufio"
	"bytes"
	"io"

	"github.com/streammon/streammon/internal/matcher"
	"github.com/streammon/streammon/internal/streamerr"
)

// maxLineSize bounds how long a single line may grow before Validate gives
// up rather than buffering without limit, preserving spec.md §5's
// line-granular backpressure.
const maxLineSize = 8 * 1024 * 1024

// splitOnLF is a bufio.SplitFunc that splits only on "\n" and, unlike
// bufio.ScanLines, never trims a trailing "\r". spec.md §4.4 delivers "\r"
// to the automaton as an ordinary byte, so a producer encoding CRLF
// tolerance into its regular language must see every "\r" it sent.
func splitOnLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[0:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Validate reads lines from r, classifies each against eng, and writes
// every Full-classified line (plus its newline) to w before reading the
// next one — never more than one line of buffering ahead of the consumer,
// per spec.md §4.5 and §5. The first Partial or None classification stops
// the read loop and returns a *streamerr.Error of KindValidation carrying
// the offending line and its classification; typ is recorded on that error
// as the validation-type tag the reporter prints (spec.md §7).
//
// An empty stream (zero lines) is itself classified against eng per
// spec.md §4.4's empty-input rule.
func Validate(r io.Reader, w io.Writer, eng matcher.Engine, typ string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(splitOnLF)

	sawAnyLine := false
	for scanner.Scan() {
		sawAnyLine = true
		line := scanner.Bytes()

		cls, err := eng.Classify(line)
		if err != nil {
			return streamerr.Corrupt("classify line", err)
		}

		if cls != matcher.Full {
			return streamerr.Validation(cls, string(line), typ)
		}

		if _, err := w.Write(line); err != nil {
			return streamerr.IO("write validated line", err)
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return streamerr.IO("write validated line", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return streamerr.IO("read input line", err)
	}

	if !sawAnyLine {
		cls, err := eng.Classify(nil)
		if err != nil {
			return streamerr.Corrupt("classify empty stream", err)
		}
		if cls != matcher.Full {
			return streamerr.Validation(matcher.None, "", typ)
		}
	}

	return nil
}
