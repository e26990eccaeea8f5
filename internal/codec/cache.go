package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"

	"github.com/streammon/streammon/internal/automaton"
	"github.com/streammon/streammon/internal/streamerr"
)

// checksumLen is the size in bytes of the xxh3 header prepended to every
// cache file: a fast, non-cryptographic integrity check that lets
// Deserialize reject a truncated or corrupted artifact without paying for a
// full CBOR decode first.
const checksumLen = 8

// hashPrefixHexLen is the number of hex digits of the content hash used to
// name a cache file, per spec.md §4.3.
const hashPrefixHexLen = 8

// Serialize encodes a, writes it to dir under a content-addressed filename,
// and returns the path it wrote. Callers should use the returned path rather
// than deriving a filename themselves. Encode's output is deterministic (see
// wireAutomaton), so serializing an equal automaton again returns the same
// path.
func Serialize(dir string, a *automaton.Automaton) (string, error) {
	payload, err := Encode(a)
	if err != nil {
		return "", err
	}

	buf := make([]byte, checksumLen+len(payload))
	binary.LittleEndian.PutUint64(buf[:checksumLen], xxh3.Hash(payload))
	copy(buf[checksumLen:], payload)

	digest := blake3.Sum256(buf)
	name := hex.EncodeToString(digest[:])[:hashPrefixHexLen] + ".dfa"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", streamerr.IO(fmt.Sprintf("create cache directory %s", dir), err)
	}

	path := filepath.Join(dir, name)
	if err := writeFile(path, buf); err != nil {
		return "", streamerr.IO(fmt.Sprintf("write cache artifact %s", path), err)
	}
	return path, nil
}

// writeFile writes data to path, flushing and closing before returning so a
// caller who immediately hands the path to another process (or Deserialize)
// never observes a partially-written file.
func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Deserialize loads and decodes the cache artifact at path. It verifies the
// xxh3 header against the remaining bytes before attempting a CBOR decode,
// so a truncated or bit-flipped artifact fails fast with a KindCorrupt
// streamerr.Error rather than a confusing decode panic deep in cbor.Unmarshal.
func Deserialize(path string) (*automaton.Automaton, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, streamerr.IO(fmt.Sprintf("read cache artifact %s", path), err)
	}
	if len(buf) < checksumLen {
		return nil, streamerr.Corrupt(fmt.Sprintf("cache artifact %s is too short to contain a header", path), nil)
	}

	want := binary.LittleEndian.Uint64(buf[:checksumLen])
	payload := buf[checksumLen:]
	if got := xxh3.Hash(payload); got != want {
		return nil, streamerr.Corrupt(fmt.Sprintf("cache artifact %s failed its integrity check", path), nil)
	}

	return Decode(payload)
}

// Clean removes dir and everything in it — spec.md §4.3's "clean_cache"
// operation. It is not safe to call concurrently with Serialize or
// Deserialize against the same directory.
func Clean(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return streamerr.IO(fmt.Sprintf("remove cache directory %s", dir), err)
	}
	return nil
}
