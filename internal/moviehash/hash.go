package moviehash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// ChunkSize is the number of bytes hashed at each end of the file.
	ChunkSize = 64 * 1024
	// MinFileSize is the smallest file the algorithm accepts. The
	// OpenSubtitles service refuses moviehash lookups for smaller files,
	// so rather than zero-padding we reject them outright.
	MinFileSize = 2 * ChunkSize
)

// ErrTooSmall reports a file below MinFileSize.
var ErrTooSmall = errors.New("moviehash: file smaller than 128KiB")

// Fingerprint identifies a video file by size and content hash.
type Fingerprint struct {
	Size uint64
	Hash uint64
}

// Hex renders the hash the way the remote API expects it: fixed-width
// 16-character lowercase hexadecimal.
func (f Fingerprint) Hex() string {
	return fmt.Sprintf("%016x", f.Hash)
}

// Compute calculates the fingerprint for size bytes of content readable
// through r. The hash is a pure function of the bytes and the size;
// overflow wraps modulo 2^64.
func Compute(r io.ReadSeeker, size uint64) (Fingerprint, error) {
	if size < MinFileSize {
		return Fingerprint{}, fmt.Errorf("%w: %d bytes", ErrTooSmall, size)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Fingerprint{}, fmt.Errorf("moviehash: seek start: %w", err)
	}
	head, err := sumChunk(r)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("moviehash: read head chunk: %w", err)
	}

	if _, err := r.Seek(int64(size)-ChunkSize, io.SeekStart); err != nil {
		return Fingerprint{}, fmt.Errorf("moviehash: seek tail: %w", err)
	}
	tail, err := sumChunk(r)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("moviehash: read tail chunk: %w", err)
	}

	return Fingerprint{Size: size, Hash: size + head + tail}, nil
}

// ComputeFile opens path and calculates its fingerprint.
func ComputeFile(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("moviehash: open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Fingerprint{}, fmt.Errorf("moviehash: stat file: %w", err)
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("moviehash: %s is a directory", path)
	}

	return Compute(file, uint64(info.Size()))
}

// sumChunk reads exactly ChunkSize bytes and sums them as 8192
// little-endian uint64 values with wrapping arithmetic.
func sumChunk(r io.Reader) (uint64, error) {
	var buf [ChunkSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	var sum uint64
	for i := 0; i < ChunkSize; i += 8 {
		sum += binary.LittleEndian.Uint64(buf[i : i+8])
	}
	return sum, nil
}
