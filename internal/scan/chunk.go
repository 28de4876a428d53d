package scan

import (
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultChunkSize is the read granularity for file scans. Files larger
// than this are streamed chunk by chunk so memory stays bounded by the
// chunk size plus one carried line, not by the file size.
const DefaultChunkSize = 1 << 20

// ChunkReader reads a file as a sequence of decoded text chunks. Decoding
// is permissive: bytes that are invalid in the configured encoding become
// U+FFFD instead of failing the read, so a corrupt region of a log never
// aborts a scan. The decoder is stateful across chunk boundaries, so a
// multi-byte rune split between two reads still decodes intact.
type ChunkReader struct {
	f    *os.File
	r    io.Reader
	buf  []byte
	werr error
}

// OpenChunkReader opens path for chunked reading with the given chunk
// size and encoding name. Size values below 1 fall back to
// DefaultChunkSize; unrecognized encodings fall back to UTF-8.
func OpenChunkReader(path string, size int, encodingName string) (*ChunkReader, error) {
	if size < 1 {
		size = DefaultChunkSize
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &ChunkReader{
		f:   f,
		r:   transform.NewReader(f, decoderFor(encodingName)),
		buf: make([]byte, size),
	}, nil
}

// Next returns the next chunk of decoded text, or io.EOF after the last
// one. A read failure after partial data delivers the partial chunk
// first; the error surfaces on the following call.
func (c *ChunkReader) Next() (string, error) {
	if c.werr != nil {
		err := c.werr
		c.werr = nil
		return "", err
	}
	n, err := io.ReadFull(c.r, c.buf)
	switch {
	case err == nil, err == io.ErrUnexpectedEOF:
		return string(c.buf[:n]), nil
	case err == io.EOF:
		return "", io.EOF
	default:
		if n > 0 {
			c.werr = err
			return string(c.buf[:n]), nil
		}
		return "", err
	}
}

func (c *ChunkReader) Close() error {
	return c.f.Close()
}

func decoderFor(name string) *encoding.Decoder {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder()
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder()
	default:
		return unicode.UTF8.NewDecoder()
	}
}
