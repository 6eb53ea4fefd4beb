// Package codec packs line blocks into a compressed, base64 text form so
// they can cross channels that only carry printable ASCII.
//
// Entries keep their "\n" terminators: Encode concatenates them and Decode
// splits after every line feed, so a final unterminated fragment survives
// as its own entry.
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"

	"github.com/joshuapare/cfgkit/internal/line"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// Algorithm names a compression scheme.
type Algorithm string

const (
	Bzip2 Algorithm = "bzip2"
	Zstd  Algorithm = "zstd"
)

var (
	magicBzip2 = []byte("BZh")
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Options configures a Codec.
type Options struct {
	// Algorithm used by Encode. Decode detects the scheme from the payload.
	// Default: Bzip2
	Algorithm Algorithm

	// Level is passed to the compressor; 0 picks its default.
	Level int
}

// Codec encodes and decodes line blocks.
type Codec struct {
	opts Options
}

// New returns a Codec. A nil opts uses the defaults.
func New(opts *Options) (*Codec, error) {
	o := Options{Algorithm: Bzip2}
	if opts != nil {
		o = *opts
		if o.Algorithm == "" {
			o.Algorithm = Bzip2
		}
	}
	switch o.Algorithm {
	case Bzip2, Zstd:
	default:
		return nil, fmt.Errorf("unknown compression %q", o.Algorithm)
	}
	return &Codec{opts: o}, nil
}

// ParseAlgorithm maps a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case Bzip2, Zstd:
		return a, nil
	case "", "bz2":
		return Bzip2, nil
	case "zst":
		return Zstd, nil
	default:
		return "", fmt.Errorf("unknown compression %q", s)
	}
}

// Algorithm reports the scheme used by Encode.
func (c *Codec) Algorithm() Algorithm { return c.opts.Algorithm }

// Encode concatenates entries, compresses and base64-encodes them.
func (c *Codec) Encode(entries []string) (string, error) {
	packed, err := c.compress([]byte(strings.Join(entries, "")))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(packed), nil
}

// EncodeLines encodes buffer lines. Blank lines at the end are cut down to
// one.
func (c *Codec) EncodeLines(ls []*line.Line) (string, error) {
	last := len(ls)
	for last > 0 && ls[last-1].IsBlank() {
		last--
	}
	if last < len(ls) {
		last++
	}
	entries := make([]string, 0, last)
	for _, l := range ls[:last] {
		entries = append(entries, l.Raw()+"\n")
	}
	return c.Encode(entries)
}

// Decode inverts Encode for either supported scheme.
func (c *Codec) Decode(text string) ([]string, error) {
	return Decode(text)
}

// Decode base64-decodes text, detects the compression from its magic
// bytes and splits the result into entries.
func Decode(text string) ([]string, error) {
	packed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, types.ErrInvalidEncoding.Wrap(err)
	}
	raw, err := decompress(packed)
	if err != nil {
		return nil, types.ErrInvalidEncoding.Wrap(err)
	}
	return Split(string(raw)), nil
}

// Split cuts s after every line feed. A trailing fragment without line
// feed is kept as the last entry.
func Split(s string) []string {
	out := strings.SplitAfter(s, "\n")
	if n := len(out); n > 0 && out[n-1] == "" {
		out = out[:n-1]
	}
	return out
}

// Terminate appends "\n" to every raw line text.
func Terminate(raws []string) []string {
	out := make([]string, len(raws))
	for i, r := range raws {
		out[i] = r + "\n"
	}
	return out
}

// Strip removes the line terminator from every entry.
func Strip(entries []string) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		e = strings.TrimSuffix(e, "\n")
		out[i] = strings.TrimSuffix(e, "\r")
	}
	return out
}

func (c *Codec) compress(data []byte) ([]byte, error) {
	switch c.opts.Algorithm {
	case Zstd:
		// An empty block must still produce a frame carrying the magic.
		eopts := []zstd.EOption{zstd.WithZeroFrames(true)}
		if c.opts.Level != 0 {
			eopts = append(eopts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(c.opts.Level)))
		}
		enc, err := zstd.NewWriter(nil, eopts...)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		var buf bytes.Buffer
		w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: c.opts.Level})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

func decompress(packed []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(packed, magicZstd):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(packed, nil)
	case bytes.HasPrefix(packed, magicBzip2):
		r, err := bzip2.NewReader(bytes.NewReader(packed), &bzip2.ReaderConfig{})
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("unrecognized compressed payload")
	}
}
