// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"strings"
	"sync"
)

// Decoder turns an encoded stream into a fully decoded Buffer.
type Decoder interface {
	Decode(r io.Reader) (*Buffer, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(r io.Reader) (*Buffer, error)

func (f DecoderFunc) Decode(r io.Reader) (*Buffer, error) { return f(r) }

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
// Keys are case-insensitive and a leading dot is ignored, so a file
// extension can be used directly.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[formatKey(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[formatKey(format)]
	return d, ok
}

// Formats returns the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	return keys
}

// Decode looks up the decoder for format and runs it on rd.
func (r *Registry) Decode(format string, rd io.Reader) (*Buffer, error) {
	d, ok := r.Get(format)
	if !ok {
		return nil, &FormatError{Format: format}
	}

	buf, err := d.Decode(rd)
	if err != nil {
		return nil, &DecodeError{Format: formatKey(format), Err: err}
	}

	if err := buf.Validate(); err != nil {
		return nil, &DecodeError{Format: formatKey(format), Err: err}
	}

	return buf, nil
}

func formatKey(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}
