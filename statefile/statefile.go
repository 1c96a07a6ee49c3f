// This file is part of GopherAdvance.
//
// GopherAdvance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherAdvance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherAdvance.  If not, see <https://www.gnu.org/licenses/>.

// Package statefile is the binary codec for the quicksave file. The
// format is a little-endian stream of fixed width values prefixed by a
// magic string and a version number. There is no reflection and no
// schema: every subsystem writes and reads its own values in a fixed
// order, the way the cartridge formats elsewhere in the project are
// handled.
package statefile

import (
	"bytes"
	"encoding/binary"

	"github.com/seliware/gopheradvance/curated"
)

// Magic identifies a quicksave file.
const Magic = "GADV"

// Version of the quicksave layout. Bumped on any change to what any
// subsystem writes. Loads of any other version fail.
const Version = uint32(1)

// Writer accumulates the quicksave stream.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter starts a quicksave stream, writing the version header.
func NewWriter() *Writer {
	w := &Writer{}
	w.buf.WriteString(Magic)
	w.WriteUint32(Version)
	return w
}

// Bytes returns the accumulated stream.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteBytes writes a length prefixed byte slice.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf.Write(b)
}

// Reader consumes a quicksave stream.
type Reader struct {
	data []byte
	pos  int
	err  error
}

// NewReader checks the version header and positions the reader on the
// first value. A version mismatch is an error; the caller must abandon
// the load.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < len(Magic)+4 || string(data[:len(Magic)]) != Magic {
		return nil, curated.Errorf("statefile: not a quicksave file")
	}
	r := &Reader{data: data, pos: len(Magic)}
	if v := r.ReadUint32(); v != Version {
		return nil, curated.Errorf("statefile: version mismatch (file %d, expected %d)", v, Version)
	}
	return r, nil
}

// Err returns the first error encountered while reading. Reads past the
// end of the stream return zero values and latch the error.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) take(n int) []byte {
	if r.err != nil || r.pos+n > len(r.data) {
		if r.err == nil {
			r.err = curated.Errorf("statefile: truncated quicksave file")
		}
		return make([]byte, n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *Reader) ReadUint8() uint8 {
	return r.take(1)[0]
}

func (r *Reader) ReadBool() bool {
	return r.take(1)[0] != 0
}

func (r *Reader) ReadUint16() uint16 {
	return binary.LittleEndian.Uint16(r.take(2))
}

func (r *Reader) ReadUint32() uint32 {
	return binary.LittleEndian.Uint32(r.take(4))
}

func (r *Reader) ReadUint64() uint64 {
	return binary.LittleEndian.Uint64(r.take(8))
}

func (r *Reader) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

// ReadBytes reads a length prefixed byte slice.
func (r *Reader) ReadBytes() []byte {
	n := int(r.ReadUint32())
	if r.err != nil || r.pos+n > len(r.data) {
		if r.err == nil {
			r.err = curated.Errorf("statefile: truncated quicksave file")
		}
		return nil
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b
}
