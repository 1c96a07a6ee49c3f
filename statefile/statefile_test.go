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

package statefile_test

import (
	"testing"

	"github.com/seliware/gopheradvance/statefile"
	"github.com/seliware/gopheradvance/test"
)

func TestRoundTrip(t *testing.T) {
	w := statefile.NewWriter()
	w.WriteUint8(0x12)
	w.WriteBool(true)
	w.WriteUint16(0x3456)
	w.WriteUint32(0x789abcde)
	w.WriteUint64(0x0123456789abcdef)
	w.WriteInt32(-42)
	w.WriteBytes([]byte("payload"))

	r, err := statefile.NewReader(w.Bytes())
	test.ExpectSuccess(t, err)

	test.Equate(t, r.ReadUint8(), 0x12)
	test.Equate(t, r.ReadBool(), true)
	test.Equate(t, r.ReadUint16(), 0x3456)
	test.Equate(t, r.ReadUint32(), uint32(0x789abcde))
	test.Equate(t, r.ReadUint64(), uint64(0x0123456789abcdef))
	test.Equate(t, int(r.ReadInt32()), -42)
	test.Equate(t, string(r.ReadBytes()), "payload")
	test.ExpectSuccess(t, r.Err())
}

func TestBadMagic(t *testing.T) {
	_, err := statefile.NewReader([]byte("XXXX\x01\x00\x00\x00"))
	test.ExpectFailure(t, err)

	_, err = statefile.NewReader(nil)
	test.ExpectFailure(t, err)
}

func TestVersionMismatch(t *testing.T) {
	w := statefile.NewWriter()
	data := w.Bytes()
	data[4] ^= 0xff

	_, err := statefile.NewReader(data)
	test.ExpectFailure(t, err)
}

func TestTruncationLatchesError(t *testing.T) {
	w := statefile.NewWriter()
	w.WriteUint32(1)

	r, err := statefile.NewReader(w.Bytes())
	test.ExpectSuccess(t, err)

	r.ReadUint32()
	test.ExpectSuccess(t, r.Err())

	// reading past the end returns zero and latches the error
	test.Equate(t, r.ReadUint32(), uint32(0))
	test.ExpectFailure(t, r.Err())
}
