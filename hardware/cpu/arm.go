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

package cpu

// armHandler executes one ARM instruction. The condition field has
// already been evaluated by the time a handler runs.
type armHandler func(mc *CPU, opcode uint32)

// armTable is indexed by bits 27-20 and 7-4 of the opcode, which is
// enough to classify every ARMv4 encoding.
var armTable [4096]armHandler

func init() {
	for i := uint32(0); i < 4096; i++ {
		armTable[i] = classifyARM(i)
	}
	buildThumbTable()
}

func classifyARM(i uint32) armHandler {
	hi := i >> 4  // opcode bits 27-20
	lo := i & 0xf // opcode bits 7-4

	switch hi >> 6 {
	case 0:
		// multiplies and the extra load/stores live in the holes of the
		// data processing space
		if lo == 0x9 {
			switch {
			case hi&0xfc == 0x00:
				return armMultiply
			case hi&0xf8 == 0x08:
				return armMultiplyLong
			case hi&0xfb == 0x10:
				return armSwap
			}
			return armUndefined
		}

		if hi>>5 == 0 && lo&0x9 == 0x9 {
			return armHalfTransfer
		}

		// data processing encodings of TST/TEQ/CMP/CMN without the S
		// bit are the PSR transfer instructions and BX
		if hi&0x19 == 0x10 {
			if hi&0x20 != 0 {
				// immediate form only exists for MSR
				if hi&0x02 != 0 {
					return armMSR
				}
				return armUndefined
			}
			switch {
			case hi&0x02 == 0 && lo == 0x0:
				return armMRS
			case hi&0x02 != 0 && lo == 0x0:
				return armMSR
			case hi == 0x12 && lo == 0x1:
				return armBranchExchange
			}
			return armUndefined
		}

		return armDataProcessing

	case 1:
		if hi&0x20 != 0 && lo&0x1 != 0 {
			// the architecturally undefined instruction
			return armUndefined
		}
		return armSingleTransfer

	case 2:
		if hi&0x20 == 0 {
			return armBlockTransfer
		}
		return armBranch

	case 3:
		if hi&0x30 == 0x30 {
			return armSoftwareInterrupt
		}
		// coprocessor space. the GBA has no coprocessors, so these all
		// take the undefined trap
		return armUndefined
	}

	return armUndefined
}
