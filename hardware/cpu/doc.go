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

// Package cpu implements the ARM7TDMI as found in the GBA: the full
// ARMv4T instruction set in both its 32 bit ARM and 16 bit Thumb
// encodings, the banked register files, the three stage pipeline as seen
// by software, and the exception model.
//
// Decoding uses two tables built when the package is initialised: a 4096
// entry table for ARM, indexed by bits 27-20 and 7-4 of the opcode, and
// a 1024 entry table for Thumb, indexed by bits 15-6. Each entry is the
// handler for every opcode that shares those bits.
//
// The pipeline is modelled as the two prefetched opcodes. The program
// counter visible to an executing instruction is two fetches ahead of
// the instruction's own address, just as on hardware. Anything that
// writes to the program counter flushes the pipeline and refills it
// before the next instruction executes.
package cpu
