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

// Package curated provides the error type used throughout the emulator. A
// curated error keeps the pattern string it was created with, meaning that
// errors can be compared reliably with the Is() and Has() functions without
// string matching on the formatted message.
//
// Error messages are normalised when printed. If the head of the message
// duplicates the head of a wrapped error the duplicate is removed. This keeps
// deeply wrapped errors readable when they cross many subsystems, which
// happens a lot when an error travels from the memory bus up through the CPU
// and out of the emulation loop.
package curated
