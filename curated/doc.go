// This file is part of nugopher.
//
// nugopher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// nugopher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with nugopher.  If not, see <https://www.gnu.org/licenses/>.

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function can be used to check whether an error was created with a
// specific pattern. Packages that raise errors the caller is expected to test
// for should export the pattern as a const string. For example, the mesgq
// package exports:
//
//	const QueueFull = "mesgq: %s: queue is full"
//
// and a caller can check for it with:
//
//	err := q.SendNB(m)
//	if curated.Is(err, mesgq.QueueFull) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain:
//
//	e := curated.Errorf(mesgq.QueueFull, "gfx")
//	f := curated.Errorf("scheduler: %v", e)
//
//	curated.Has(f, mesgq.QueueFull) // true
//	curated.Is(f, mesgq.QueueFull)  // false
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). Put another way, it returns true if the error is 'curated'
// and false if the error is 'uncurated'. We can think of the difference as
// being 'expected' and 'unexpected' errors.
//
// The Error() function ensures that the error chain is normalised. The chain
// does not contain duplicate adjacent parts. For example, if function A wraps
// an error from function B with the pattern "simgr: %v" and B wraps an error
// from C with the same pattern, the message will be:
//
//	simgr: no route
//
// and not:
//
//	simgr: simgr: no route
//
// Curated errors implement Unwrap() so they work with errors.Is() and
// errors.As() when an error value from the standard library is included in
// the values of the curated error.
package curated
