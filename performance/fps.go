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

package performance

// CalcRate takes the the number of retraces and duration (in seconds) and
// returns the retraces-per-second and the accuracy of that value as a
// percentage of the expected rate.
func CalcRate(expected int, numRetraces int, duration float64) (rate float64, accuracy float64) {
	if duration <= 0 {
		return 0, 0
	}
	rate = float64(numRetraces) / duration
	if expected > 0 {
		accuracy = 100 * rate / float64(expected)
	}
	return rate, accuracy
}
