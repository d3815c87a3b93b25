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

package voice

import (
	"slices"
	"strings"
)

// MaxAnswers is the number of candidate words in Data.
const MaxAnswers = 5

// NoAnswer is the value of an unused entry in Data.Answer.
const NoAnswer = 0x7fff

// Warning bits in Data.
const (
	WarningTooSmall uint16 = 0x0400
	WarningTooLarge uint16 = 0x0800
	WarningNotFit   uint16 = 0x4000
	WarningTooNoisy uint16 = 0x8000
)

// volume thresholds for the level warnings
const (
	levelTooSmall = 0x0100
	levelTooLarge = 0xf000
)

// the distance above which the best candidate is not a good fit
const notFitDistance = 0x0100

// Data is the result of recognition. Answer holds the dictionary indexes of
// the candidate words, best first, and Distance their distance from what was
// heard. A smaller distance is a better match.
type Data struct {
	Warning   uint16
	AnswerNum int
	Level     uint16
	Time      uint16
	Answer    [MaxAnswers]int
	Distance  [MaxAnswers]uint16
}

// levenshtein returns the edit distance between two strings.
func levenshtein(a string, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

type candidate struct {
	index    int
	distance int
}

// match ranks the unmasked words of the dictionary against the utterance.
func match(u Utterance, words []string, masked func(int) bool) Data {
	heard := strings.ToUpper(strings.TrimSpace(u.Heard))

	var cands []candidate
	for i, w := range words {
		if masked(i) {
			continue
		}
		// scaled so that one edit is a distance of 0x80
		d := levenshtein(heard, strings.ToUpper(w)) * 0x80
		cands = append(cands, candidate{index: i, distance: d})
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return a.distance - b.distance
	})

	data := Data{
		Level: u.Level,
		Time:  u.Time,
	}
	for i := range data.Answer {
		data.Answer[i] = NoAnswer
	}
	for i := 0; i < len(cands) && i < MaxAnswers; i++ {
		data.Answer[i] = cands[i].index
		data.Distance[i] = uint16(min(cands[i].distance, 0xffff))
		data.AnswerNum++
	}

	if u.Level < levelTooSmall {
		data.Warning |= WarningTooSmall
	}
	if u.Level > levelTooLarge {
		data.Warning |= WarningTooLarge
	}
	if data.AnswerNum == 0 || data.Distance[0] > notFitDistance {
		data.Warning |= WarningNotFit
	}

	return data
}
