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

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/nugopher/curated"
)

// Measured is implemented by the scheduler.
type Measured interface {
	// the number of retraces handled so far
	RetraceCount() uint32

	// the expected number of retraces per second
	FrameRate() int
}

// Leadtime is the time allowed for the retrace rate to settle before the
// measurement starts.
var Leadtime = 2 * time.Second

// Result of a performance check.
type Result struct {
	Retraces int
	Duration time.Duration
	Rate     float64
	Accuracy float64
}

func (r Result) String() string {
	return fmt.Sprintf("%.2f rps (%d retraces in %.2f seconds) %.1f%%", r.Rate, r.Retraces, r.Duration.Seconds(), r.Accuracy)
}

// Check the rate of retraces handled by the scheduler. The scheduler must
// already be running.
//
// Measurement will run for the specified duration and will create a cpu,
// memory profile, a trace (or a combination of those) as defined by the
// Profile argument.
func Check(ctx context.Context, output io.Writer, profile Profile, m Measured, duration string) (Result, error) {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	var start, end uint32

	runner := func() error {
		select {
		case <-time.After(Leadtime):
		case <-ctx.Done():
			return ctx.Err()
		}

		start = m.RetraceCount()

		select {
		case <-time.After(dur):
		case <-ctx.Done():
			return ctx.Err()
		}

		end = m.RetraceCount()
		return nil
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	r := Result{
		Retraces: int(end - start),
		Duration: dur,
	}
	r.Rate, r.Accuracy = CalcRate(m.FrameRate(), r.Retraces, dur.Seconds())

	if output != nil {
		output.Write([]byte(r.String() + "\n"))
	}

	return r, nil
}
