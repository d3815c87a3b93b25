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

package limiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/jetsetilly/nugopher/performance/limiter"
	"github.com/jetsetilly/nugopher/test"
)

func TestPeriod(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lim := limiter.NewLimiter(ctx, 50)
	test.ExpectEquality(t, lim.Period(), 20*time.Millisecond)

	lim.SetLimit(0)
	test.ExpectEquality(t, lim.Period(), 20*time.Millisecond)

	lim.SetLimit(1000)
	test.ExpectEquality(t, lim.Period(), time.Millisecond)
}

func TestWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lim := limiter.NewLimiter(ctx, 1000)

	start := time.Now()
	for range 10 {
		test.DemandSuccess(t, lim.Wait(ctx))
	}

	// ten triggers at 1000Hz cannot arrive in much less than 9ms
	test.ExpectSuccess(t, time.Since(start) >= 8*time.Millisecond)
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lim := limiter.NewLimiter(ctx, 1)
	test.DemandSuccess(t, lim.Wait(ctx))
	cancel()

	err := lim.Wait(ctx)
	test.ExpectFailure(t, err)
}
