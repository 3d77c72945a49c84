package lease_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/finch/internal/domain/lease"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLease(t *testing.T) {
	ctx := context.Background()

	Convey("Given an unlocked lease", t, func() {
		l := lease.New(lease.WithTTL(time.Hour))

		Convey("Acquire succeeds and hands out a token", func() {
			tok, ok := l.Acquire(ctx)
			So(ok, ShouldBeTrue)
			So(tok, ShouldNotBeEmpty)
			So(l.Held(), ShouldBeTrue)

			Convey("A second acquire is refused while held", func() {
				_, ok := l.Acquire(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("Release with the holder token unlocks", func() {
				So(l.Release(tok), ShouldBeNil)
				So(l.Held(), ShouldBeFalse)

				_, ok := l.Acquire(ctx)
				So(ok, ShouldBeTrue)
			})

			Convey("Release with a foreign token is rejected", func() {
				So(l.Release("not-the-token"), ShouldEqual, lease.ErrWrongToken)
				So(l.Held(), ShouldBeTrue)
			})
		})

		Convey("Releasing an unlocked lease reports not held", func() {
			So(l.Release("anything"), ShouldEqual, lease.ErrNotHeld)
		})

		Convey("Under contention exactly one acquirer wins", func() {
			const attempts = 64
			var wg sync.WaitGroup
			wins := make(chan lease.Token, attempts)
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if tok, ok := l.Acquire(ctx); ok {
						wins <- tok
					}
				}()
			}
			wg.Wait()
			close(wins)
			So(len(wins), ShouldEqual, 1)
		})
	})

	Convey("Given a lease with a controllable clock", t, func() {
		now := time.Now()
		var mu sync.Mutex
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		advance := func(d time.Duration) {
			mu.Lock()
			now = now.Add(d)
			mu.Unlock()
		}
		l := lease.New(lease.WithTTL(time.Minute), lease.WithClock(clock))

		Convey("An expired lease reads as unlocked and can be reacquired", func() {
			stale, ok := l.Acquire(ctx)
			So(ok, ShouldBeTrue)

			advance(2 * time.Minute)
			So(l.Held(), ShouldBeFalse)

			fresh, ok := l.Acquire(ctx)
			So(ok, ShouldBeTrue)
			So(fresh, ShouldNotEqual, stale)

			Convey("And the stale token can no longer release it", func() {
				So(l.Release(stale), ShouldEqual, lease.ErrWrongToken)
				So(l.Release(fresh), ShouldBeNil)
			})
		})
	})
}
