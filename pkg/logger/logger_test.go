package logger_test

import (
	"context"
	"testing"

	"github.com/okian/finch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Get returns a usable logger", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)
			So(func() {
				l.Info(context.Background(), "hello", logger.String("k", "v"))
			}, ShouldNotPanic)
		})

		Convey("Named and With return derived loggers", func() {
			l := logger.Named("scheduler").With(logger.String("handle", "alice"))
			So(l, ShouldNotBeNil)
			So(func() {
				l.Debug(context.Background(), "tick", logger.Int("attempt", 1))
			}, ShouldNotPanic)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the level parser", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("It accepts known levels", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", "  INFO "} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("It rejects unknown levels", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
