package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { _ = Sync() }()

		Convey("Then Get and Named return usable loggers", func() {
			So(Get(), ShouldNotBeNil)
			named := Named("scoring")
			So(named, ShouldNotBeNil)
			So(func() { named.Info(context.Background(), "test message", String("k", "v")) }, ShouldNotPanic)
		})
	})
}

func TestLoggerWriter(t *testing.T) {
	Convey("Given a logger writing into a buffer", t, func() {
		So(SetLevelString("info"), ShouldBeNil)
		var buf bytes.Buffer
		log := New(&buf).Named("assign")
		ctx := context.Background()

		Convey("When an info record with fields is written", func() {
			log.Info(ctx, "age group corrected",
				Int64("routine_id", 7),
				String("old", "U15"),
				String("new", "15+"),
				Error(errors.New("boom")),
			)

			Convey("Then the record carries the message, component and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "age group corrected")
				So(out, ShouldContainSubstring, "component=assign")
				So(out, ShouldContainSubstring, "routine_id=7")
				So(out, ShouldContainSubstring, "old=U15")
				So(out, ShouldContainSubstring, "new=15+")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("ERROR"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			log.Warn(ctx, "hidden")

			Convey("Then lower records are dropped", func() {
				So(buf.String(), ShouldBeEmpty)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}
