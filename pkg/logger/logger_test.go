package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get and Named return loggers", func() {
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))
			So(err, ShouldNotBeNil)
		})

		Convey("When initialized with an unknown level", func() {
			err := Init(WithLevel("loud"))
			So(err, ShouldNotBeNil)
		})
	})
}

func decodeLines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		l, err := New(WithFormat("json"), WithWriter(&buf), WithLevel("info"))
		So(err, ShouldBeNil)
		ctx := WithRequestID(context.Background(), "req-1")

		Convey("When logging with fields", func() {
			l.Named("api").With(String("component", "http")).Info(ctx, "served",
				Int("status", 200), Bool("cached", false), Duration("took", time.Millisecond),
				Float64("ratio", 0.5), Error(errors.New("boom")))
			lines := decodeLines(&buf)

			Convey("Then the line carries fields, name, source and request id", func() {
				So(lines, ShouldHaveLength, 1)
				So(lines[0]["msg"], ShouldEqual, "served")
				So(lines[0]["logger"], ShouldEqual, "api")
				So(lines[0]["component"], ShouldEqual, "http")
				So(lines[0]["status"], ShouldEqual, 200.0)
				So(lines[0]["request_id"], ShouldEqual, "req-1")
				So(lines[0]["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the level", func() {
			l.Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)

			So(SetLevelString("debug"), ShouldBeNil)
			l.Debug(ctx, "shown")
			So(buf.String(), ShouldContainSubstring, "shown")
			So(SetLevelString("info"), ShouldBeNil)
		})

		Convey("When the context has no request id", func() {
			l.Warn(context.Background(), "plain")
			lines := decodeLines(&buf)
			So(lines, ShouldHaveLength, 1)
			_, ok := lines[0]["request_id"]
			So(ok, ShouldBeFalse)
			So(RequestID(context.Background()), ShouldEqual, "")
		})
	})

	Convey("Given a discarding logger", t, func() {
		So(func() { Nop().Error(context.Background(), "ignored") }, ShouldNotPanic)
	})
}
