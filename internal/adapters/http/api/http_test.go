package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/finch/internal/adapters/http/api"
	"github.com/okian/finch/internal/adapters/repository"
	"github.com/okian/finch/internal/domain/status"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps scripts the service behavior behind the handler.
type fakeDeps struct {
	record      *repository.User
	lookupErr   error
	state       status.State
	enqueueOK   bool
	enqueued    []string
	postEnqueue status.State
}

func (f *fakeDeps) Lookup(ctx context.Context, handle string) (*repository.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.record == nil {
		return nil, repository.ErrNotFound
	}
	return f.record, nil
}

func (f *fakeDeps) QueueStatus(ctx context.Context, handle string) status.State {
	if len(f.enqueued) > 0 {
		return f.postEnqueue
	}
	return f.state
}

func (f *fakeDeps) Enqueue(ctx context.Context, handle string) bool {
	f.enqueued = append(f.enqueued, handle)
	return f.enqueueOK
}

func doScore(deps api.Dependencies, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)

	req := httptest.NewRequest(http.MethodGet, "/score", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out
}

func TestHandleGetScore(t *testing.T) {
	Convey("Given the score endpoint", t, func() {
		Convey("A missing handle is a validation error", func() {
			for _, body := range []string{``, `{}`, `{"screen_name":""}`, `{"screen_name":"   "}`} {
				rec := doScore(&fakeDeps{}, body)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeBody(rec)["error"], ShouldEqual, "screen_name is required")
			}
		})

		Convey("A cached record is returned immediately without enqueueing", func() {
			deps := &fakeDeps{record: &repository.User{
				ID:        42,
				Username:  "alice",
				Score:     5,
				CreatedAt: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			}}
			rec := doScore(deps, `{"screen_name":"alice"}`)

			So(rec.Code, ShouldEqual, http.StatusOK)
			body := decodeBody(rec)
			So(body["ID"], ShouldEqual, 42)
			So(body["Username"], ShouldEqual, "alice")
			So(body["Score"], ShouldEqual, 5)
			So(body, ShouldContainKey, "CreatedAt")
			So(body, ShouldContainKey, "UpdatedAt")
			So(deps.enqueued, ShouldBeEmpty)
		})

		Convey("An in-flight handle is rejected without a duplicate enqueue", func() {
			for _, st := range []status.State{status.Queued, status.Running} {
				deps := &fakeDeps{state: st}
				rec := doScore(deps, `{"screen_name":"alice"}`)
				So(rec.Code, ShouldEqual, http.StatusConflict)
				So(decodeBody(rec)["error"], ShouldEqual, "User is already queued for scoring")
				So(deps.enqueued, ShouldBeEmpty)
			}
		})

		Convey("A fresh handle is admitted and acknowledged", func() {
			deps := &fakeDeps{enqueueOK: true}
			rec := doScore(deps, `{"screen_name":"alice"}`)

			So(rec.Code, ShouldEqual, http.StatusAccepted)
			So(decodeBody(rec)["score"], ShouldEqual, "queued")
			So(deps.enqueued, ShouldResemble, []string{"alice"})
		})

		Convey("A failed handle may be admitted again", func() {
			deps := &fakeDeps{state: status.Failed, enqueueOK: true}
			rec := doScore(deps, `{"screen_name":"alice"}`)
			So(rec.Code, ShouldEqual, http.StatusAccepted)
		})

		Convey("Losing the admission race reads as already queued", func() {
			deps := &fakeDeps{enqueueOK: false, postEnqueue: status.Running}
			rec := doScore(deps, `{"screen_name":"alice"}`)
			So(rec.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("A saturated queue surfaces as a transient error", func() {
			deps := &fakeDeps{enqueueOK: false, postEnqueue: status.Absent}
			rec := doScore(deps, `{"screen_name":"alice"}`)
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("A store outage surfaces as a transient error", func() {
			deps := &fakeDeps{lookupErr: errors.New("connection refused")}
			rec := doScore(deps, `{"screen_name":"alice"}`)
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(deps.enqueued, ShouldBeEmpty)
		})

		Convey("Other methods are not found", func() {
			mux := http.NewServeMux()
			api.NewServer(&fakeDeps{}).Register(context.Background(), mux)
			req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(`{"screen_name":"alice"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleHealth(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		mux := http.NewServeMux()
		api.NewServer(&fakeDeps{}).Register(context.Background(), mux)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		Convey("It serves the metrics registry", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
