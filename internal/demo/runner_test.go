package demo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/http/api"
	service "github.com/isabelbroeder/unicycle-score-board/internal/app"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
)

func newServer(t *testing.T, password string) *httptest.Server {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc := service.New(
		service.WithJuryPasswordHash(string(hash)),
		service.WithCompetitionDay(day),
		service.WithShuffleSeed(5),
	)
	mux := http.NewServeMux()
	srv := api.NewServer(svc, nil)
	srv.Register(context.Background(), mux)
	return httptest.NewServer(srv.Handler(mux))
}

func TestRun(t *testing.T) {
	Convey("Given a running score board", t, func() {
		ts := newServer(t, "jury")
		defer ts.Close()
		output := filepath.Join(t.TempDir(), "out", "start.csv")

		config := &Config{
			BaseURL:        ts.URL,
			JuryPassword:   "jury",
			Riders:         24,
			Seed:           3,
			InvalidRate:    0.1,
			Timeout:        5 * time.Second,
			CompetitionDay: day,
			OutputFile:     output,
		}

		Convey("When a demo competition runs", func() {
			out, err := Run(context.Background(), config, nil)

			Convey("Then every routine is reconciled, scored and verified", func() {
				So(err, ShouldBeNil)
				s := out.Stats
				So(s.Riders, ShouldEqual, 24)
				So(s.Routines, ShouldBeGreaterThan, 24)
				So(s.Skipped, ShouldEqual, 0)
				So(s.Corrections, ShouldEqual, s.Routines)
				So(s.RowsSaved, ShouldEqual, s.Routines)
				So(s.CellsDegraded, ShouldBeGreaterThan, 0)
				So(s.CellsDegraded, ShouldBeLessThan, s.CellsSubmitted)
				So(s.StartingBlocks, ShouldBeGreaterThan, 0)
			})

			Convey("Then individual routines were split by gender", func() {
				for _, c := range out.Batch.Corrections {
					So(c.NewCategory, ShouldNotEqual, model.Individual)
				}
			})

			Convey("Then the starting list was written", func() {
				data, err := os.ReadFile(output)
				So(err, ShouldBeNil)
				So(strings.HasPrefix(string(data), "Block;Startnummer;"), ShouldBeTrue)
			})
		})

		Convey("When the jury password is wrong", func() {
			config.JuryPassword = "guess"
			_, err := Run(context.Background(), config, nil)

			Convey("Then the registration is rejected", func() {
				So(errors.Is(err, ErrStatus), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "401")
			})
		})
	})
}
