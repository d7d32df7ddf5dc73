package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// counterValue sums every series of the named family in the registry.
func counterValue(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then metric names use the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.correctionsApplied.Inc()
				So(counterValue(registry, "unicycle_scoreboard_corrections_applied_total"), ShouldEqual, 1)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("board"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and constant labels follow the options", func() {
				manager.degradedCells.WithLabelValues("T").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, mf := range families {
					if mf.GetName() != "test_board_degraded_cells_total" {
						continue
					}
					found = true
					labels := map[string]string{}
					for _, lp := range mf.GetMetric()[0].GetLabel() {
						labels[lp.GetName()] = lp.GetValue()
					}
					So(labels["env"], ShouldEqual, "test")
					So(labels["domain"], ShouldEqual, "T")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "unicycle")
				So(manager.subsystem, ShouldEqual, "scoreboard")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the caller mutates bucket and label inputs afterwards", func() {
			buckets := []float64{1, 2, 3}
			labels := map[string]string{"competition": "Kreismeisterschaft"}
			manager := NewManager(
				WithHistogramBuckets(buckets),
				WithCustomLabels(labels),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)
			buckets[0] = 99
			labels["competition"] = "changed"

			Convey("Then the manager keeps its own copies", func() {
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2, 3})
				So(manager.customLabels, ShouldResemble, map[string]string{"competition": "Kreismeisterschaft"})
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		reg := GetRegistry()

		Convey("When recording scoring metrics", func() {
			before := counterValue(reg, "unicycle_scoreboard_score_saves_total")
			RecordScoreSave("pair", "ok", 3)
			RecordDegradedCell("D")
			RecordCohortNormalized()
			RecordScoringError()
			UpdateRoutineCount(12)
			UpdateRiderCount(20)
			RecordStartingOrder()

			Convey("Then the counters advance", func() {
				So(counterValue(reg, "unicycle_scoreboard_score_saves_total"), ShouldEqual, before+1)
				So(counterValue(reg, "unicycle_scoreboard_degraded_cells_total"), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording reconcile, storage and HTTP metrics", func() {
			before := counterValue(reg, "unicycle_scoreboard_storage_errors_total")
			So(func() {
				RecordCorrectionApplied()
				RecordCorrectionSkipped()
				RecordStorageOperation("read", "points", 1.5)
				RecordStorageError("read", "points")
				RecordHTTPRequest("/scores", "GET", "200")
				RecordHTTPRequestDuration("/scores", "GET", "200", 12)
				RecordAuthFailure()
			}, ShouldNotPanic)

			Convey("Then storage errors are counted", func() {
				So(counterValue(reg, "unicycle_scoreboard_storage_errors_total"), ShouldEqual, before+1)
			})
		})
	})
}
