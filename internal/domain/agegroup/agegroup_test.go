package agegroup_test

import (
	"errors"
	"testing"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/agegroup"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateAge(t *testing.T) {
	Convey("Given birth dates and competition days", t, func() {
		Convey("When the birthday month has or has not passed", func() {
			So(agegroup.CalculateAge(date(2002, 2, 24), date(2025, 4, 20)), ShouldEqual, 23)
			So(agegroup.CalculateAge(date(2002, 8, 24), date(2025, 4, 20)), ShouldEqual, 22)
		})

		Convey("When the birthday is in the competition month", func() {
			So(agegroup.CalculateAge(date(2003, 5, 1), date(2025, 5, 12)), ShouldEqual, 22)
			So(agegroup.CalculateAge(date(2003, 5, 20), date(2025, 5, 12)), ShouldEqual, 21)
		})

		Convey("When the birthday is the competition day", func() {
			So(agegroup.CalculateAge(date(2004, 6, 27), date(2025, 6, 27)), ShouldEqual, 21)
		})

		Convey("When the reference date moves forward", func() {
			dob := date(2010, 3, 15)
			prev := agegroup.CalculateAge(dob, date(2020, 1, 1))
			for d := date(2020, 1, 1); d.Before(date(2024, 1, 1)); d = d.AddDate(0, 0, 9) {
				age := agegroup.CalculateAge(dob, d)
				So(age, ShouldBeGreaterThanOrEqualTo, prev)
				prev = age
			}
		})

		Convey("When born on the same month and day in an earlier year", func() {
			for _, y := range []int{1990, 2000, 2011, 2019} {
				So(agegroup.CalculateAge(date(y, 11, 3), date(2025, 11, 3)), ShouldEqual, 2025-y)
			}
		})

		Convey("When born on February 29th", func() {
			So(agegroup.CalculateAge(date(2008, 2, 29), date(2025, 2, 28)), ShouldEqual, 16)
			So(agegroup.CalculateAge(date(2008, 2, 29), date(2025, 3, 1)), ShouldEqual, 17)
		})
	})
}

func TestAssignBracket(t *testing.T) {
	Convey("Given the brackets U13, U15, 15+", t, func() {
		labels := []string{"U13", "U15", "15+"}
		for age, want := range map[int]string{0: "U13", 12: "U13", 13: "U15", 14: "U15", 15: "15+", 16: "15+", 60: "15+"} {
			got, err := agegroup.AssignBracket(age, labels)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}
	})

	Convey("Given non-contiguous brackets", t, func() {
		labels := []string{"U11", "U15", "21+", "30+"}

		Convey("Then a gap falls back to the first label", func() {
			got, _ := agegroup.AssignBracket(17, labels)
			So(got, ShouldEqual, "U11")
		})

		Convey("Then the first matching open bracket wins", func() {
			got, _ := agegroup.AssignBracket(35, labels)
			So(got, ShouldEqual, "21+")
			got, _ = agegroup.AssignBracket(12, labels)
			So(got, ShouldEqual, "U15")
		})
	})

	Convey("Given no brackets", t, func() {
		_, err := agegroup.AssignBracket(12, nil)
		So(errors.Is(err, agegroup.ErrEmptyBrackets), ShouldBeTrue)
	})
}

func TestClassifier(t *testing.T) {
	Convey("Given the default classifier", t, func() {
		c, err := agegroup.NewClassifier(agegroup.DefaultBrackets())
		So(err, ShouldBeNil)

		Convey("When a pair's riders are 12 and 15", func() {
			got, err := c.AssignRoutine(model.Pair, []int{12, 15})

			Convey("Then the oldest rider decides", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, "15+")
			})
		})

		Convey("When a routine has no riders", func() {
			_, err := c.AssignRoutine(model.Pair, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("Then seniority follows configuration order", func() {
			So(c.Seniority(model.SmallGroup, "15+"), ShouldBeGreaterThan, c.Seniority(model.SmallGroup, "U15"))
			So(c.Seniority(model.SmallGroup, "U11"), ShouldEqual, -1)
			So(c.Contains(model.Pair, "U13"), ShouldBeTrue)
			So(c.Contains(model.SmallGroup, "U13"), ShouldBeFalse)
		})

		Convey("Then Labels returns a copy", func() {
			labels, _ := c.Labels(model.Pair)
			labels[0] = "U99"
			again, _ := c.Labels(model.Pair)
			So(again[0], ShouldEqual, "U13")
		})
	})

	Convey("Given invalid bracket tables", t, func() {
		Convey("When a category is empty", func() {
			b := agegroup.DefaultBrackets()
			b[model.Pair] = nil
			_, err := agegroup.NewClassifier(b)
			So(errors.Is(err, agegroup.ErrEmptyBrackets), ShouldBeTrue)
		})

		Convey("When a category is missing", func() {
			b := agegroup.DefaultBrackets()
			delete(b, model.LargeGroup)
			_, err := agegroup.NewClassifier(b)
			So(errors.Is(err, agegroup.ErrUnknownCategory), ShouldBeTrue)
		})

		Convey("When a label is malformed", func() {
			b := agegroup.DefaultBrackets()
			b[model.Pair] = []string{"U13", "Erwachsene"}
			_, err := agegroup.NewClassifier(b)
			So(errors.Is(err, agegroup.ErrInvalidBracket), ShouldBeTrue)
		})

		Convey("When a label carries a sign or no number", func() {
			for _, l := range []string{"U-3", "U+13", "+15+", "-1+", "U", "+", "U 13"} {
				b := agegroup.DefaultBrackets()
				b[model.Pair] = []string{"U13", l}
				_, err := agegroup.NewClassifier(b)
				So(errors.Is(err, agegroup.ErrInvalidBracket), ShouldBeTrue)
			}
		})

		Convey("When labels use leading zeros", func() {
			b := agegroup.DefaultBrackets()
			b[model.Pair] = []string{"U09", "09+"}
			c, err := agegroup.NewClassifier(b)
			So(err, ShouldBeNil)
			label, err := c.Assign(model.Pair, 8)
			So(err, ShouldBeNil)
			So(label, ShouldEqual, "U09")
		})
	})
}
