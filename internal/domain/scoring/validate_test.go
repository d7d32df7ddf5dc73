package scoring_test

import (
	"testing"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func col(name string) panel.Column {
	c, ok := panel.ParseColumn(name)
	if !ok {
		panic("bad column " + name)
	}
	return c
}

func TestValidateAndClamp_Boundaries(t *testing.T) {
	Convey("Given a small group routine", t, func() {
		cat := model.SmallGroup

		Convey("When technique and presentation values hit the bound", func() {
			Convey("Then 10 is accepted and 10.0001 becomes missing", func() {
				So(scoring.ValidateAndClamp(cat, col("T1_Q"), "10"), ShouldResemble, scoring.NumberCell(10))
				So(scoring.ValidateAndClamp(cat, col("T1_Q"), "10.0001").Kind, ShouldEqual, scoring.Missing)
				So(scoring.ValidateAndClamp(cat, col("P4_I"), "0"), ShouldResemble, scoring.NumberCell(0))
				So(scoring.ValidateAndClamp(cat, col("P2_C"), "7,5"), ShouldResemble, scoring.NumberCell(7.5))
			})
		})

		Convey("When dismount values hit the bound", func() {
			Convey("Then 999 is accepted and 1000 becomes missing", func() {
				So(scoring.ValidateAndClamp(cat, col("D3_S"), "999"), ShouldResemble, scoring.NumberCell(999))
				So(scoring.ValidateAndClamp(cat, col("D3_S"), "1000").Kind, ShouldEqual, scoring.Missing)
			})

			Convey("And non-integral counts become missing", func() {
				So(scoring.ValidateAndClamp(cat, col("D1_L"), "2.5").Kind, ShouldEqual, scoring.Missing)
				So(scoring.ValidateAndClamp(cat, col("D1_L"), "2.0"), ShouldResemble, scoring.NumberCell(2))
			})
		})

		Convey("When a value is negative", func() {
			Convey("Then every domain rejects it", func() {
				for _, name := range []string{"T1_M", "P3_P", "D2_N", "D4_S"} {
					So(scoring.ValidateAndClamp(cat, col(name), "-1").Kind, ShouldEqual, scoring.Missing)
				}
			})
		})

		Convey("When a value cannot be parsed", func() {
			Convey("Then the cell is missing, not zero", func() {
				for _, raw := range []string{"", "abc", "NaN", "Inf", "-", "7 Punkte"} {
					So(scoring.ValidateAndClamp(cat, col("T2_D"), raw).Kind, ShouldEqual, scoring.Missing)
				}
			})
		})

		Convey("When a value is written in non-decimal notation", func() {
			Convey("Then hex floats and digit separators become missing", func() {
				for _, raw := range []string{"0x1p3", "0X10", "-0x1", "0x1.8p1", "1_0", "0b1"} {
					So(scoring.ValidateAndClamp(cat, col("T1_Q"), raw).Kind, ShouldEqual, scoring.Missing)
					So(scoring.ValidateAndClamp(cat, col("D1_S"), raw).Kind, ShouldEqual, scoring.Missing)
				}
			})

			Convey("And plain decimal forms still parse", func() {
				So(scoring.ValidateAndClamp(cat, col("T1_Q"), "1e1"), ShouldResemble, scoring.NumberCell(10))
				So(scoring.ValidateAndClamp(cat, col("T1_Q"), ".5"), ShouldResemble, scoring.NumberCell(0.5))
				So(scoring.ValidateAndClamp(cat, col("T1_Q"), "+8"), ShouldResemble, scoring.NumberCell(8))
				So(scoring.ValidateAndClamp(cat, col("D1_S"), "08"), ShouldResemble, scoring.NumberCell(8))
			})
		})

		Convey("When the sentinel is submitted", func() {
			Convey("Then it passes through", func() {
				So(scoring.ValidateAndClamp(cat, col("T2_D"), scoring.Sentinel).Kind, ShouldEqual, scoring.NotApplicable)
				So(scoring.ValidateAndClamp(cat, col("D4_N"), " – ").Kind, ShouldEqual, scoring.NotApplicable)
			})
		})
	})
}

func TestValidateAndClamp_LockedDismountJudges(t *testing.T) {
	Convey("Given categories judged by two dismount judges", t, func() {
		categories := []model.Category{model.IndividualFemale, model.IndividualMale, model.Individual, model.Pair}
		inputs := []string{"3", "0", "", "abc", "-4", scoring.Sentinel, "1000"}

		Convey("Then D3 and D4 cells are always the sentinel", func() {
			for _, cat := range categories {
				for _, name := range []string{"D3_S", "D3_L", "D3_N", "D4_S", "D4_L", "D4_N"} {
					for _, raw := range inputs {
						So(scoring.ValidateAndClamp(cat, col(name), raw).Kind, ShouldEqual, scoring.NotApplicable)
					}
				}
			}
		})

		Convey("And D1 and D2 stay editable", func() {
			So(scoring.ValidateAndClamp(model.Pair, col("D2_S"), "3"), ShouldResemble, scoring.NumberCell(3))
		})
	})

	Convey("Given a large group", t, func() {
		Convey("Then D3 and D4 accept counts", func() {
			So(scoring.ValidateAndClamp(model.LargeGroup, col("D4_L"), "1"), ShouldResemble, scoring.NumberCell(1))
		})
	})
}

func TestValidateAndClamp_Idempotent(t *testing.T) {
	Convey("Given already clamped cells", t, func() {
		inputs := []string{"0", "10", "9.75", "10.0001", "-1", "abc", "", scoring.Sentinel, "999", "1000", "3.5", "1e1", "-0", "0.1"}
		columns := []string{"T1_Q", "P2_C", "D1_S", "D3_L"}
		categories := []model.Category{model.Pair, model.SmallGroup, model.IndividualMale}

		Convey("Then clamping their stored text again is a fixed point", func() {
			for _, cat := range categories {
				for _, name := range columns {
					for _, raw := range inputs {
						once := scoring.ValidateAndClamp(cat, col(name), raw)
						twice := scoring.ValidateAndClamp(cat, col(name), once.String())
						So(twice, ShouldResemble, once)
					}
				}
			}
		})
	})
}

func TestRawString(t *testing.T) {
	Convey("Given values decoded from storage or JSON", t, func() {
		So(scoring.RawString(nil), ShouldEqual, "")
		So(scoring.RawString(8.5), ShouldEqual, "8.5")
		So(scoring.RawString(int64(3)), ShouldEqual, "3")
		So(scoring.RawString([]byte("7")), ShouldEqual, "7")
		So(scoring.RawString(scoring.NumberCell(2)), ShouldEqual, "2")
		So(scoring.RawString(scoring.SentinelCell()), ShouldEqual, scoring.Sentinel)
	})
}
