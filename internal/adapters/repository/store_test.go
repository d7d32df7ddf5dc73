package repository

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func storeContract(t *testing.T, name string, open func() Store) {
	ctx := context.Background()

	Convey("Given an empty "+name, t, func() {
		s := open()

		Convey("When reading an unwritten table", func() {
			rows, err := s.Read(ctx, TableRoutines, "")

			Convey("Then no rows are returned", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When writing routines", func() {
			err := s.Write(ctx, TableRoutines, []Row{
				{"id_routine": int64(1), "routine_name": "Duo", "category": "pair", "age_group": "U15"},
				{"id_routine": 2, "routine_name": "Solo", "category": "individual", "age_group": "U13"},
				{"id_routine": int64(3), "routine_name": "Gruppe", "category": "small_group", "age_group": "U15"},
			})
			So(err, ShouldBeNil)

			Convey("Then all rows read back in insertion order", func() {
				rows, err := s.Read(ctx, TableRoutines, "")
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0]["routine_name"], ShouldEqual, "Duo")
				So(rows[1]["id_routine"], ShouldEqual, int64(2))
			})

			Convey("Then filters select matching rows", func() {
				rows, err := s.Read(ctx, TableRoutines, "age_group = ? AND category = ?", "U15", "small_group")
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0]["id_routine"], ShouldEqual, int64(3))
			})

			Convey("Then a second write replaces the table", func() {
				So(s.Write(ctx, TableRoutines, []Row{{"id_routine": int64(9), "routine_name": "Neu", "category": "pair"}}), ShouldBeNil)
				rows, err := s.Read(ctx, TableRoutines, "")
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0]["id_routine"], ShouldEqual, int64(9))
				So(rows[0]["age_group"], ShouldBeNil)
			})

			Convey("Then keyed updates touch only the listed columns of matching rows", func() {
				err := s.UpdateMatching(ctx, TableRoutines, []Row{
					{"id_routine": int64(2), "category": "individual_female", "age_group": "U11", "routine_name": "ignored"},
					{"id_routine": int64(42), "category": "pair", "age_group": "15+"},
				}, []string{"id_routine"}, []string{"category", "age_group"})
				So(err, ShouldBeNil)

				rows, err := s.Read(ctx, TableRoutines, "id_routine = ?", 2)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0]["category"], ShouldEqual, "individual_female")
				So(rows[0]["age_group"], ShouldEqual, "U11")
				So(rows[0]["routine_name"], ShouldEqual, "Solo")

				all, _ := s.Read(ctx, TableRoutines, "")
				So(len(all), ShouldEqual, 3)
			})

			Convey("Then read rows are copies", func() {
				rows, _ := s.Read(ctx, TableRoutines, "")
				rows[0]["routine_name"] = "changed"
				again, _ := s.Read(ctx, TableRoutines, "")
				So(again[0]["routine_name"], ShouldEqual, "Duo")
			})
		})

		Convey("When writing score cells", func() {
			err := s.Write(ctx, TablePoints, []Row{{
				"id_routine": int64(1), "category": "pair", "age_group": "U15",
				"T1_Q": "7.5", "D3_S": "–", "T2_Q": nil, "Gesamtpunkte": 7.5,
			}})
			So(err, ShouldBeNil)

			Convey("Then text cells and the sentinel survive", func() {
				rows, err := s.Read(ctx, TablePoints, "")
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0]["T1_Q"], ShouldEqual, "7.5")
				So(rows[0]["D3_S"], ShouldEqual, "–")
				So(rows[0]["T2_Q"], ShouldBeNil)
				So(rows[0]["Gesamtpunkte"], ShouldEqual, 7.5)
				So(len(rows[0]), ShouldEqual, len(Schema()[TablePoints]))
			})
		})

		Convey("When using unknown names", func() {
			_, err := s.Read(ctx, "nope", "")
			So(err, ShouldWrap, ErrUnknownTable)

			_, err = s.Read(ctx, TableRoutines, "bogus = ?", 1)
			So(err, ShouldWrap, ErrUnknownColumn)

			err = s.Write(ctx, TableRoutines, []Row{{"id_routine": 1, "bogus": 1}})
			So(err, ShouldWrap, ErrUnknownColumn)

			err = s.UpdateMatching(ctx, TableRoutines, nil, []string{"id_routine"}, []string{"bogus"})
			So(err, ShouldWrap, ErrUnknownColumn)
		})

		Convey("When the filter is malformed", func() {
			_, err := s.Read(ctx, TableRoutines, "category LIKE ?", "p%")
			So(err, ShouldWrap, ErrInvalidFilter)

			_, err = s.Read(ctx, TableRoutines, "category = ?")
			So(err, ShouldWrap, ErrInvalidFilter)

			_, err = s.Read(ctx, TableRoutines, "", "x")
			So(err, ShouldWrap, ErrInvalidFilter)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Read(cctx, TableRoutines, "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, "memory store", func() Store { return NewMemoryStore() })
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, "sqlite store", func() Store {
		s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "scores.db"))
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })
		return s
	})

	Convey("Given a migrated database file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "scores.db")
		s, err := OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		So(s.Write(ctx, TableRiders, []Row{{"id_rider": int64(1), "name": "Anna"}}), ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		Convey("When it is reopened", func() {
			again, err := OpenSQLite(ctx, path)
			So(err, ShouldBeNil)
			defer again.Close()

			Convey("Then migrations are not re-applied and data is kept", func() {
				rows, err := again.Read(ctx, TableRiders, "")
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0]["name"], ShouldEqual, "Anna")
			})

			Convey("Then the stored schema matches the declared one", func() {
				So(again.schema, ShouldResemble, Schema())
			})
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := OpenSQLite(context.Background(), " ")
		So(err, ShouldNotBeNil)
	})
}

func TestParseFilter(t *testing.T) {
	Convey("parseFilter accepts equality conjunctions", t, func() {
		cols, err := parseFilter(`"category" = ? and age_group=?`, []any{"pair", "U15"})
		So(err, ShouldBeNil)
		So(cols, ShouldResemble, []string{"category", "age_group"})

		cols, err = parseFilter("  ", nil)
		So(err, ShouldBeNil)
		So(cols, ShouldBeNil)

		_, err = parseFilter("a = 1", []any{})
		So(err, ShouldWrap, ErrInvalidFilter)
	})
}
