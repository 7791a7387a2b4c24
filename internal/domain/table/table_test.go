package table_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/idrees11/gnn-topology-ablation/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecode(t *testing.T) {
	Convey("Given delimited text", t, func() {
		Convey("When the input is comma separated with messy headers", func() {
			f, err := table.Decode(strings.NewReader(" Graph_Index , LABEL \n1,0\n2,1\n"))

			Convey("Then columns are trimmed and lower-cased", func() {
				So(err, ShouldBeNil)
				So(f.Columns, ShouldResemble, []string{"graph_index", "label"})
				So(f.Len(), ShouldEqual, 2)
				So(f.Cell(1, "label"), ShouldEqual, "1")
			})
		})

		Convey("When the input is tab separated", func() {
			f, err := table.Decode(strings.NewReader("id\ttarget\n7\t2\n"))

			Convey("Then the tab delimiter is detected", func() {
				So(err, ShouldBeNil)
				So(f.Has("id"), ShouldBeTrue)
				So(f.Has("target"), ShouldBeTrue)
				So(f.Cell(0, "target"), ShouldEqual, "2")
			})
		})

		Convey("When the header starts with a byte order mark", func() {
			f, err := table.Decode(strings.NewReader("\ufeffid,label\n1,0\n"))

			Convey("Then the first column is still recognized", func() {
				So(err, ShouldBeNil)
				So(f.Has("id"), ShouldBeTrue)
			})
		})

		Convey("When a record is shorter than the header", func() {
			f, err := table.Decode(strings.NewReader("id,label\n1\n"))

			Convey("Then missing cells read as empty", func() {
				So(err, ShouldBeNil)
				So(f.Cell(0, "label"), ShouldEqual, "")
				So(f.Cell(0, "nope"), ShouldEqual, "")
			})
		})

		Convey("When the input is empty", func() {
			_, err := table.Decode(strings.NewReader(""))

			Convey("Then ErrEmpty is returned", func() {
				So(errors.Is(err, table.ErrEmpty), ShouldBeTrue)
			})
		})
	})
}

func TestSniffDelimiter(t *testing.T) {
	Convey("Given header lines", t, func() {
		So(table.SniffDelimiter([]byte("a,b,c\n1\t2\t3\t4")), ShouldEqual, ',')
		So(table.SniffDelimiter([]byte("a\tb\n")), ShouldEqual, '\t')
		So(table.SniffDelimiter([]byte("single")), ShouldEqual, ',')
	})
}

func TestParseKey(t *testing.T) {
	Convey("Given key cells", t, func() {
		cases := []struct {
			in   string
			want int64
			ok   bool
		}{
			{"12", 12, true},
			{" 7 ", 7, true},
			{"3.0", 3, true},
			{"-4", -4, true},
			{"3.5", 0, false},
			{"abc", 0, false},
			{"", 0, false},
			{"NaN", 0, false},
			{"inf", 0, false},
			{"9223372036854775807", math.MaxInt64, true},
			{"9223372036854775808", 0, false},
			{"9.3e18", 0, false},
			{"-9223372036854775808", math.MinInt64, true},
			{"-9.3e18", 0, false},
		}
		for _, c := range cases {
			got, ok := table.ParseKey(c.in)
			So(ok, ShouldEqual, c.ok)
			So(got, ShouldEqual, c.want)
		}
	})
}

func TestCanonicalClass(t *testing.T) {
	Convey("Given class cells", t, func() {
		So(table.CanonicalClass("1"), ShouldEqual, "1")
		So(table.CanonicalClass("1.0"), ShouldEqual, "1")
		So(table.CanonicalClass(" 2 "), ShouldEqual, "2")
		So(table.CanonicalClass("cat"), ShouldEqual, "cat")
		So(table.CanonicalClass("0.5"), ShouldEqual, "0.5")
		So(table.CanonicalClass("  "), ShouldEqual, "")
	})
}

func TestKeyed(t *testing.T) {
	Convey("Given a labeled frame with some bad rows", t, func() {
		f, err := table.Decode(strings.NewReader("graph_index,id,label\n1,10,0\nx,11,1\n2,12,\n2,13,1.0\n"))
		So(err, ShouldBeNil)
		l := table.Labeled{Frame: f, Class: "label", Keys: f.KeysPresent()}

		Convey("When keying by graph_index", func() {
			rows, c := l.Keyed(table.KeyGraphIndex)

			Convey("Then bad keys and blank classes are dropped and duplicates kept", func() {
				So(rows, ShouldResemble, []table.Row{{Key: 1, Class: "0"}, {Key: 2, Class: "1"}})
				So(c.BadKeys, ShouldEqual, 1)
				So(c.EmptyClass, ShouldEqual, 1)
				So(c.Dropped(), ShouldEqual, 2)
			})
		})

		Convey("When picking a shared key", func() {
			other := table.Labeled{Keys: []string{table.KeyID}}

			key, ok := table.SharedKey(l, other)

			Convey("Then id is used when graph_index is not on both sides", func() {
				So(ok, ShouldBeTrue)
				So(key, ShouldEqual, table.KeyID)
			})
		})

		Convey("When the tables share no key", func() {
			_, ok := table.SharedKey(table.Labeled{Keys: []string{table.KeyGraphIndex}}, table.Labeled{Keys: []string{table.KeyID}})

			Convey("Then no key is found", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
