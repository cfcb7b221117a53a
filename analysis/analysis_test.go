// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analysis

import (
	"strings"
	"testing"

	"github.com/stockparfait/paleobiodb/table"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

const occurrences = `occurrence_no,taxon_name,taxon_rank,genus_name,family,order,class,phylum,early_age,late_age
1,Canis lupus,species,Canis,Canidae,Carnivora,Mammalia,Chordata,0.781,0.0117
2,Canis dirus,species,Canis,Canidae,Carnivora,Mammalia,Chordata,0.3,0.0117
3,Canis,genus,Canis,Canidae,Carnivora,Mammalia,Chordata,5.333,2.588
4,Ursus arctos,species,Ursus,Ursidae,Carnivora,Mammalia,Chordata,0.5,0
5,Hesperocyon,genus,Hesperocyon,Canidae,Carnivora,Mammalia,Chordata,40,33.9
6,Unknown,unranked,,NO_FAMILY_SPECIFIED,Carnivora,Mammalia,Chordata,,
`

// compact is the same data in the "com" vocabulary, with fewer columns.
const compact = `oid,tna,rnk,gnl,fml,eag,lag
1,Canis lupus,3,Canis,Canidae,0.781,0.0117
2,Ursus arctos,3,Ursus,Ursidae,0.5,0
`

func readTable(s string) *table.Table {
	t, err := table.ReadDelimited(strings.NewReader(s), ',')
	if err != nil {
		panic(err)
	}
	return t
}

func TestAnalysis(t *testing.T) {
	t.Parallel()

	Convey("ParseRank works", t, func() {
		r, err := ParseRank("Genus")
		So(err, ShouldBeNil)
		So(r, ShouldEqual, Genus)
		_, err = ParseRank("kingdom")
		So(err, ShouldNotBeNil)
	})

	Convey("TemporalResolution works", t, func() {
		s, err := TemporalResolution(readTable(occurrences))
		So(err, ShouldBeNil)
		So(s.Len(), ShouldEqual, 5)
		So(testutil.Round(s.Min(), 4), ShouldEqual, 0.2883)
		So(testutil.Round(s.Max(), 3), ShouldEqual, 6.1)
		So(testutil.Round(s.Median(), 3), ShouldEqual, 0.769)
		So(testutil.Round(s.MAD(), 4), ShouldEqual, 1.874)

		tbl := ResolutionTable(s)
		So(tbl.Header, ShouldResemble,
			[]string{"occurrences", "min", "median", "mean", "max", "sigma", "mad"})
		So(tbl.Rows[0].CSV()[0], ShouldEqual, "5")
		So(len(tbl.Rows[0].CSV()), ShouldEqual, 7)

		Convey("in the compact vocabulary", func() {
			s, err := TemporalResolution(readTable(compact))
			So(err, ShouldBeNil)
			So(s.Len(), ShouldEqual, 2)
			So(s.Max(), ShouldEqual, 0.5)
		})

		Convey("without ages", func() {
			_, err := TemporalResolution(readTable("a,b\n1,2\n"))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("TempRange works", t, func() {
		Convey("for genera", func() {
			tbl, err := TempRange(readTable(occurrences), Genus)
			So(err, ShouldBeNil)
			So(tbl.Header, ShouldResemble, RangeHeader())
			So(tbl.Rows, ShouldResemble, []table.Row{
				Range{Name: "Hesperocyon", Occurrences: 1, Early: 40, Late: 33.9},
				Range{Name: "Canis", Occurrences: 3, Early: 5.333, Late: 0.0117},
				Range{Name: "Ursus", Occurrences: 1, Early: 0.5, Late: 0},
			})
			So(tbl.Rows[1].CSV(), ShouldResemble, []string{"Canis", "3", "5.333", "0.0117"})
		})

		Convey("for species", func() {
			ranges, err := Ranges(readTable(occurrences), Species)
			So(err, ShouldBeNil)
			So(len(ranges), ShouldEqual, 3)
			So(ranges[0].Name, ShouldEqual, "Canis lupus")
			So(ranges[1].Name, ShouldEqual, "Ursus arctos")
			So(ranges[2].Name, ShouldEqual, "Canis dirus")
		})

		Convey("for species in the compact vocabulary", func() {
			ranges, err := Ranges(readTable(compact), Species)
			So(err, ShouldBeNil)
			So(len(ranges), ShouldEqual, 2)
		})

		Convey("with a missing rank column", func() {
			_, err := TempRange(readTable(compact), Phylum)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Subtaxa works", t, func() {
		tbl, err := Subtaxa(readTable(occurrences))
		So(err, ShouldBeNil)
		So(tbl.Header, ShouldResemble,
			[]string{"species", "genus", "family", "order", "class", "phylum"})
		So(tbl.Rows, ShouldResemble, []table.Row{
			table.Record{"3", "3", "2", "1", "1", "1"},
		})

		tbl, err = Subtaxa(readTable(compact))
		So(err, ShouldBeNil)
		So(tbl.Rows, ShouldResemble, []table.Row{
			table.Record{"2", "2", "2", "0", "0", "0"},
		})
	})

	Convey("Richness works", t, func() {
		tbl, err := Richness(readTable(occurrences), Genus, 10, 0, 2.5)
		So(err, ShouldBeNil)
		So(tbl.Header, ShouldResemble, []string{"max_ma", "min_ma", "richness"})
		So(tbl.Rows, ShouldResemble, []table.Row{
			table.Record{"10", "7.5", "0"},
			table.Record{"7.5", "5", "1"},
			table.Record{"5", "2.5", "1"},
			table.Record{"2.5", "0", "2"},
		})

		_, err = Richness(readTable(occurrences), Genus, 0, 10, 1)
		So(err, ShouldNotBeNil)
		_, err = Richness(readTable(occurrences), Genus, 10, 0, 0)
		So(err, ShouldNotBeNil)
	})
}
