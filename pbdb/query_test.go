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

package pbdb

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type genus string

func (g genus) String() string { return "genus:" + string(g) }

func TestQuery(t *testing.T) {
	t.Parallel()

	Convey("Serialize works", t, func() {
		Convey("single element has no separator", func() {
			for _, x := range []any{"Canidae", 1001, int64(-3), uint8(7), 1.5, 66.0, float32(0.25), true} {
				s, err := Serialize(Sequence(x))
				So(err, ShouldBeNil)
				So(s, ShouldEqual, fmt.Sprint(x))
				s, err = Serialize(Scalar(x))
				So(err, ShouldBeNil)
				So(s, ShouldEqual, fmt.Sprint(x))
			}
		})

		Convey("multiple elements are comma-joined in order", func() {
			s, err := Serialize(Sequence("coords", "phylo", "ident"))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "coords,phylo,ident")
			s, err = Serialize(Sequence(3, 1, 2))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "3,1,2")
		})

		Convey("embedded commas pass through", func() {
			s, err := Serialize(Sequence("a,b", "c"))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "a,b,c")
		})

		Convey("Stringer scalars", func() {
			s, err := Serialize(Sequence(genus("Canis"), genus("Vulpes")))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "genus:Canis,genus:Vulpes")
		})

		Convey("non-scalars are invalid arguments", func() {
			_, err := Serialize(Scalar(map[string]int{"a": 1}))
			So(IsInvalidArgument(err), ShouldBeTrue)
			_, err = Serialize(Sequence([]string{"nested"}))
			So(IsInvalidArgument(err), ShouldBeTrue)
			_, err = Serialize(Scalar(nil))
			So(IsInvalidArgument(err), ShouldBeTrue)
		})

		Convey("nested values are invalid arguments", func() {
			_, err := Serialize(Sequence(Sequence("a", "b"), Scalar("c")))
			So(IsInvalidArgument(err), ShouldBeTrue)
			_, err = Serialize(Scalar(Scalar("a")))
			So(IsInvalidArgument(err), ShouldBeTrue)
		})

		Convey("nil pointers are invalid arguments", func() {
			var s fmt.Stringer
			var err error
			So(func() { _, err = Serialize(Scalar((*time.Time)(nil))) }, ShouldNotPanic)
			So(IsInvalidArgument(err), ShouldBeTrue)
			_, err = Serialize(Scalar((*genus)(nil)))
			So(IsInvalidArgument(err), ShouldBeTrue)
			_, err = Serialize(Sequence(s))
			So(IsInvalidArgument(err), ShouldBeTrue)
		})

		Convey("empty values are invalid arguments", func() {
			_, err := Serialize(Value{})
			So(IsInvalidArgument(err), ShouldBeTrue)
			_, err = Serialize(Sequence[string]())
			So(IsInvalidArgument(err), ShouldBeTrue)
		})
	})

	Convey("ValueOf works", t, func() {
		v, err := ValueOf([]string{"coords", "phylo"})
		So(err, ShouldBeNil)
		So(v.IsSequence(), ShouldBeTrue)
		So(v.Len(), ShouldEqual, 2)
		So(v.String(), ShouldEqual, "coords,phylo")

		v, err = ValueOf([2]int{1, 2})
		So(err, ShouldBeNil)
		So(v.String(), ShouldEqual, "1,2")

		v, err = ValueOf(42)
		So(err, ShouldBeNil)
		So(v.IsSequence(), ShouldBeFalse)
		So(v.String(), ShouldEqual, "42")

		v2, err := ValueOf(v)
		So(err, ShouldBeNil)
		So(v2, ShouldResemble, v)

		_, err = ValueOf(map[string]string{"a": "b"})
		So(IsInvalidArgument(err), ShouldBeTrue)
		_, err = ValueOf(struct{}{})
		So(IsInvalidArgument(err), ShouldBeTrue)

		v, err = ValueOf([]byte("ab"))
		So(err, ShouldBeNil)
		So(v.IsSequence(), ShouldBeFalse)
		So(v.String(), ShouldEqual, "ab")
		So(Value{}.String(), ShouldEqual, "<invalid>")
	})

	Convey("Query methods work", t, func() {
		q := Query{"base_name": Scalar("Canidae"), "show": Sequence("coords", "phylo")}

		Convey("Serialize", func() {
			v, err := q.Serialize()
			So(err, ShouldBeNil)
			So(v, ShouldResemble, url.Values{
				"base_name": {"Canidae"},
				"show":      {"coords,phylo"},
			})
		})

		Convey("Serialize names the bad parameter", func() {
			_, err := q.With("limit", Value{}).Serialize()
			So(IsInvalidArgument(err), ShouldBeTrue)
			So(strings.Contains(err.Error(), `"limit"`), ShouldBeTrue)
			_, err = Query{"": Scalar(1)}.Serialize()
			So(IsInvalidArgument(err), ShouldBeTrue)
		})

		Convey("With does not modify the original", func() {
			q2 := q.With("limit", Scalar("all"))
			So(len(q), ShouldEqual, 2)
			So(len(q2), ShouldEqual, 3)
		})

		Convey("nil query serializes to nothing", func() {
			v, err := Query(nil).Serialize()
			So(err, ShouldBeNil)
			So(len(v), ShouldEqual, 0)
		})
	})
}
