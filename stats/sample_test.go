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

package stats

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSample(t *testing.T) {
	t.Parallel()
	Convey("Sample works correctly", t, func() {
		data := []float64{1.5, 2.0, 2.5, 0.0}

		Convey("Data is correct", func() {
			So(NewSample().Init(data).Data(), ShouldResemble, data)
			So(NewSample().Init(data).Len(), ShouldEqual, 4)
		})

		Convey("Copy indeed copies data and drops NaNs", func() {
			d := []float64{1.0, math.NaN(), 2.0}
			s := NewSample().Copy(d)
			So(s.Data(), ShouldResemble, []float64{1.0, 2.0})
			d[0] = 3.0
			So(s.Data(), ShouldResemble, []float64{1.0, 2.0})
		})

		Convey("Mean", func() {
			So(NewSample().Init(data).Mean(), ShouldEqual, 1.5)
			So(NewSample().Init([]float64{2.0, 4.0}).Mean(), ShouldEqual, 3.0)
			So(NewSample().Mean(), ShouldEqual, 0.0)
		})

		Convey("MAD", func() {
			So(NewSample().Init(data).MAD(), ShouldEqual, 0.75)
			So(NewSample().Init([]float64{2.0, 4.0}).MAD(), ShouldEqual, 1.0)
			So(NewSample().MAD(), ShouldEqual, 0.0)
		})

		Convey("Variance", func() {
			So(NewSample().Init(data).Variance(), ShouldEqual, 0.875)
			So(NewSample().Init([]float64{2.0, 4.0}).Variance(), ShouldEqual, 1.0)
			So(NewSample().Variance(), ShouldEqual, 0.0)
		})

		Convey("Sigma", func() {
			So(NewSample().Init(data).Sigma(), ShouldEqual, math.Sqrt(0.875))
			So(NewSample().Init([]float64{2.0, 4.0}).Sigma(), ShouldEqual, 1.0)
			So(NewSample().Sigma(), ShouldEqual, 0.0)
		})

		Convey("Min and Max", func() {
			So(NewSample().Init(data).Min(), ShouldEqual, 0.0)
			So(NewSample().Init(data).Max(), ShouldEqual, 2.5)
			So(NewSample().Min(), ShouldEqual, 0.0)
			So(NewSample().Max(), ShouldEqual, 0.0)
		})

		Convey("Quantiles", func() {
			s := NewSample().Init([]float64{3.0, 1.0, 2.0})
			So(s.Median(), ShouldEqual, 2.0)
			So(s.Quantile(0.0), ShouldEqual, 1.0)
			So(s.Quantile(1.0), ShouldEqual, 3.0)
			So(s.Quantile(2.0), ShouldEqual, 3.0)
			So(s.Data(), ShouldResemble, []float64{3.0, 1.0, 2.0})
			So(s.Sorted(), ShouldResemble, []float64{1.0, 2.0, 3.0})
			So(NewSample().Median(), ShouldEqual, 0.0)
		})
	})
}
