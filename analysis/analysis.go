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

// Package analysis computes summaries of the tables fetched by package pbdb,
// such as the temporal resolution of occurrences or taxonomic richness over
// time.
//
// The functions find their columns under either of the service vocabularies:
// the long "pbdb" names (e.g. "early_age") and the compact "com" names (e.g.
// "eag"). Ages are in millions of years (Ma) before present, so the early age
// is the larger number.
package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/paleobiodb/stats"
	"github.com/stockparfait/paleobiodb/table"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Rank of a taxon.
type Rank string

// Values of Rank supported by the analysis functions.
const (
	Species = Rank("species")
	Genus   = Rank("genus")
	Family  = Rank("family")
	Order   = Rank("order")
	Class   = Rank("class")
	Phylum  = Rank("phylum")
)

// Ranks from the lowest to the highest.
var Ranks = []Rank{Species, Genus, Family, Order, Class, Phylum}

var (
	earlyAgeColumns  = []string{"early_age", "max_ma", "eag"}
	lateAgeColumns   = []string{"late_age", "min_ma", "lag"}
	taxonNameColumns = []string{"taxon_name", "matched_name", "tna"}
	taxonRankColumns = []string{"taxon_rank", "matched_rank", "rnk"}
	rankColumns      = map[Rank][]string{
		Genus:  {"genus_name", "genus", "gnl"},
		Family: {"family", "fml"},
		Order:  {"order", "odl"},
		Class:  {"class", "cll"},
		Phylum: {"phylum", "phl"},
	}
)

// speciesRanks are the values of the rank column denoting a species, in both
// vocabularies.
var speciesRanks = []string{"species", "3"}

// ParseRank converts a string to Rank.
func ParseRank(s string) (Rank, error) {
	r := Rank(strings.ToLower(s))
	if !slices.Contains(Ranks, r) {
		return "", errors.Reason("unknown rank: %s", s)
	}
	return r, nil
}

// ages returns the early and late ages of each row.
func ages(t *table.Table) (early, late []float64, err error) {
	earlyCol := t.FirstColumn(earlyAgeColumns...)
	lateCol := t.FirstColumn(lateAgeColumns...)
	if earlyCol == "" || lateCol == "" {
		return nil, nil, errors.Reason("table has no age columns; expected one of [%s] and [%s]",
			strings.Join(earlyAgeColumns, ", "), strings.Join(lateAgeColumns, ", "))
	}
	if early, err = t.Numbers(earlyCol); err != nil {
		return nil, nil, errors.Annotate(err, "failed to read early ages")
	}
	if late, err = t.Numbers(lateCol); err != nil {
		return nil, nil, errors.Annotate(err, "failed to read late ages")
	}
	return early, late, nil
}

// validName filters out empty names and the service's placeholders such as
// "NO_FAMILY_SPECIFIED".
func validName(s string) bool {
	return s != "" && !strings.HasPrefix(s, "NO_")
}

// names returns the taxon name at the rank for each row, or "" when the row has
// no such name.
func names(t *table.Table, r Rank) ([]string, error) {
	if r != Species {
		cols, ok := rankColumns[r]
		if !ok {
			return nil, errors.Reason("unsupported rank: %s", r)
		}
		col := t.FirstColumn(cols...)
		if col == "" {
			return nil, errors.Reason("table has no %s column; expected one of [%s]",
				r, strings.Join(cols, ", "))
		}
		return t.Strings(col)
	}
	nameCol := t.FirstColumn(taxonNameColumns...)
	if nameCol == "" {
		return nil, errors.Reason("table has no taxon name column")
	}
	res, err := t.Strings(nameCol)
	if err != nil {
		return nil, err
	}
	rankCol := t.FirstColumn(taxonRankColumns...)
	if rankCol == "" {
		// Without ranks, binomial names are species.
		for i, n := range res {
			if !strings.Contains(strings.TrimSpace(n), " ") {
				res[i] = ""
			}
		}
		return res, nil
	}
	ranks, err := t.Strings(rankCol)
	if err != nil {
		return nil, err
	}
	for i := range res {
		if !slices.Contains(speciesRanks, ranks[i]) {
			res[i] = ""
		}
	}
	return res, nil
}

// TemporalResolution computes the age span (early minus late age) of every
// occurrence with both ages known.
func TemporalResolution(t *table.Table) (*stats.Sample, error) {
	early, late, err := ages(t)
	if err != nil {
		return nil, err
	}
	spans := make([]float64, len(early))
	for i := range early {
		spans[i] = early[i] - late[i] // NaN when either is missing
	}
	return stats.NewSample().Copy(spans), nil
}

// ResolutionTable summarizes the temporal resolution sample.
func ResolutionTable(s *stats.Sample) *table.Table {
	t := table.NewTable("occurrences", "min", "median", "mean", "max", "sigma", "mad")
	t.AddRow(table.Record{
		strconv.Itoa(s.Len()),
		formatAge(s.Min()),
		formatAge(s.Median()),
		formatAge(s.Mean()),
		formatAge(s.Max()),
		formatAge(s.Sigma()),
		formatAge(s.MAD()),
	})
	return t
}

func formatAge(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Range is the temporal range of a taxon.
type Range struct {
	Name        string
	Occurrences int
	Early       float64 // the oldest early age, Ma
	Late        float64 // the youngest late age, Ma
}

var _ table.Row = Range{}

// CSV implements table.Row.
func (r Range) CSV() []string {
	return []string{r.Name, strconv.Itoa(r.Occurrences), formatAge(r.Early), formatAge(r.Late)}
}

// RangeHeader is the header of the TempRange table.
func RangeHeader() []string {
	return []string{"taxon", "occurrences", "max_ma", "min_ma"}
}

// Ranges computes the temporal range of each taxon at the rank, sorted by the
// oldest first, then by name. Rows with no name at the rank or no ages are
// skipped.
func Ranges(t *table.Table, r Rank) ([]Range, error) {
	ns, err := names(t, r)
	if err != nil {
		return nil, err
	}
	early, late, err := ages(t)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*Range)
	for i, n := range ns {
		if !validName(n) || math.IsNaN(early[i]) || math.IsNaN(late[i]) {
			continue
		}
		rg, ok := m[n]
		if !ok {
			rg = &Range{Name: n, Early: early[i], Late: late[i]}
			m[n] = rg
		}
		rg.Occurrences++
		rg.Early = math.Max(rg.Early, early[i])
		rg.Late = math.Min(rg.Late, late[i])
	}
	keys := maps.Keys(m)
	slices.Sort(keys)
	res := make([]Range, len(keys))
	for i, k := range keys {
		res[i] = *m[k]
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Early > res[j].Early })
	return res, nil
}

// TempRange is Ranges as a table.
func TempRange(t *table.Table, r Rank) (*table.Table, error) {
	ranges, err := Ranges(t, r)
	if err != nil {
		return nil, err
	}
	res := table.NewTable(RangeHeader()...)
	for _, rg := range ranges {
		res.AddRow(rg)
	}
	return res, nil
}

// Subtaxa counts the distinct names at each rank. Ranks without a column in
// the table count as zero.
func Subtaxa(t *table.Table) (*table.Table, error) {
	header := make([]string, len(Ranks))
	counts := make([]string, len(Ranks))
	for i, r := range Ranks {
		header[i] = string(r)
		ns, err := names(t, r)
		if err != nil {
			counts[i] = "0"
			continue
		}
		distinct := make(map[string]struct{})
		for _, n := range ns {
			if validName(n) {
				distinct[n] = struct{}{}
			}
		}
		counts[i] = strconv.Itoa(len(distinct))
	}
	res := table.NewTable(header...)
	res.AddRow(table.Record(counts))
	return res, nil
}

// Richness counts the taxa at the rank whose temporal range overlaps each time
// bin of the given size between the ages from (older) and to (younger). Bins
// are listed from the oldest.
func Richness(t *table.Table, r Rank, from, to, step float64) (*table.Table, error) {
	if step <= 0.0 {
		return nil, errors.Reason("step=%g must be > 0", step)
	}
	if from <= to {
		return nil, errors.Reason("from=%g must be older (greater) than to=%g", from, to)
	}
	ranges, err := Ranges(t, r)
	if err != nil {
		return nil, err
	}
	res := table.NewTable("max_ma", "min_ma", "richness")
	n := int(math.Ceil((from - to) / step))
	for i := n - 1; i >= 0; i-- {
		lo := to + float64(i)*step
		hi := math.Min(lo+step, from)
		count := 0
		for _, rg := range ranges {
			if rg.Early > lo && rg.Late < hi {
				count++
			}
		}
		res.AddRow(table.Record{formatAge(hi), formatAge(lo), strconv.Itoa(count)})
	}
	return res, nil
}
