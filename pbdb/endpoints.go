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
	"context"

	"github.com/stockparfait/paleobiodb/table"
)

// Endpoint of the service.
type Endpoint struct {
	Name    string // short name, e.g. "occurrences"
	Path    string // path relative to the base URL, e.g. "occs/list"
	NeedsID bool   // whether the "id" parameter is mandatory
}

// Endpoints supported by this package.
var (
	OccurrenceEndpoint     = Endpoint{"occurrence", "occs/single", true}
	OccurrencesEndpoint    = Endpoint{"occurrences", "occs/list", false}
	OccurrenceRefsEndpoint = Endpoint{"occurrence-refs", "occs/refs", false}
	CollectionEndpoint     = Endpoint{"collection", "colls/single", true}
	CollectionsEndpoint    = Endpoint{"collections", "colls/list", false}
	CollectionsGeoEndpoint = Endpoint{"collections-geo", "colls/summary", false}
	TaxonEndpoint          = Endpoint{"taxon", "taxa/single", false}
	TaxaEndpoint           = Endpoint{"taxa", "taxa/list", false}
	TaxaAutoEndpoint       = Endpoint{"taxa-auto", "taxa/auto", false}
	IntervalEndpoint       = Endpoint{"interval", "intervals/single", true}
	IntervalsEndpoint      = Endpoint{"intervals", "intervals/list", false}
	ScaleEndpoint          = Endpoint{"scale", "scales/single", true}
	ScalesEndpoint         = Endpoint{"scales", "scales/list", false}
	StrataEndpoint         = Endpoint{"strata", "strata/list", false}
	StrataAutoEndpoint     = Endpoint{"strata-auto", "strata/auto", false}
	ReferenceEndpoint      = Endpoint{"reference", "refs/single", true}
	ReferencesEndpoint     = Endpoint{"references", "refs/list", false}
	CollectionRefsEndpoint = Endpoint{"collection-refs", "colls/refs", false}
	TaxonRefsEndpoint      = Endpoint{"taxon-refs", "taxa/refs", false}
)

// Endpoints is the list of all the supported endpoints.
var Endpoints = []Endpoint{
	OccurrenceEndpoint,
	OccurrencesEndpoint,
	OccurrenceRefsEndpoint,
	CollectionEndpoint,
	CollectionsEndpoint,
	CollectionsGeoEndpoint,
	TaxonEndpoint,
	TaxaEndpoint,
	TaxaAutoEndpoint,
	IntervalEndpoint,
	IntervalsEndpoint,
	ScaleEndpoint,
	ScalesEndpoint,
	StrataEndpoint,
	StrataAutoEndpoint,
	ReferenceEndpoint,
	ReferencesEndpoint,
	CollectionRefsEndpoint,
	TaxonRefsEndpoint,
}

// LookupEndpoint finds an endpoint by its name or path.
func LookupEndpoint(nameOrPath string) (Endpoint, bool) {
	for _, e := range Endpoints {
		if e.Name == nameOrPath || e.Path == nameOrPath {
			return e, true
		}
	}
	return Endpoint{}, false
}

// WithID merges the mandatory "id" parameter into a copy of the query. It
// replaces any "id" already present, so the key is never duplicated.
func WithID(id any, q Query) Query {
	return q.With("id", Scalar(id))
}

// Call requests the endpoint with the optional id, which is required for
// endpoints with NeedsID and added to the query when not nil otherwise.
func Call(ctx context.Context, e Endpoint, id any, q Query) (*table.Table, error) {
	if id != nil {
		q = WithID(id, q)
	} else if e.NeedsID {
		if _, ok := q["id"]; !ok {
			return nil, invalidArgument("endpoint %s requires an id", e.Path)
		}
	}
	return Request(ctx, e.Path, q)
}

// Occurrence fetches a single occurrence by its id.
func Occurrence(ctx context.Context, id any, q Query) (*table.Table, error) {
	return Request(ctx, OccurrenceEndpoint.Path, WithID(id, q))
}

// Occurrences fetches the occurrences matching the query, e.g. "base_name",
// "interval", "lngmin".
func Occurrences(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, OccurrencesEndpoint.Path, q)
}

// OccurrenceRefs fetches the references of the occurrences matching the query.
func OccurrenceRefs(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, OccurrenceRefsEndpoint.Path, q)
}

// Collection fetches a single collection by its id.
func Collection(ctx context.Context, id any, q Query) (*table.Table, error) {
	return Request(ctx, CollectionEndpoint.Path, WithID(id, q))
}

// Collections fetches the collections matching the query.
func Collections(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, CollectionsEndpoint.Path, q)
}

// CollectionsGeo fetches the geographic clusters of the collections matching
// the query. The "level" parameter selects the cluster size.
func CollectionsGeo(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, CollectionsGeoEndpoint.Path, q)
}

// Taxon fetches a single taxon selected by "name" or "id" in the query.
func Taxon(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, TaxonEndpoint.Path, q)
}

// Taxa fetches the taxa matching the query.
func Taxa(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, TaxaEndpoint.Path, q)
}

// TaxaAuto fetches taxon names for autocompletion of the "name" prefix.
func TaxaAuto(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, TaxaAutoEndpoint.Path, q)
}

// Interval fetches a single geologic time interval by its id.
func Interval(ctx context.Context, id any, q Query) (*table.Table, error) {
	return Request(ctx, IntervalEndpoint.Path, WithID(id, q))
}

// Intervals fetches the time intervals matching the query.
func Intervals(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, IntervalsEndpoint.Path, q)
}

// Scale fetches a single time scale by its id.
func Scale(ctx context.Context, id any, q Query) (*table.Table, error) {
	return Request(ctx, ScaleEndpoint.Path, WithID(id, q))
}

// Scales fetches the time scales. An empty query returns all of them.
func Scales(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, ScalesEndpoint.Path, q)
}

// Strata fetches the geological strata matching the query.
func Strata(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, StrataEndpoint.Path, q)
}

// StrataAuto fetches strata names for autocompletion of the "name" prefix.
func StrataAuto(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, StrataAutoEndpoint.Path, q)
}

// Reference fetches a single bibliographic reference by its id.
func Reference(ctx context.Context, id any, q Query) (*table.Table, error) {
	return Request(ctx, ReferenceEndpoint.Path, WithID(id, q))
}

// References fetches the references matching the query.
func References(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, ReferencesEndpoint.Path, q)
}

// CollectionRefs fetches the references of the collections matching the query.
func CollectionRefs(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, CollectionRefsEndpoint.Path, q)
}

// TaxonRefs fetches the references of the taxa matching the query.
func TaxonRefs(ctx context.Context, q Query) (*table.Table, error) {
	return Request(ctx, TaxonRefsEndpoint.Path, q)
}
