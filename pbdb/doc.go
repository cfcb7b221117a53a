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

// Package pbdb implements a client for the Paleobiology Database (PBDB) data
// service, version 1.1.
//
// Official documentation is at https://paleobiodb.org/data1.1/ .
//
// Each API endpoint, such as "occs/list" or "taxa/single", is exposed as a
// function which takes a Query of named filter parameters and returns the
// response as a table.Table. A parameter value is either a single scalar or a
// sequence of scalars; the latter is sent as a comma-separated list, which is
// the convention of the service:
//
//   tbl, err := pbdb.Occurrences(ctx, pbdb.Query{
//     "base_name": pbdb.Scalar("Canidae"),
//     "show":      pbdb.Sequence("coords", "phylo", "ident"),
//   })
//
// The package holds no state between calls. A Client only carries the base URL,
// the response format and the HTTP client, and it is injected into the context
// with UseClient. Without a client in the context, the default service URL and
// http.DefaultClient are used.
//
// All failures are returned as *Error, whose Kind tells apart invalid
// parameters, transport failures, errors reported by the service and
// undecodable responses.
package pbdb
