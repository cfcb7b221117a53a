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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/paleobiodb/analysis"
	"github.com/stockparfait/paleobiodb/pbdb"
	"github.com/stockparfait/paleobiodb/table"

	toml "github.com/pelletier/go-toml/v2"
)

// httpClient is the transport for all requests. It may be overwritten in tests.
var httpClient = http.DefaultClient

// Params is a repeatable name=value flag.
type Params []string

var _ flag.Value = &Params{}

func (p *Params) String() string { return strings.Join(*p, " ") }

func (p *Params) Set(s string) error {
	if name, _, ok := strings.Cut(s, "="); !ok || name == "" {
		return errors.Reason("expected name=value, got '%s'", s)
	}
	*p = append(*p, s)
	return nil
}

type Flags struct {
	LogLevel logging.Level
	Config   string // optional TOML config file
	Endpoint string // required, endpoint name or path
	IDs      string // comma-separated list of ids
	Params   Params
	CSV      bool // dump CSV format; default: text.
	Rows     int  // max. rows to print; 0 = all
	Summary  string
	Rank     string
	From     float64
	To       float64
	Step     float64
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("pbdb", flag.ExitOnError)
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.StringVar(&flags.Config, "conf", "", "TOML config file")
	fs.StringVar(&flags.Endpoint, "endpoint", "", "endpoint name or path, e.g. occs/list (required)")
	fs.StringVar(&flags.IDs, "id", "", "comma-separated ids; several ids are fetched in parallel")
	fs.Var(&flags.Params, "p", "query parameter name=value; repeatable")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of rows to print; 0 = all")
	fs.StringVar(&flags.Summary, "summary", "",
		"print a summary instead of the data: resolution, subtaxa, range, richness")
	fs.StringVar(&flags.Rank, "rank", "genus", "taxonomic rank for range and richness")
	fs.Float64Var(&flags.From, "from", 0, "oldest age (Ma) for richness")
	fs.Float64Var(&flags.To, "to", 0, "youngest age (Ma) for richness")
	fs.Float64Var(&flags.Step, "step", 1, "time bin size (Ma) for richness")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Endpoint == "" {
		return nil, errors.Reason("missing required -endpoint argument")
	}
	switch flags.Summary {
	case "", "resolution", "subtaxa", "range", "richness":
	default:
		return nil, errors.Reason("unknown -summary: %s", flags.Summary)
	}
	return &flags, nil
}

// Config is the optional configuration file.
type Config struct {
	BaseURL string         `toml:"base_url"` // default: pbdb.URL
	Format  string         `toml:"format"`   // csv or tsv
	Timeout int            `toml:"timeout"`  // request timeout in seconds; 0 = none
	Params  map[string]any `toml:"params"`   // default query parameters
}

func parseConfig(path string) (*Config, error) {
	var c Config
	if path == "" {
		return &c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", path)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", path)
	}
	switch pbdb.Format(c.Format) {
	case "", pbdb.CSV, pbdb.TSV:
	default:
		return nil, errors.Reason("unsupported format: %s", c.Format)
	}
	return &c, nil
}

func newClient(c *Config) *pbdb.Client {
	hc := httpClient
	if c.Timeout > 0 {
		hc = &http.Client{
			Transport: httpClient.Transport,
			Timeout:   time.Duration(c.Timeout) * time.Second,
		}
	}
	opts := []pbdb.Option{pbdb.WithHTTPClient(hc)}
	if c.BaseURL != "" {
		opts = append(opts, pbdb.WithBaseURL(c.BaseURL))
	}
	if c.Format != "" {
		opts = append(opts, pbdb.WithFormat(pbdb.Format(c.Format)))
	}
	return pbdb.NewClient(opts...)
}

// buildQuery merges the config parameters with the command line ones, the
// latter taking precedence. A command line value with commas is a sequence.
func buildQuery(c *Config, params Params) (pbdb.Query, error) {
	q := make(pbdb.Query)
	for name, x := range c.Params {
		v, err := pbdb.ValueOf(x)
		if err != nil {
			return nil, errors.Annotate(err, "bad config parameter %s", name)
		}
		q[name] = v
	}
	for _, p := range params {
		name, value, _ := strings.Cut(p, "=")
		q[name] = pbdb.Sequence(strings.Split(value, ",")...)
	}
	return q, nil
}

type job struct {
	index int
	id    string
}

type result struct {
	index int
	table *table.Table
	err   error
}

// fetchIDs requests the endpoint for each id concurrently and concatenates the
// results in the order of ids.
func fetchIDs(ctx context.Context, e pbdb.Endpoint, ids []string, q pbdb.Query) (*table.Table, error) {
	jobs := make([]job, len(ids))
	for i, id := range ids {
		jobs[i] = job{index: i, id: id}
	}
	f := func(j job) result {
		logging.Infof(ctx, "fetching %s id=%s", e.Path, j.id)
		tbl, err := pbdb.Call(ctx, e, j.id, q)
		return result{index: j.index, table: tbl, err: err}
	}
	pm := iterator.ParallelMap(ctx, runtime.NumCPU(), iterator.FromSlice(jobs), f)
	defer pm.Close()

	results := iterator.Reduce[result, []result](pm, []result{}, func(r result, rs []result) []result {
		return append(rs, r)
	})
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	res := table.NewTable()
	for _, r := range results {
		if r.err != nil {
			return nil, errors.Annotate(r.err, "failed to fetch id=%s", ids[r.index])
		}
		if err := res.Append(r.table); err != nil {
			return nil, errors.Annotate(err, "cannot combine result for id=%s", ids[r.index])
		}
	}
	return res, nil
}

func fetchData(ctx context.Context, flags *Flags, config *Config) (*table.Table, error) {
	e, ok := pbdb.LookupEndpoint(flags.Endpoint)
	if !ok {
		return nil, errors.Reason("unknown endpoint: %s", flags.Endpoint)
	}
	q, err := buildQuery(config, flags.Params)
	if err != nil {
		return nil, errors.Annotate(err, "failed to build query")
	}
	ctx = pbdb.UseClient(ctx, newClient(config))
	var ids []string
	if flags.IDs != "" {
		ids = strings.Split(flags.IDs, ",")
	}
	if len(ids) > 1 {
		return fetchIDs(ctx, e, ids, q)
	}
	var id any
	if len(ids) == 1 {
		id = ids[0]
	}
	logging.Infof(ctx, "fetching %s", e.Path)
	return pbdb.Call(ctx, e, id, q)
}

func summarize(tbl *table.Table, flags *Flags) (*table.Table, error) {
	switch flags.Summary {
	case "resolution":
		s, err := analysis.TemporalResolution(tbl)
		if err != nil {
			return nil, err
		}
		return analysis.ResolutionTable(s), nil
	case "subtaxa":
		return analysis.Subtaxa(tbl)
	}
	rank, err := analysis.ParseRank(flags.Rank)
	if err != nil {
		return nil, err
	}
	if flags.Summary == "range" {
		return analysis.TempRange(tbl, rank)
	}
	return analysis.Richness(tbl, rank, flags.From, flags.To, flags.Step)
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	tbl, err := fetchData(ctx, flags, config)
	if err != nil {
		return errors.Annotate(err, "failed to fetch data")
	}
	logging.Infof(ctx, "fetched %d rows", len(tbl.Rows))
	if flags.Summary != "" {
		if tbl, err = summarize(tbl, flags); err != nil {
			return errors.Annotate(err, "failed to compute %s summary", flags.Summary)
		}
	}
	if len(tbl.Header) == 0 && len(tbl.Rows) == 0 {
		_, err := fmt.Fprintln(w, "no data")
		return err
	}
	p := table.Params{Rows: flags.Rows}
	if flags.CSV {
		if err := tbl.WriteCSV(w, p); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, p); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
