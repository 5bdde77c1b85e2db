package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/liquers-go/liquers/pkg/asset"
	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/corelib"
	"github.com/liquers-go/liquers/pkg/interp"
	"github.com/liquers-go/liquers/pkg/logging"
	"github.com/liquers-go/liquers/pkg/metric"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/recipe/yamlprovider"
	"github.com/liquers-go/liquers/pkg/store/dirload"
	"github.com/liquers-go/liquers/pkg/store/memstore"
	"github.com/liquers-go/liquers/pkg/value/simple"
	"github.com/liquers-go/liquers/tracing"
)

// EvaluateCommand implements "liquers evaluate": load a directory of
// fixture resources and recipes.yaml files into an in-memory store,
// build a command registry out of the built-in command library,
// evaluate one query against it, and print the resulting value and
// metadata.
type EvaluateCommand struct {
	Root        string         `long:"root" description:"Directory to load as the backing store" required:"true"`
	MetricsAddr string         `long:"metrics-addr" description:"If set, serve Prometheus metrics on this address while evaluating"`
	Tracing     tracing.Config `group:"Tracing"`
	Query       struct {
		Query string `positional-arg-name:"query" description:"Query to evaluate"`
	} `positional-args:"yes" required:"yes"`
}

func (c *EvaluateCommand) Execute(args []string) error {
	ctx := context.Background()
	logger := logging.NewLogger("liquers-evaluate")

	if _, shutdown, err := c.Tracing.TracerProvider(); err != nil {
		logger.Error("tracer-provider-failed", err)
	} else if shutdown != nil {
		defer shutdown(ctx)
	}

	if mp, shutdown, err := c.Tracing.Metrics.MeterProvider(); err != nil {
		logger.Error("meter-provider-failed", err)
	} else if mp != nil {
		tracing.ConfigureMeterProvider(mp)
		defer shutdown(ctx)
	}

	metric.Init()

	if c.MetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(c.MetricsAddr, metric.Handler()); err != nil {
				logger.Error("metrics-server-failed", err)
			}
		}()
	}

	bytes := memstore.New("cli-root")

	p := mpb.New(mpb.WithWidth(40))
	bar := p.AddBar(0,
		mpb.PrependDecorators(decor.Name("loading "+c.Root)),
		mpb.AppendDecorators(decor.CountersNoUnit("%d files")),
	)

	n, err := dirload.Load(ctx, c.Root, bytes, func(string) { bar.IncrBy(1) })
	if err != nil {
		return fmt.Errorf("loading %s: %w", c.Root, err)
	}
	bar.SetTotal(int64(n), true)
	p.Wait()

	registry := command.NewRegistry()
	factory := simple.Factory{}
	corelib.Register(registry, factory)

	assets := asset.New(bytes, yamlprovider.New(bytes))

	env := &interp.Env{
		Registry: registry,
		Store:    bytes,
		Factory:  factory,
		Assets:   assets,
		Logger:   logger,
	}

	q, err := query.Parse(c.Query.Query)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("parse error: %s", err))
		return err
	}

	start := time.Now()
	state, err := interp.New().Evaluate(ctx, env, q, query.Key{})
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("evaluation failed after %s: %s", elapsed, err))
		return err
	}

	out, err := state.Data.AsBytes("raw")
	if err != nil {
		out = []byte(fmt.Sprintf("%v", state.Data))
	}
	fmt.Fprintln(os.Stdout, color.GreenString("ok (%s)", elapsed))
	fmt.Fprintln(os.Stdout, string(out))

	meta, err := json.MarshalIndent(state.Metadata, "", "  ")
	if err == nil {
		fmt.Fprintln(os.Stderr, string(meta))
	}
	return nil
}
