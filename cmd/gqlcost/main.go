// Command gqlcost estimates the cost of GraphQL queries against a schema
// annotated with `@cost` directives.
//
//	gqlcost --schema schema.graphql --query query.graphql
//	gqlcost --schema schema.graphql --serve --listen :8080
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/sync/errgroup"

	"github.com/koron-go/gqlcost/v2/internal/config"
	"github.com/koron-go/gqlcost/v2/internal/observability"
	"github.com/koron-go/gqlcost/v2/internal/server"
	"github.com/koron-go/gqlcost/v2/sdl"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errExceeded is returned when an estimated query is over the maximum.
var errExceeded = errors.New("query exceeds the maximum cost")

// Run runs the command with args, excluding the program name.
func Run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	fs := pflag.NewFlagSet("gqlcost", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.StringP("config", "c", "", "the path to the YAML config file")
	schemaPaths := fs.StringArrayP("schema", "s", nil, "the schema files (SDL), overrides the config")
	queryPath := fs.StringP("query", "q", "", `the query file to estimate, "-" for stdin`)
	variablesPath := fs.String("variables", "", "the JSON file of variable values")
	operationName := fs.StringP("operation", "o", "", "the operation to estimate, all operations when empty")
	maximumCost := fs.Int("maximum-cost", 0, "the maximum cost, overrides the config")
	serve := fs.Bool("serve", false, "serve the cost estimation endpoint over HTTP")
	listen := fs.String("listen", "", "the address to listen on, overrides the config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if len(*schemaPaths) > 0 {
		cfg.Schema = *schemaPaths
	}
	if fs.Changed("maximum-cost") {
		cfg.MaximumCost = *maximumCost
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	schema, err := loadSchema(cfg.Schema)
	if err != nil {
		return err
	}

	if *serve {
		return runServer(ctx, cfg, schema, logger)
	}

	if *queryPath == "" {
		return errors.New("the --query flag is required")
	}
	req := &server.Request{OperationName: *operationName}
	if req.Query, err = readQuery(stdin, *queryPath); err != nil {
		return err
	}
	if *variablesPath != "" {
		if req.Variables, err = readVariables(*variablesPath); err != nil {
			return err
		}
	}

	e, err := server.NewEstimator(schema, cfg.AnalysisOptions(logger), 0, nil)
	if err != nil {
		return err
	}
	resp := e.Estimate(req)
	b, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error encoding result")
	}
	fmt.Fprintln(stdout, string(b))
	if resp.Exceeded() {
		return errExceeded
	}
	return nil
}

func loadSchema(paths []string) (*sdl.Schema, error) {
	if len(paths) == 0 {
		return nil, errors.New("the --schema flag is required")
	}
	sources := make([]*ast.Source, 0, len(paths))
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "error reading schema")
		}
		sources = append(sources, &ast.Source{Name: path, Input: string(b)})
	}
	return sdl.LoadSchema(sources...)
}

func readQuery(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(err, "error reading query")
	}
	return string(b), nil
}

func readVariables(path string) (map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading variables")
	}
	defer f.Close()
	var vars map[string]interface{}
	if err := json.NewDecoder(f).Decode(&vars); err != nil {
		return nil, errors.Wrap(err, "error decoding variables")
	}
	return vars, nil
}

func runServer(ctx context.Context, cfg *config.Config, schema *sdl.Schema, logger *logrus.Logger) error {
	metrics := observability.NewMetrics()
	e, err := server.NewEstimator(schema, cfg.AnalysisOptions(logger), cfg.DocumentCacheSize, metrics)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.NewRouter(e, logger, metrics),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("listen", cfg.Listen).Info("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "server error")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]...)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
