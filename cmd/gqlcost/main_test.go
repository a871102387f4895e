package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
type Query {
  items(limit: Int): [Item] @cost(complexity: 2, multipliers: ["limit"])
}

type Item {
  name: String @cost(complexity: 1)
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.graphql", testSchema)
	query := writeFile(t, dir, "query.graphql", `query($n: Int) { items(limit: $n) { name } }`)
	variables := writeFile(t, dir, "variables.json", `{"n": 3}`)

	var stdout bytes.Buffer
	err := Run(context.Background(), nil, &stdout, io.Discard, "-s", schema, "-q", query, "--variables", variables)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cost": 9, "maximumCost": 1000}`, stdout.String())

	stdout.Reset()
	err = Run(context.Background(), strings.NewReader(`{ items(limit: 10) { name } }`), &stdout, io.Discard,
		"--schema", schema, "--query", "-", "--maximum-cost", "20")
	assert.Equal(t, errExceeded, err)
	assert.Contains(t, stdout.String(), "The query exceeds the maximum cost of 20. Actual cost is 30")
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.graphql", testSchema)
	query := writeFile(t, dir, "query.graphql", `{ items(limit: 10) { name } }`)
	cfg := writeFile(t, dir, "gqlcost.yaml", "schema: ["+schema+"]\nmaximumCost: 10\n")

	var stdout bytes.Buffer
	err := Run(context.Background(), nil, &stdout, io.Discard, "-c", cfg, "-q", query)
	assert.Equal(t, errExceeded, err)
	assert.Contains(t, stdout.String(), `"maximumCost": 10`)
}

func TestRunError(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.graphql", testSchema)
	query := writeFile(t, dir, "query.graphql", `{ items { name } }`)

	for _, args := range [][]string{
		{"--unknown"},
		{"-q", query},
		{"-s", schema},
		{"-s", filepath.Join(dir, "missing.graphql"), "-q", query},
		{"-s", schema, "-q", filepath.Join(dir, "missing.graphql")},
		{"-s", schema, "-q", query, "--variables", filepath.Join(dir, "missing.json")},
		{"-s", schema, "-q", query, "--maximum-cost", "0"},
		{"-s", query, "-q", query},
	} {
		assert.Error(t, Run(context.Background(), nil, io.Discard, io.Discard, args...), "%v", args)
	}
}

func TestRunServe(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "schema.graphql", testSchema)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, nil, io.Discard, io.Discard, "-s", schema, "--serve", "--listen", "127.0.0.1:0")
	assert.NoError(t, err)
}
