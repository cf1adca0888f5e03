package contraction

import (
	"encoding/json"
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var updateGolden = flag.Bool("update", false, "regenerate golden test files")

// goldenCase is one heuristic expansion with its expected ledger.
type goldenCase struct {
	Name             string        `json:"name"`
	Input            string        `json:"input"`
	WantText         string        `json:"want_text"`
	WantReplacements []Replacement `json:"want_replacements"`
}

const goldenPath = "testdata/golden.json"

func TestGolden(t *testing.T) {
	if *updateGolden {
		updateGoldenFile(t)
		return
	}

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)

	var cases []goldenCase
	require.NoError(t, json.Unmarshal(data, &cases))

	e := New()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			res := e.ExpandString(tc.Input, Heuristic)
			assert.Equal(t, tc.WantText, res.Text())
			assert.Equal(t, tc.WantReplacements, res.Replacements)
			assert.Equal(t, MethodHeuristic, res.Method)

			// Expanded output contains nothing left to expand.
			again := e.ExpandString(res.Text(), Heuristic)
			assert.Equal(t, res.Text(), again.Text())
			assert.Empty(t, again.Replacements)
		})
	}
}

func updateGoldenFile(t *testing.T) {
	t.Helper()

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)

	var cases []goldenCase
	require.NoError(t, json.Unmarshal(data, &cases))

	e := New()
	for i := range cases {
		res := e.ExpandString(cases[i].Input, Heuristic)
		cases[i].WantText = res.Text()
		cases[i].WantReplacements = res.Replacements
	}

	out, err := json.MarshalIndent(cases, "", "  ")
	require.NoError(t, err)
	out = append(out, '\n')

	require.NoError(t, os.WriteFile(goldenPath, out, 0644))
	t.Log("golden file updated, review with: git diff testdata/golden.json")
}
