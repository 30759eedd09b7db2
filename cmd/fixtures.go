package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Alias1177/MatchPredictor/internal/analysis/prediction"
)

// FinalScore is the result of a played match
type FinalScore struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Fixture is one entry of the input file. Result is only set for played matches.
type Fixture struct {
	prediction.Request
	Result *FinalScore `json:"result,omitempty"`
}

func readFixtures(r io.Reader) ([]Fixture, error) {
	var fixtures []Fixture
	if err := json.NewDecoder(r).Decode(&fixtures); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}
	return fixtures, nil
}

func writeResults(w io.Writer, results any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("writing predictions: %w", err)
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening fixtures: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
