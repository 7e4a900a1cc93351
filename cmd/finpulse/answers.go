package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finpulse/finpulse/internal/aggregate"
	"github.com/finpulse/finpulse/internal/answer"
)

// answersFile is the on-disk shape of a run's answers. The scores section
// is optional; when absent, normalized scores are derived from the boolean
// answers.
type answersFile struct {
	Run     string                     `yaml:"run,omitempty"`
	Answers []answer.Answer            `yaml:"answers"`
	Scores  []aggregate.ScoredQuestion `yaml:"scores,omitempty"`
}

func loadAnswersFile(path string) (*answersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers %s: %w", path, err)
	}
	var af answersFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return &af, nil
}
