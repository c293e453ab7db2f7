package tictactoe

import (
	"errors"
	"fmt"
	"strings"
)

type Algorithm string

const (
	AlgorithmMinimax   Algorithm = "minimax"
	AlgorithmAlphaBeta Algorithm = "alpha_beta"
)

var ErrUnknownAlgorithm = errors.New("unknown search algorithm")

func ParseAlgorithm(raw string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "minimax":
		return AlgorithmMinimax, nil
	case "alpha_beta", "alphabeta", "alpha-beta":
		return AlgorithmAlphaBeta, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, raw)
	}
}

func (that Algorithm) String() string {
	return string(that)
}
