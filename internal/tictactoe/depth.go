package tictactoe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingInteger = regexp.MustCompile(`^[+-]?[0-9]+`)

// Depth is the search horizon in plies. The zero value is unbounded: the
// search runs until every branch reaches the end of the game.
type Depth struct {
	plies   int
	bounded bool
}

func Unbounded() Depth {
	return Depth{}
}

// Limit bounds the search to n plies. Negative values are treated as 0.
func Limit(n int) Depth {
	if n < 0 {
		n = 0
	}

	return Depth{plies: n, bounded: true}
}

// ParseDepth reads a depth typed by a user. Any finite number is accepted and
// cut to its leading integer ("2.5" is 2, "1e1" is 1). Empty, non-numeric or
// negative input means unbounded.
func ParseDepth(raw string) Depth {
	raw = strings.TrimSpace(raw)

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Unbounded()
	}

	n, err := strconv.Atoi(leadingInteger.FindString(raw))
	if err != nil || n < 0 {
		return Unbounded()
	}

	return Limit(n)
}

// DepthFromPointer converts the nullable form used in storage and on the wire.
func DepthFromPointer(plies *int) Depth {
	if plies == nil {
		return Unbounded()
	}

	return Limit(*plies)
}

// Pointer is the nullable form of the depth: nil when unbounded.
func (that Depth) Pointer() *int {
	if !that.bounded {
		return nil
	}

	plies := that.plies

	return &plies
}

func (that Depth) IsUnbounded() bool {
	return !that.bounded
}

// Plies returns the remaining plies and false when unbounded.
func (that Depth) Plies() (int, bool) {
	return that.plies, that.bounded
}

// Exhausted reports whether the search must stop and use the heuristic.
func (that Depth) Exhausted() bool {
	return that.bounded && that.plies <= 0
}

// Next is the depth handed to the children of a node. It saturates at zero,
// so Limit(0) never turns into a full search: the root still expands one ply
// and scores its children with the heuristic, exactly like Limit(1).
func (that Depth) Next() Depth {
	if !that.bounded || that.plies == 0 {
		return that
	}

	return Depth{plies: that.plies - 1, bounded: true}
}

func (that Depth) String() string {
	if !that.bounded {
		return "unbounded"
	}

	return strconv.Itoa(that.plies)
}

func (that Depth) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Pointer())
}

func (that *Depth) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*that = Unbounded()
		return nil
	}

	var plies int
	if err := json.Unmarshal(data, &plies); err != nil {
		return fmt.Errorf("failed to unmarshal depth: %w", err)
	}

	*that = Limit(plies)

	return nil
}
