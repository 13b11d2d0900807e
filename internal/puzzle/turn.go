package puzzle

import (
	"encoding/json"
	"fmt"
)

// Turn is a single requested move: a layered side turn or a whole-puzzle
// rotation.
type Turn interface {
	// Inverse returns the turn that undoes this one.
	Inverse() Turn
}

// SideTurn rotates the pieces of Side whose coordinate along the side's axis
// falls in [LayerMin, LayerMax], within the plane spanned by the From and To
// axes. From and To are side codes; a negative code mirrors the rotation
// direction.
type SideTurn struct {
	Side     int `json:"side"`
	LayerMin int `json:"layer_min"`
	LayerMax int `json:"layer_max"`
	From     int `json:"from"`
	To       int `json:"to"`
}

// Inverse swaps the rotation plane, undoing the turn on the same layers.
func (t SideTurn) Inverse() Turn {
	t.From, t.To = t.To, t.From
	return t
}

// Rotation reorients the whole puzzle in the plane spanned by From and To.
type Rotation struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Inverse swaps the rotation plane.
func (t Rotation) Inverse() Turn {
	t.From, t.To = t.To, t.From
	return t
}

// turnEnvelope is the tagged JSON form of a Turn: exactly one field is set.
type turnEnvelope struct {
	Side     *SideTurn `json:"side,omitempty"`
	Rotation *Rotation `json:"rotation,omitempty"`
}

// MarshalTurn encodes a turn as a tagged JSON object.
func MarshalTurn(t Turn) ([]byte, error) {
	switch t := t.(type) {
	case SideTurn:
		return json.Marshal(turnEnvelope{Side: &t})
	case Rotation:
		return json.Marshal(turnEnvelope{Rotation: &t})
	default:
		return nil, fmt.Errorf("puzzle: unknown turn type %T", t)
	}
}

// UnmarshalTurn decodes a turn produced by MarshalTurn.
func UnmarshalTurn(data []byte) (Turn, error) {
	var env turnEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("puzzle: decode turn: %w", err)
	}
	switch {
	case env.Side != nil && env.Rotation == nil:
		return *env.Side, nil
	case env.Rotation != nil && env.Side == nil:
		return *env.Rotation, nil
	}
	return nil, fmt.Errorf("puzzle: turn must have exactly one of side, rotation")
}
