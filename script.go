package infospot

import (
	"encoding/json"
	"fmt"
	"time"
)

// scriptStep is a single action in an interaction script.
type scriptStep struct {
	Action  string  `json:"action"`
	Marker  string  `json:"marker,omitempty"`
	Label   string  `json:"label,omitempty"`
	Text    string  `json:"text,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	DelayMS int     `json:"delayMs,omitempty"`
	Frames  int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure of an interaction script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"hover": true, "glide": true, "leave": true, "click": true,
	"show": true, "hide": true, "lock": true, "unlock": true,
	"text": true, "wait": true, "screenshot": true,
}

// ScriptRunner replays a scripted interaction against a board, one step per
// frame. Attach it with Board.SetScriptRunner.
//
//	{"steps": [
//	  {"action": "show", "marker": "door"},
//	  {"action": "wait", "frames": 30},
//	  {"action": "hover", "marker": "door", "x": 320, "y": 240},
//	  {"action": "click", "marker": "door"},
//	  {"action": "screenshot", "label": "door-locked"}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script and returns a runner ready to be attached
// to a board.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		switch st.Action {
		case "hover", "glide", "click", "lock", "unlock", "text":
			if st.Marker == "" {
				return nil, fmt.Errorf("parse script: step %d: %s needs a marker", i, st.Action)
			}
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches a runner. Its step method is called from
// UpdateDelta before synthetic input is processed.
func (b *Board) SetScriptRunner(r *ScriptRunner) {
	b.runner = r
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(b *Board) {
	if r.done {
		return
	}
	// Let queued synthetic input drain before advancing.
	if b.pendingInjections() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	b.logger.Debug("script step", "index", r.cursor-1, "action", st.Action, "marker", st.Marker)

	delay := time.Duration(st.DelayMS) * time.Millisecond
	switch st.Action {
	case "hover":
		b.InjectHover(st.Marker, st.X, st.Y)
	case "glide":
		b.InjectHoverPath(st.Marker, st.X, st.Y, st.ToX, st.ToY, st.Frames)
	case "leave":
		b.InjectLeave()
	case "click":
		b.InjectClick(st.Marker)
	case "show":
		b.InjectShow(st.Marker, delay)
	case "hide":
		b.InjectHide(st.Marker, delay)
	case "lock":
		if m := b.lookup(st.Marker); m != nil {
			m.LockHoverElement()
		}
	case "unlock":
		if m := b.lookup(st.Marker); m != nil {
			m.UnlockHoverElement()
		}
	case "text":
		if m := b.lookup(st.Marker); m != nil {
			m.AddHoverText(st.Text)
		}
	case "screenshot":
		b.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && b.pendingInjections() == 0 {
		r.done = true
	}
}
