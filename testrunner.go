package genji

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string `yaml:"action"`
	Key    string `yaml:"key,omitempty"`
	Label  string `yaml:"label,omitempty"`
	X      int32  `yaml:"x,omitempty"`
	Y      int32  `yaml:"y,omitempty"`
	Frames int    `yaml:"frames,omitempty"`

	key Key
}

type testScript struct {
	Steps []testStep `yaml:"steps"`
}

// TestRunner plays a scripted sequence of injected input and screenshots
// across frames for automated visual testing. Attach it with
// Engine.SetTestRunner.
//
// Scripts are YAML (or JSON) documents:
//
//	steps:
//	  - {action: press, key: Right}
//	  - {action: wait, frames: 30}
//	  - {action: release, key: Right}
//	  - {action: move, x: 100, y: -50}
//	  - {action: tap, key: LClick}
//	  - {action: screenshot, label: moved}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a test script.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("genji: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("genji: parse test script: no steps")
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		switch st.Action {
		case "press", "release", "tap":
			k, ok := ParseKey(st.Key)
			if !ok {
				return nil, fmt.Errorf("genji: parse test script: step %d: unknown key %q", i+1, st.Key)
			}
			st.key = k
		case "wait", "move", "screenshot":
		default:
			return nil, fmt.Errorf("genji: parse test script: step %d: unknown action %q", i+1, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner that steps once per frame, before input
// is polled.
func (e *Engine) SetTestRunner(runner *TestRunner) {
	e.testRunner = runner
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Let queued injections drain first.
	if e.pendingInjections() > 0 {
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

	switch st.Action {
	case "press":
		e.InjectPress(st.key)
	case "release":
		e.InjectRelease(st.key)
	case "tap":
		e.InjectTap(st.key)
	case "move":
		e.InjectCursor(Pt(st.X, st.Y))
	case "screenshot":
		e.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && e.pendingInjections() == 0 {
		r.done = true
	}
}
