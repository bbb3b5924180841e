package wizard

import "github.com/nyattihq/nyatti/internal/catalog"

// Step indices. The flow is fixed: pick a template, name the site, choose
// pages and features, claim a domain, pick a plan, then pay.
const (
	StepTemplate = 1
	StepDetails  = 2
	StepContent  = 3
	StepDomain   = 4
	StepPlan     = 5
	StepPayment  = 6

	TotalSteps = 6
)

var stepValidators = map[int]Validator{
	StepTemplate: ValidTemplate,
	StepDetails:  ValidDetails,
	StepContent:  ValidSelections,
	StepDomain:   ValidDomain,
	StepPlan:     ValidPlan,
}

// Wizard owns the step index and the draft. All methods run on the UI
// goroutine; the type is not safe for concurrent use and does not need
// to be.
type Wizard struct {
	draft        *Draft
	step         int
	minStep      int
	availability Status
}

// New starts a wizard at step 1 with a kind-seeded draft.
func New(kind catalog.Kind) *Wizard {
	return &Wizard{
		draft:   NewDraft(kind),
		step:    StepTemplate,
		minStep: StepTemplate,
	}
}

// NewAt starts a wizard at a later step, pinning retreat there. Used when
// the kind and template are already decided before the wizard opens.
func NewAt(kind catalog.Kind, startStep int) *Wizard {
	if startStep < StepTemplate {
		startStep = StepTemplate
	}
	if startStep > TotalSteps {
		startStep = TotalSteps
	}
	return &Wizard{
		draft:   NewDraft(kind),
		step:    startStep,
		minStep: startStep,
	}
}

// Draft returns the in-progress draft for the step screens to mutate.
func (w *Wizard) Draft() *Draft {
	return w.draft
}

// Step returns the current 1-based step index.
func (w *Wizard) Step() int {
	return w.step
}

// SetAvailability feeds the availability checker's latest status into the
// wizard. The domain step will not advance without an available subdomain.
func (w *Wizard) SetAvailability(status Status) {
	w.availability = status
}

// Availability returns the last status fed in via SetAvailability.
func (w *Wizard) Availability() Status {
	return w.availability
}

// CanAdvance reports whether the active step's requirements are met.
func (w *Wizard) CanAdvance() bool {
	if w.step >= TotalSteps {
		return false
	}
	if validate, ok := stepValidators[w.step]; ok && !validate(w.draft) {
		return false
	}
	// The domain step additionally needs the claim confirmed free. Custom
	// domain modes skip the subdomain check entirely.
	if w.step == StepDomain && w.draft.DomainMode == ModeSubdomain && w.availability != StatusAvailable {
		return false
	}
	return true
}

// Advance moves forward one step when the active step validates. It never
// touches the draft. Returns whether the index changed.
func (w *Wizard) Advance() bool {
	if !w.CanAdvance() {
		return false
	}
	w.step++
	return true
}

// Retreat moves back one step, never below the wizard's entry step.
func (w *Wizard) Retreat() bool {
	if w.step <= w.minStep {
		return false
	}
	w.step--
	return true
}

// JumpTo moves directly to an already-visited step. Forward jumps are
// refused; steps ahead of the current one are reached only via Advance.
func (w *Wizard) JumpTo(step int) bool {
	if step < w.minStep || step > w.step {
		return false
	}
	w.step = step
	return true
}

// AtPayment reports whether the wizard reached the terminal step.
func (w *Wizard) AtPayment() bool {
	return w.step == TotalSteps
}

// Reset restores the entry step and a fresh kind-seeded draft.
func (w *Wizard) Reset() {
	w.draft = NewDraft(w.draft.Kind)
	w.step = w.minStep
	w.availability = StatusIdle
}
