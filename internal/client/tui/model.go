// Package tui renders the site creation wizard in the terminal.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/client/api"
	"github.com/nyattihq/nyatti/internal/client/wizard"
	"github.com/nyattihq/nyatti/internal/plans"
	"github.com/nyattihq/nyatti/pkg/utils"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16876b"))
	stepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// availabilityTickMsg drives polling of the checker's status while the
// domain step is visible.
type availabilityTickMsg struct{}

// paymentResultMsg reports the outcome of one checkout attempt.
type paymentResultMsg struct {
	success   bool
	reference string
	err       error
}

// submitResultMsg reports the outcome of draft submission.
type submitResultMsg struct {
	outcome wizard.Outcome
	site    *api.Site
	err     error
}

// leaveMsg fires after the success confirmation has been shown.
type leaveMsg struct{}

// Model is the wizard screen. It owns the step machine, the availability
// checker, and the submission pipeline; all mutation happens in Update.
type Model struct {
	wiz       *wizard.Wizard
	checker   *wizard.Checker
	persister *wizard.Persister
	initiator *wizard.Initiator
	client    *api.Client

	cursor         int
	nameInput      textinput.Model
	subdomainInput textinput.Model
	domainInput    textinput.Model
	spin           spinner.Model

	paying     bool
	submitting bool
	finished   bool
	canceled   bool
	site       *api.Site
	errText    string
}

// Options configures the wizard screen.
type Options struct {
	Kind        catalog.Kind
	Client      *api.Client
	Debounce    time.Duration
	PollEvery   time.Duration
	OpenBrowser func(url string) error
}

// NewModel creates the wizard screen.
func NewModel(opts Options) Model {
	name := textinput.New()
	name.Placeholder = "My Duka"
	name.CharLimit = 64

	sub := textinput.New()
	sub.Placeholder = "myduka"
	sub.CharLimit = 63

	dom := textinput.New()
	dom.Placeholder = "duka.example.com"
	dom.CharLimit = 253

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	checker := wizard.NewChecker(func(ctx context.Context, subdomain string) (bool, error) {
		return opts.Client.CheckSubdomain(ctx, subdomain)
	}, opts.Debounce, nil)

	return Model{
		wiz:            wizard.New(opts.Kind),
		checker:        checker,
		persister:      wizard.NewPersister(opts.Client),
		initiator:      wizard.NewInitiator(opts.Client, opts.OpenBrowser, opts.PollEvery, 0),
		client:         opts.Client,
		nameInput:      name,
		subdomainInput: sub,
		domainInput:    dom,
		spin:           sp,
	}
}

// Canceled reports whether the user backed out before creating a site.
func (m Model) Canceled() bool { return m.canceled }

// Site returns the created site, or nil.
func (m Model) Site() *api.Site { return m.site }

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func availabilityTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return availabilityTickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case availabilityTickMsg:
		m.wiz.SetAvailability(m.checker.Status())
		if m.wiz.Step() == wizard.StepDomain && !m.finished {
			return m, availabilityTick()
		}
		return m, nil

	case paymentResultMsg:
		m.paying = false
		if msg.err != nil {
			m.errText = "Could not open checkout: " + msg.err.Error()
			return m, nil
		}
		if !msg.success {
			// Dismissed or declined; stay on the payment step untouched
			m.errText = "Payment was not completed. You can try again."
			return m, nil
		}
		m.submitting = true
		m.errText = ""
		return m, m.submitCmd()

	case submitResultMsg:
		m.submitting = false
		switch msg.outcome {
		case wizard.OutcomeCreated:
			m.finished = true
			m.site = msg.site
			m.checker.Close()
			return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return leaveMsg{} })
		case wizard.OutcomeSubdomainTaken:
			m.errText = "That subdomain was just taken. Go back and pick another."
		default:
			m.errText = "Could not create the site. Your draft is intact; try again."
		}
		return m, nil

	case leaveMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.finished {
		return m, tea.Quit
	}

	switch msg.String() {
	case "ctrl+c":
		m.canceled = true
		m.checker.Close()
		return m, tea.Quit

	case "esc":
		if m.paying || m.submitting {
			return m, nil
		}
		if !m.wiz.Retreat() {
			m.canceled = true
			m.checker.Close()
			return m, tea.Quit
		}
		m.cursor = 0
		m.errText = ""
		return m.focusForStep()

	case "enter":
		return m.handleEnter()

	case "up", "k":
		if !m.stepUsesTextInput() && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if !m.stepUsesTextInput() && m.cursor < m.optionCount()-1 {
			m.cursor++
		}
		return m, nil

	case "tab":
		if m.wiz.Step() == wizard.StepDomain && !m.paying && !m.submitting {
			m.cycleDomainMode()
			m.errText = ""
			return m.focusForStep()
		}

	case " ":
		if m.wiz.Step() == wizard.StepContent {
			m.toggleContentSelection()
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	d := m.wiz.Draft()

	switch m.wiz.Step() {
	case wizard.StepTemplate:
		templates := catalog.Templates()
		if m.cursor < len(templates) {
			id := templates[m.cursor].ID
			d.TemplateID = &id
		}

	case wizard.StepDetails:
		d.Name = m.nameInput.Value()

	case wizard.StepDomain:
		d.Subdomain = m.subdomainInput.Value()
		d.CustomDomain = m.domainInput.Value()
		// The periodic tick can lag the latest keystroke; read the
		// checker directly so the gate sees the current value's status.
		m.wiz.SetAvailability(m.checker.Status())

	case wizard.StepPlan:
		all := plans.All()
		if m.cursor < len(all) {
			d.PlanType = all[m.cursor].ID
		}

	case wizard.StepPayment:
		if m.paying || m.submitting {
			return m, nil
		}
		m.paying = true
		m.errText = ""
		return m, m.paymentCmd()
	}

	if m.wiz.Advance() {
		m.cursor = 0
		m.errText = ""
		return m.focusForStep()
	}

	m.errText = m.blockedReason()
	return m, nil
}

// focusForStep arms the right text input and kicks off per-step commands.
func (m Model) focusForStep() (tea.Model, tea.Cmd) {
	m.nameInput.Blur()
	m.subdomainInput.Blur()
	m.domainInput.Blur()

	switch m.wiz.Step() {
	case wizard.StepDetails:
		m.nameInput.SetValue(m.wiz.Draft().Name)
		return m, m.nameInput.Focus()
	case wizard.StepDomain:
		d := m.wiz.Draft()
		if d.DomainMode != wizard.ModeSubdomain {
			m.domainInput.SetValue(d.CustomDomain)
			return m, m.domainInput.Focus()
		}
		if d.Subdomain != "" {
			m.subdomainInput.SetValue(d.Subdomain)
		} else if m.subdomainInput.Value() == "" {
			m.subdomainInput.SetValue(utils.SuggestSubdomain(d.Name))
		}
		m.checker.SetInput(m.subdomainInput.Value())
		cmd := m.subdomainInput.Focus()
		return m, tea.Batch(cmd, availabilityTick())
	}
	return m, nil
}

// cycleDomainMode rotates subdomain -> use-existing -> purchase-new.
func (m *Model) cycleDomainMode() {
	d := m.wiz.Draft()
	switch d.DomainMode {
	case wizard.ModeSubdomain:
		d.DomainMode = wizard.ModeUseExisting
	case wizard.ModeUseExisting:
		d.DomainMode = wizard.ModePurchaseNew
	default:
		d.DomainMode = wizard.ModeSubdomain
	}
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.wiz.Step() {
	case wizard.StepDetails:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case wizard.StepDomain:
		if m.wiz.Draft().DomainMode == wizard.ModeSubdomain {
			before := m.subdomainInput.Value()
			m.subdomainInput, cmd = m.subdomainInput.Update(msg)
			if m.subdomainInput.Value() != before {
				m.checker.SetInput(m.subdomainInput.Value())
			}
		} else {
			m.domainInput, cmd = m.domainInput.Update(msg)
		}
	}
	return m, cmd
}

func (m Model) stepUsesTextInput() bool {
	return m.wiz.Step() == wizard.StepDetails || m.wiz.Step() == wizard.StepDomain
}

func (m Model) optionCount() int {
	switch m.wiz.Step() {
	case wizard.StepTemplate:
		return len(catalog.Templates())
	case wizard.StepContent:
		return len(catalog.Pages(m.wiz.Draft().Kind)) + len(catalog.Features(m.wiz.Draft().Kind))
	case wizard.StepPlan:
		return len(plans.All())
	}
	return 0
}

func (m *Model) toggleContentSelection() {
	d := m.wiz.Draft()
	pages := catalog.Pages(d.Kind)
	if m.cursor < len(pages) {
		d.TogglePage(pages[m.cursor])
		return
	}
	features := catalog.Features(d.Kind)
	if idx := m.cursor - len(pages); idx < len(features) {
		d.ToggleFeature(features[idx])
	}
}

func (m Model) blockedReason() string {
	switch m.wiz.Step() {
	case wizard.StepTemplate:
		return "Pick a template to continue."
	case wizard.StepDetails:
		return "The site needs a name."
	case wizard.StepDomain:
		if m.wiz.Draft().DomainMode == wizard.ModeSubdomain {
			if utils.IsReservedSubdomain(utils.NormalizeSubdomain(m.subdomainInput.Value())) {
				return "That name is reserved."
			}
			switch m.checker.Status() {
			case wizard.StatusChecking:
				return "Still checking availability..."
			case wizard.StatusTaken:
				return "That subdomain is taken."
			default:
				return "Enter a subdomain of at least 3 characters."
			}
		}
		return "Enter your domain to continue."
	case wizard.StepPlan:
		return "Pick a plan to continue."
	}
	return ""
}

func (m Model) paymentCmd() tea.Cmd {
	planType := string(m.wiz.Draft().PlanType)
	return func() tea.Msg {
		var result paymentResultMsg
		_, err := m.initiator.Start(context.Background(), planType, wizard.PaymentCallbacks{
			OnSuccess: func(reference string) {
				result.success = true
				result.reference = reference
			},
			OnClose: func() {},
		})
		result.err = err
		return result
	}
}

func (m Model) submitCmd() tea.Cmd {
	draft := m.wiz.Draft()
	return func() tea.Msg {
		outcome, site, err := m.persister.Submit(context.Background(), draft)
		return submitResultMsg{outcome: outcome, site: site, err: err}
	}
}
