package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/client/api"
	"github.com/nyattihq/nyatti/internal/client/wizard"
)

func testModel(t *testing.T) Model {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"available": true})
	}))
	t.Cleanup(server.Close)

	return NewModel(Options{
		Kind:      catalog.KindShop,
		Client:    api.NewClient(server.URL, "token"),
		Debounce:  10 * time.Millisecond,
		PollEvery: 10 * time.Millisecond,
	})
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestTemplateSelectionAdvances(t *testing.T) {
	m := testModel(t)
	assert.Contains(t, m.View(), "Step 1 of 6")
	assert.Contains(t, m.View(), "Modern Fashion")

	m = press(m, "down")
	m = press(m, "enter")

	assert.Equal(t, wizard.StepDetails, m.wiz.Step())
	require.NotNil(t, m.wiz.Draft().TemplateID)
	assert.Equal(t, "electronics-store", *m.wiz.Draft().TemplateID)
	assert.Contains(t, m.View(), "Step 2 of 6")
}

func TestDetailsRequireName(t *testing.T) {
	m := testModel(t)
	m = press(m, "enter") // template

	// Enter with an empty name stays put with a message
	m = press(m, "enter")
	assert.Equal(t, wizard.StepDetails, m.wiz.Step())
	assert.Contains(t, m.View(), "needs a name")

	m = typeText(m, "My Duka")
	m = press(m, "enter")
	assert.Equal(t, wizard.StepContent, m.wiz.Step())
	assert.Equal(t, "My Duka", m.wiz.Draft().Name)
}

func TestEscRetreatsThenCancels(t *testing.T) {
	m := testModel(t)
	m = press(m, "enter") // to details
	require.Equal(t, wizard.StepDetails, m.wiz.Step())

	m = press(m, "esc")
	assert.Equal(t, wizard.StepTemplate, m.wiz.Step())
	assert.False(t, m.Canceled())

	m = press(m, "esc")
	assert.True(t, m.Canceled())
}

// domainStep walks a fresh model up to the domain step.
func domainStep(t *testing.T) Model {
	t.Helper()
	m := testModel(t)
	m = press(m, "enter") // template
	m = typeText(m, "My Duka")
	m = press(m, "enter") // details
	m = press(m, "enter") // content (defaults are valid)
	require.Equal(t, wizard.StepDomain, m.wiz.Step())
	return m
}

func TestDomainStepBlocksUntilAvailable(t *testing.T) {
	m := domainStep(t)

	// The debounced check has not resolved yet
	m = press(m, "enter")
	assert.Equal(t, wizard.StepDomain, m.wiz.Step())

	// Wait out the debounce, then feed the status through a tick
	time.Sleep(100 * time.Millisecond)
	next, _ := m.Update(availabilityTickMsg{})
	m = next.(Model)
	assert.Equal(t, wizard.StatusAvailable, m.wiz.Availability())

	m = press(m, "enter")
	assert.Equal(t, wizard.StepPlan, m.wiz.Step())
}

func TestDomainStepSuggestsFromName(t *testing.T) {
	m := domainStep(t)

	assert.Equal(t, "my-duka", m.subdomainInput.Value())
	assert.NotEqual(t, wizard.StatusIdle, m.checker.Status())
}

func TestEditAfterAvailableBlocksEnter(t *testing.T) {
	m := domainStep(t)

	time.Sleep(100 * time.Millisecond)
	next, _ := m.Update(availabilityTickMsg{})
	m = next.(Model)
	require.Equal(t, wizard.StatusAvailable, m.wiz.Availability())

	// One more keystroke restarts the check; enter must not ride the
	// previous value's verdict, even before the next status tick.
	m = typeText(m, "x")
	m = press(m, "enter")
	assert.Equal(t, wizard.StepDomain, m.wiz.Step())
	assert.Contains(t, m.View(), "Still checking")
}

func TestTabCyclesDomainMode(t *testing.T) {
	m := domainStep(t)
	require.Equal(t, wizard.ModeSubdomain, m.wiz.Draft().DomainMode)

	m = press(m, "tab")
	assert.Equal(t, wizard.ModeUseExisting, m.wiz.Draft().DomainMode)
	assert.Contains(t, m.View(), "already own")

	m = typeText(m, "duka.example.com")
	m = press(m, "enter")
	assert.Equal(t, wizard.StepPlan, m.wiz.Step())
	assert.Equal(t, "duka.example.com", m.wiz.Draft().CustomDomain)
}

func TestTabWrapsBackToSubdomain(t *testing.T) {
	m := domainStep(t)

	m = press(m, "tab")
	m = press(m, "tab")
	assert.Equal(t, wizard.ModePurchaseNew, m.wiz.Draft().DomainMode)
	assert.Contains(t, m.View(), "register")

	m = press(m, "tab")
	assert.Equal(t, wizard.ModeSubdomain, m.wiz.Draft().DomainMode)
	assert.Contains(t, m.View(), ".nyatti.co")
}

func TestReservedSubdomainFlagged(t *testing.T) {
	m := domainStep(t)

	for i := 0; i < len("my-duka"); i++ {
		m = press(m, "backspace")
	}
	m = typeText(m, "admin")

	assert.Contains(t, m.View(), "is reserved")
	m = press(m, "enter")
	assert.Equal(t, wizard.StepDomain, m.wiz.Step())
	assert.Contains(t, m.View(), "reserved")
}
