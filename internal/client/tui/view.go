package tui

import (
	"fmt"
	"strings"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/client/wizard"
	"github.com/nyattihq/nyatti/internal/plans"
	"github.com/nyattihq/nyatti/pkg/utils"
)

var stepTitles = map[int]string{
	wizard.StepTemplate: "Choose a template",
	wizard.StepDetails:  "Name your site",
	wizard.StepContent:  "Pages & features",
	wizard.StepDomain:   "Claim your address",
	wizard.StepPlan:     "Pick a plan",
	wizard.StepPayment:  "Payment",
}

func (m Model) View() string {
	if m.finished {
		return m.successView()
	}

	var b strings.Builder
	step := m.wiz.Step()

	b.WriteString(titleStyle.Render("Nyatti") + "  " +
		stepStyle.Render(fmt.Sprintf("Step %d of %d · %s", step, wizard.TotalSteps, stepTitles[step])) + "\n\n")

	switch step {
	case wizard.StepTemplate:
		b.WriteString(m.templateView())
	case wizard.StepDetails:
		b.WriteString(m.detailsView())
	case wizard.StepContent:
		b.WriteString(m.contentView())
	case wizard.StepDomain:
		b.WriteString(m.domainView())
	case wizard.StepPlan:
		b.WriteString(m.planView())
	case wizard.StepPayment:
		b.WriteString(m.paymentView())
	}

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText) + "\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) templateView() string {
	var b strings.Builder
	for i, t := range catalog.Templates() {
		line := fmt.Sprintf("%s · %s", t.Name, t.Description)
		if t.Popular {
			line += " ★"
		}
		b.WriteString(m.optionLine(i, line, m.wiz.Draft().TemplateID != nil && *m.wiz.Draft().TemplateID == t.ID))
	}
	return b.String()
}

func (m Model) detailsView() string {
	var b strings.Builder
	b.WriteString("Site name:\n")
	b.WriteString(m.nameInput.View() + "\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Kind: %s · Industry: %s · Palette: %s",
		m.wiz.Draft().Kind, m.wiz.Draft().Industry, m.wiz.Draft().ColorScheme)) + "\n")
	return b.String()
}

func (m Model) contentView() string {
	var b strings.Builder
	d := m.wiz.Draft()
	pages := catalog.Pages(d.Kind)
	features := catalog.Features(d.Kind)

	b.WriteString(dimStyle.Render("Pages") + "\n")
	for i, p := range pages {
		b.WriteString(m.optionLine(i, checkbox(d.HasPage(p))+" "+p, false))
	}
	b.WriteString("\n" + dimStyle.Render("Features") + "\n")
	for i, f := range features {
		b.WriteString(m.optionLine(len(pages)+i, checkbox(d.HasFeature(f))+" "+f, false))
	}
	return b.String()
}

func (m Model) domainView() string {
	var b strings.Builder
	d := m.wiz.Draft()

	if d.DomainMode == wizard.ModeSubdomain {
		b.WriteString("Subdomain:\n")
		b.WriteString(m.subdomainInput.View() + dimStyle.Render(".nyatti.co") + "\n\n")
		if sub := utils.NormalizeSubdomain(m.subdomainInput.Value()); utils.IsReservedSubdomain(sub) {
			b.WriteString(errorStyle.Render("✗ "+sub+".nyatti.co is reserved") + "\n")
			return b.String()
		}
		switch m.checker.Status() {
		case wizard.StatusChecking:
			b.WriteString(m.spin.View() + dimStyle.Render(" checking availability...") + "\n")
		case wizard.StatusAvailable:
			b.WriteString(okStyle.Render("✓ "+m.checker.Value()+".nyatti.co is available") + "\n")
		case wizard.StatusTaken:
			b.WriteString(errorStyle.Render("✗ "+m.checker.Value()+".nyatti.co is taken") + "\n")
		default:
			b.WriteString(dimStyle.Render("Type at least 3 characters (a-z, 0-9, hyphen)") + "\n")
		}
	} else {
		label := "Domain you already own:"
		if d.DomainMode == wizard.ModePurchaseNew {
			label = "Domain to register:"
		}
		b.WriteString(label + "\n")
		b.WriteString(m.domainInput.View() + "\n")
	}
	return b.String()
}

func (m Model) planView() string {
	var b strings.Builder
	for i, p := range plans.All() {
		line := fmt.Sprintf("%s · %s/year", p.Name, plans.FormatKES(p.PriceAnnual))
		if p.Popular {
			line += " ★"
		}
		b.WriteString(m.optionLine(i, line, m.wiz.Draft().PlanType == p.ID))
	}

	all := plans.All()
	if m.cursor < len(all) {
		b.WriteString("\n" + dimStyle.Render("Includes: "+strings.Join(all[m.cursor].Features[:3], ", ")+", ...") + "\n")
	}
	return b.String()
}

func (m Model) paymentView() string {
	d := m.wiz.Draft()
	var b strings.Builder

	b.WriteString("Review:\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s · %s.nyatti.co · %s plan · %s/year",
		d.Name, d.NormalizedSubdomain(), d.PlanType, plans.FormatKES(d.PriceAnnual()))) + "\n\n")

	switch {
	case m.submitting:
		b.WriteString(m.spin.View() + " Creating your site...\n")
	case m.paying:
		b.WriteString(m.spin.View() + " Waiting for payment. Complete the checkout in your browser.\n")
	default:
		b.WriteString("Press " + selectedStyle.Render("enter") + " to open the checkout in your browser.\n")
	}
	return b.String()
}

func (m Model) successView() string {
	url := ""
	if m.site != nil {
		url = m.site.URL
	}
	return okStyle.Render("✓ Your site is live!") + "\n\n" +
		"  " + selectedStyle.Render(url) + "\n\n" +
		dimStyle.Render("Taking you back...") + "\n"
}

func (m Model) optionLine(index int, label string, chosen bool) string {
	cursor := "  "
	if index == m.cursor {
		cursor = selectedStyle.Render("> ")
		label = selectedStyle.Render(label)
	}
	if chosen {
		label += dimStyle.Render(" (selected)")
	}
	return cursor + label + "\n"
}

func (m Model) helpLine() string {
	switch m.wiz.Step() {
	case wizard.StepContent:
		return "↑/↓: navigate • space: toggle • enter: continue • esc: back"
	case wizard.StepDetails:
		return "enter: continue • esc: back"
	case wizard.StepDomain:
		return "tab: address type • enter: continue • esc: back"
	case wizard.StepPayment:
		return "enter: pay • esc: back"
	default:
		return "↑/↓: navigate • enter: select • esc: back"
	}
}

func checkbox(on bool) string {
	if on {
		return okStyle.Render("[x]")
	}
	return "[ ]"
}
