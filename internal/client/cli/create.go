package cli

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/client/tui"
)

var createKind string

func init() {
	createCmd.Flags().StringVar(&createKind, "kind", "shop", "what to create: shop or website")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Launch the site creation wizard",
	Long: `Walk through creating a new shop or website: template, name,
pages and features, subdomain, plan, and payment.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		kind := catalog.Kind(createKind)
		if !catalog.IsValidKind(kind) {
			return fmt.Errorf("unknown kind %q: use shop or website", createKind)
		}

		model := tui.NewModel(tui.Options{
			Kind:        kind,
			Client:      apiClient(),
			Debounce:    time.Duration(cfg.Wizard.DebounceMS) * time.Millisecond,
			PollEvery:   time.Duration(cfg.Wizard.PaymentPollMS) * time.Millisecond,
			OpenBrowser: openBrowser,
		})

		p := tea.NewProgram(model)
		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("wizard error: %w", err)
		}

		result, ok := finalModel.(tui.Model)
		if !ok {
			return fmt.Errorf("unexpected model type")
		}

		if result.Canceled() {
			fmt.Println("Creation canceled.")
			return nil
		}
		if site := result.Site(); site != nil {
			fmt.Printf("✓ %s is live at %s\n", site.Name, site.URL)
		}
		return nil
	},
}

// openBrowser hands a URL to the platform's opener.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
