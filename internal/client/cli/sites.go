package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	sitesCmd.AddCommand(sitesListCmd)
	sitesCmd.AddCommand(sitesShowCmd)
	sitesCmd.AddCommand(sitesDeleteCmd)
	rootCmd.AddCommand(sitesCmd)
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage your sites",
}

var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sites",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sites, err := apiClient().ListSites(ctx)
		if err != nil {
			return err
		}

		if len(sites) == 0 {
			fmt.Println("No sites yet. Run 'nyatti create' to launch one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tURL\tKIND\tPLAN\tSTATUS")
		for _, s := range sites {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.URL, s.Kind, s.PlanType, s.Status)
		}
		return w.Flush()
	},
}

var sitesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one site in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		site, err := apiClient().GetSite(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:      %s\n", site.Name)
		fmt.Printf("URL:       %s\n", site.URL)
		fmt.Printf("Kind:      %s\n", site.Kind)
		fmt.Printf("Plan:      %s\n", site.PlanType)
		fmt.Printf("Status:    %s\n", site.Status)
		fmt.Printf("Subdomain: %s\n", site.Subdomain)
		if site.TemplateID != nil {
			fmt.Printf("Template:  %s\n", *site.TemplateID)
		}
		if len(site.Pages) > 0 {
			fmt.Printf("Pages:     %v\n", site.Pages)
		}
		if len(site.Features) > 0 {
			fmt.Printf("Features:  %v\n", site.Features)
		}
		return nil
	},
}

var sitesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a site",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		fmt.Printf("Delete site %s? This cannot be undone. [y/N]: ", args[0])
		var response string
		_, _ = fmt.Scanln(&response)
		if response != "y" && response != "Y" && response != "yes" {
			fmt.Println("Canceled.")
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := apiClient().DeleteSite(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("✓ Site deleted")
		return nil
	},
}
