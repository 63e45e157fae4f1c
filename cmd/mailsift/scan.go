package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mailsift/mailsift/internal/cli"
	"github.com/mailsift/mailsift/internal/common"
	"github.com/mailsift/mailsift/internal/config"
	"github.com/mailsift/mailsift/internal/model"
	"github.com/mailsift/mailsift/internal/scanner"
	"github.com/mailsift/mailsift/internal/service"
	"github.com/mailsift/mailsift/internal/source"
	"github.com/mailsift/mailsift/internal/source/imap"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Categorize a batch of emails",
		Long: `Run the categorization engine over a set of emails and print
per-category counts and confidence statistics.

Emails come either from a JSON dump (--input) or straight from an IMAP
inbox (--imap, connection settings from the config file).`,
		RunE: runScan,
	}

	cmd.Flags().StringP("input", "i", "", "JSON file of email records")
	cmd.Flags().Bool("imap", false, "Fetch emails from the configured IMAP inbox")
	cmd.Flags().IntP("limit", "n", 0, "Maximum number of emails to scan (0 = all)")
	cmd.Flags().IntP("workers", "w", 1, "Parallel classification workers")
	cmd.Flags().Bool("json", false, "Emit results and summary as JSON")

	_ = viper.BindPFlag("scan.input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("scan.imap", cmd.Flags().Lookup("imap"))
	_ = viper.BindPFlag("scan.limit", cmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("scan.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("scan.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var src service.EmailSource
	switch {
	case viper.GetBool("scan.imap"):
		src = imap.NewClient(
			viper.GetString("imap.host"),
			viper.GetString("imap.port"),
			viper.GetString("imap.username"),
			viper.GetString("imap.password"),
			viper.GetBool("imap.tls"),
		)
	case viper.GetString("scan.input") != "":
		src = source.NewJSONFile(config.ExpandPath(viper.GetString("scan.input")))
	default:
		return common.NewUserError("no email source: pass --input FILE or --imap", nil)
	}

	emails, err := src.FetchEmails(ctx, viper.GetInt("scan.limit"))
	if err != nil {
		return common.NewUserError("failed to load emails", err)
	}
	if len(emails) == 0 {
		return common.ErrNoEmails
	}

	reg, closeStore := openRegistry(ctx)
	defer closeStore()

	jsonOut := viper.GetBool("scan.json")

	var bar *progressbar.ProgressBar
	opts := scanner.Options{Workers: viper.GetInt("scan.workers")}
	if !jsonOut {
		bar = progressbar.NewOptions(len(emails),
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.Progress = func(processed, _ int) {
			_ = bar.Set(processed)
		}
	}

	sc := scanner.New(reg.Patterns(), opts)
	scanned, summary, err := sc.Scan(ctx, emails)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Summary *scanner.Summary     `json:"summary"`
			Results []model.ScannedEmail `json:"results"`
		}{Summary: summary, Results: scanned})
	}

	printSummary(summary, scanned, reg.Settings().TaskPreselectedCategories)
	return nil
}

func printSummary(summary *scanner.Summary, scanned []model.ScannedEmail, preselected []string) {
	var sb strings.Builder

	type bucket struct {
		id    string
		count int
	}
	buckets := make([]bucket, 0, len(summary.Breakdown))
	for id, count := range summary.Breakdown {
		if count > 0 {
			buckets = append(buckets, bucket{id: id, count: count})
		}
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].id < buckets[j].id
	})

	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("%-16s %d\n", b.id, b.count))
	}

	sb.WriteString(fmt.Sprintf("\nCategorized:     %d / %d\n", summary.Categorized, summary.Total))
	sb.WriteString(fmt.Sprintf("Avg confidence:  %.2f\n", summary.AverageConfidence))
	sb.WriteString(fmt.Sprintf("Avg score:       %.1f\n", summary.AverageScore))
	sb.WriteString(fmt.Sprintf("High confidence: %d\n", summary.HighConfidence))
	sb.WriteString(fmt.Sprintf("Absolute hits:   %d\n", summary.AbsoluteMatches))
	if summary.Errors > 0 {
		sb.WriteString(cli.FormatWarning(pluralize(summary.Errors, "email could not be classified", "emails could not be classified")) + "\n")
	}

	if candidates := taskCandidates(scanned, preselected); candidates > 0 {
		sb.WriteString(fmt.Sprintf("Task candidates: %d\n", candidates))
	}

	if len(summary.TopPatterns) > 0 {
		sb.WriteString("\nTop patterns:\n")
		for _, tp := range summary.TopPatterns {
			sb.WriteString(fmt.Sprintf("  %-24s %d\n", tp.Keyword, tp.Count))
		}
	}

	fmt.Println(cli.RenderBox(fmt.Sprintf("%s Scan results", cli.ChartIcon), strings.TrimRight(sb.String(), "\n")))
}

// taskCandidates counts emails whose category is flagged for downstream
// task creation.
func taskCandidates(scanned []model.ScannedEmail, preselected []string) int {
	flagged := make(map[string]bool, len(preselected))
	for _, id := range preselected {
		flagged[id] = true
	}
	count := 0
	for i := range scanned {
		if flagged[scanned[i].Result.Category] {
			count++
		}
	}
	return count
}
