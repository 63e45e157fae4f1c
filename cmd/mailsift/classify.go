package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mailsift/mailsift/internal/classify"
	"github.com/mailsift/mailsift/internal/cli"
	"github.com/mailsift/mailsift/internal/model"
)

func classifyCmd() *cobra.Command {
	var (
		subject  string
		body     string
		fromAddr string
		fromName string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single ad-hoc email",
		Long: `Classify one email given on the command line and print the full
diagnostic trace: chosen category, score, confidence and every matched
pattern.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, closeStore := openRegistry(cmd.Context())
			defer closeStore()

			email := model.Email{
				ID:               "adhoc",
				Subject:          subject,
				BodyPreview:      body,
				ReceivedDateTime: time.Now(),
				From: model.Recipient{EmailAddress: model.EmailAddress{
					Address: fromAddr,
					Name:    fromName,
				}},
			}

			classifier := classify.New(reg.Patterns())
			result, err := classifier.Classify(&email)
			if err != nil {
				return err
			}

			printResult(&result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Email subject")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Email body text")
	cmd.Flags().StringVar(&fromAddr, "from", "", "Sender address")
	cmd.Flags().StringVar(&fromName, "from-name", "", "Sender display name")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func printResult(result *model.ClassificationResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Category:   %s\n", result.Category))
	sb.WriteString(fmt.Sprintf("Score:      %d\n", result.Score))
	sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", result.Confidence))
	sb.WriteString(fmt.Sprintf("Reason:     %s\n", result.Reason))
	if result.IsSpam {
		sb.WriteString(cli.FormatWarning("flagged as spam") + "\n")
	}
	if result.IsCC {
		sb.WriteString("Broadcast:  yes\n")
	}

	if len(result.MatchedPatterns) > 0 {
		sb.WriteString("\nMatched patterns:\n")
		for _, mp := range result.MatchedPatterns {
			sb.WriteString(fmt.Sprintf("  [%-9s] %-24s %+d\n", mp.Tier, mp.Keyword, mp.Weight))
		}
	}

	fmt.Println(cli.RenderBox("Classification", strings.TrimRight(sb.String(), "\n")))
}
