package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/storyplaces/pkg/story"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <story-file>",
		Short: "Check a story's pages, conditions and locations for authoring errors",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := args[0]

	if err := checkFilename(path); err != nil {
		return err
	}
	s, err := story.Load(path)
	if err != nil {
		return err
	}

	var errorIssues, warnIssues []story.Issue
	for _, issue := range s.Validate() {
		switch issue.Severity {
		case story.SeverityError:
			errorIssues = append(errorIssues, issue)
		case story.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintf(out, "%s is valid: %d pages, %d conditions, %d locations.\n",
			path, len(s.Pages), s.Conditions.Len(), len(s.Locations))
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}

	if len(errorIssues) > 0 {
		return errors.New("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []story.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
}
