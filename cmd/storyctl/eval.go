package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/storyplaces/pkg/conditions"
	"github.com/jwebster45206/storyplaces/pkg/story"
)

type evalOptions struct {
	lat       float64
	lon       float64
	vars      []string
	condition string
	at        string
	timeZone  string
}

// fix is a fixed position, or no fix at all when ok is false.
type fix struct {
	loc conditions.LocationInformation
	ok  bool
}

func (f fix) Location() (conditions.LocationInformation, bool) {
	return f.loc, f.ok
}

func evalCmd() *cobra.Command {
	opts := &evalOptions{}
	cmd := &cobra.Command{
		Use:   "eval <story-file>",
		Short: "Evaluate a condition, or gate every page, for a simulated reader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasFix := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
			if hasFix && !(cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")) {
				return fmt.Errorf("--lat and --lon must be given together")
			}
			return runEval(cmd.OutOrStdout(), args[0], opts, hasFix)
		},
	}
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "reader latitude")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "reader longitude")
	cmd.Flags().StringArrayVar(&opts.vars, "var", nil, "variable as name=value, repeatable")
	cmd.Flags().StringVar(&opts.condition, "condition", "", "evaluate only this condition id")
	cmd.Flags().StringVar(&opts.at, "at", "", "evaluation time as RFC 3339 (default now)")
	cmd.Flags().StringVar(&opts.timeZone, "tz", "Local", "time zone for time-of-day ranges")
	return cmd
}

func runEval(out io.Writer, path string, opts *evalOptions, hasFix bool) error {
	s, err := story.Load(path)
	if err != nil {
		return err
	}

	now := time.Now()
	if opts.at != "" {
		now, err = time.Parse(time.RFC3339, opts.at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
	}
	zone, err := time.LoadLocation(opts.timeZone)
	if err != nil {
		return fmt.Errorf("invalid --tz: %w", err)
	}
	vars, err := parseVars(opts.vars, now)
	if err != nil {
		return err
	}

	position := fix{ok: hasFix, loc: conditions.LocationInformation{Latitude: opts.lat, Longitude: opts.lon}}
	env := s.Env(vars, position)
	env.Now = func() time.Time { return now }
	env.TimeZone = zone

	if opts.condition != "" {
		return evalCondition(out, s, opts.condition, env)
	}
	printPages(out, s.EvaluatePages(env))
	return nil
}

func evalCondition(out io.Writer, s *story.Story, id string, env conditions.Env) error {
	cond, ok := s.Conditions.Get(id)
	if !ok {
		return &conditions.ConditionNotFoundError{ID: id}
	}
	result, err := cond.Evaluate(env)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", id, err)
	}
	fmt.Fprintf(out, "%s (%s): %t\n", id, typeTitle(cond.Type()), result)
	return nil
}

func printPages(out io.Writer, statuses []story.PageStatus) {
	for _, status := range statuses {
		mark := "blocked"
		if status.Visible {
			mark = "visible"
		}
		line := fmt.Sprintf("%-8s %s", mark, status.Page.ID)
		if status.Page.Name != "" {
			line += fmt.Sprintf(" (%s)", status.Page.Name)
		}
		if status.Err != nil {
			line += ": " + status.Err.Error()
		}
		fmt.Fprintln(out, line)
	}
}

// typeTitle renders a condition type for people, e.g. "timepassed" as "Time Passed".
func typeTitle(t conditions.Type) string {
	name := string(t)
	if rest, ok := strings.CutPrefix(name, "time"); ok && rest != "" {
		name = "time " + rest
	}
	return cases.Title(language.English).String(name)
}

// parseVars turns name=value pairs into a variable store stamped with now.
func parseVars(pairs []string, now time.Time) (conditions.Variables, error) {
	vars := make(conditions.Variables, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", pair)
		}
		vars.Set(conditions.ParseReference(strings.TrimSpace(name)), value, now.Unix())
	}
	return vars, nil
}
