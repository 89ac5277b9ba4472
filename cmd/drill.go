package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/engine"
	"github.com/abhisek/mathdrill/internal/schedule"
	"github.com/abhisek/mathdrill/internal/session"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Practice a skill in a plain question-and-answer loop",
	Long: `Drill asks the questions of one skill on stdout and reads answers from
stdin, one per line. Progress is recorded exactly as in the TUI.

For multiple-choice questions answer with the option number. Type q to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gradeTag, _ := cmd.Flags().GetString("grade")
		skillID, _ := cmd.Flags().GetString("skill")
		count, _ := cmd.Flags().GetInt("count")

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		sel, err := env.selection(gradeTag, skillID)
		if err != nil {
			return err
		}
		return runDrill(cmd.InOrStdin(), cmd.OutOrStdout(), drillOptions{
			Selection: sel,
			Source:    env.src,
			Sink:      env.sink,
			Logger:    env.log,
			Config:    env.cfg.SessionSettings(),
			Count:     count,
		})
	},
}

func init() {
	drillCmd.Flags().String("grade", "", "Grade tag: PK, K, 1-8, Alg1, Alg2 (required)")
	drillCmd.Flags().String("skill", "", "Skill id within the grade (required)")
	drillCmd.Flags().Int("count", 10, "Number of questions to ask, 0 for no limit")
	_ = drillCmd.MarkFlagRequired("grade")
	_ = drillCmd.MarkFlagRequired("skill")
}

type drillOptions struct {
	Selection session.Selection
	Source    bank.Source
	Sink      session.ProgressSink
	Logger    *zap.Logger
	Config    session.Config
	Count     int
}

const drillWidth = 60

// runDrill drives a controller from a line reader. Virtual time stands in
// for the feedback delay: each answer advances it past the pending advance.
func runDrill(in io.Reader, out io.Writer, opts drillOptions) error {
	clock := schedule.NewManual()
	ctl := session.New(session.Options{
		Source:    opts.Source,
		Sink:      opts.Sink,
		Scheduler: clock,
		Logger:    opts.Logger,
		Config:    opts.Config,
	})
	engines := engine.Default()

	ctl.ResetForSelection(opts.Selection)
	defer ctl.Wait()
	defer ctl.End()

	sel := opts.Selection
	fmt.Fprintf(out, "%s · %s %s (%d questions)\n\n",
		sel.Grade.DisplayName(), sel.Skill.ID, sel.Skill.Label, ctl.Len())
	if ctl.Len() == 0 {
		fmt.Fprintln(out, "No questions found for this grade/skill yet.")
		return nil
	}

	scanner := bufio.NewScanner(in)
	for i := 1; opts.Count <= 0 || i <= opts.Count; i++ {
		q, _ := ctl.Current()
		choices := engines.Choices(q.Engine, q.Data)

		fmt.Fprintf(out, "── Question %d ──\n", i)
		if q.Prompt != "" {
			fmt.Fprintln(out, q.Prompt)
		}
		if body := engines.Lookup(q.Engine).Render(q.Data, drillWidth); body != "" {
			fmt.Fprintln(out, body)
		}
		for j, c := range choices {
			fmt.Fprintf(out, "  %d) %s\n", j+1, c.Label)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" {
			fmt.Fprintln(out)
			break
		}

		res, _ := ctl.Submit(pickChoice(line, choices))
		if res.Correct {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintf(out, "✗ Not quite. Answer: %s\n", res.Question.Answer)
		}
		fmt.Fprintf(out, "SmartScore %d  Streak %d\n", res.Score, res.Streak)
		if res.Celebrate {
			fmt.Fprintln(out, "✦ Amazing! SmartScore 90+ ✦")
		}
		fmt.Fprintln(out)

		clock.Advance(ctl.Config().FeedbackDelay)
	}

	sum := ctl.Summary()
	fmt.Fprintf(out, "── Summary: %d/%d correct, SmartScore %d, best streak %d ──\n",
		sum.Correct, sum.Answered, sum.FinalScore, sum.BestStreak)
	return nil
}

// pickChoice maps an option number to its value. Anything else is submitted
// as typed.
func pickChoice(line string, choices []engine.Choice) string {
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1].Value
	}
	return line
}
