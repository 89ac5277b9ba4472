package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/screens/progress"
	"github.com/abhisek/mathdrill/internal/store"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show stored SmartScores and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetBool("history")
		all, _ := cmd.Flags().GetBool("all")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		user := cfg.UserID
		if all {
			user = ""
		}
		return printProgress(cmd, st, user, history)
	},
}

func init() {
	progressCmd.Flags().Bool("history", false, "Show the score history of each skill")
	progressCmd.Flags().Bool("all", false, "Show every learner, not just the configured user")
}

func printProgress(cmd *cobra.Command, st *store.Store, user string, history bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	rows, err := st.ProgressRepo().List(ctx, store.ProgressQuery{UserID: user})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No progress recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "%-10s  %-12s  %-6s  %5s  %8s  %s\n", "User", "Grade", "Skill", "Score", "Answered", "Updated")
	fmt.Fprintln(out, strings.Repeat("─", 70))
	for _, r := range rows {
		fmt.Fprintf(out, "%-10s  %-12s  %-6s  %5d  %8d  %s\n",
			r.UserID, gradeName(r.Grade), r.SkillID, r.CurrentScore, r.TotalAnswered,
			r.UpdatedAt.Format("2006-01-02 15:04"))
		if history {
			pts, err := st.ProgressRepo().History(ctx, r.UserID, r.Grade, r.SkillID, 40)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%12s%s\n", "", progress.Sparkline(pts))
		}
	}

	sessions, err := st.EventRepo().RecentSessions(ctx, user, 10)
	if err != nil {
		return err
	}
	printSessions(out, sessions)
	return nil
}

func printSessions(out io.Writer, events []store.SessionEventRecord) {
	var ended []store.SessionEventRecord
	for _, e := range events {
		if e.Action == store.SessionEnd {
			ended = append(ended, e)
		}
	}
	if len(ended) == 0 {
		return
	}
	fmt.Fprintln(out, "\nRecent sessions")
	for _, e := range ended {
		fmt.Fprintf(out, "  %s  %-12s %-6s  %2d/%-2d correct  score %3d  %d:%02d\n",
			e.At.Format("2006-01-02 15:04"), gradeName(e.Grade), e.SkillID,
			e.Correct, e.Answered, e.FinalScore, e.DurationSecs/60, e.DurationSecs%60)
	}
}

func gradeName(tag string) string {
	if g, err := bank.ParseGrade(tag); err == nil {
		return g.DisplayName()
	}
	return tag
}
