package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/app"
	"github.com/abhisek/mathdrill/internal/screens/home"
	"github.com/abhisek/mathdrill/internal/screens/practice"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start practicing one skill right away",
	Example: `  mathdrill play --grade 3 --skill G.1
  mathdrill play --grade K --skill B.1 --user sam`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gradeTag, _ := cmd.Flags().GetString("grade")
		skillID, _ := cmd.Flags().GetString("skill")

		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		sel, err := env.selection(gradeTag, skillID)
		if err != nil {
			return err
		}

		return app.Run(app.Options{
			Root:   home.New(env.homeOptions()),
			Start:  practice.New(sel, env.practiceDeps()),
			User:   env.cfg.UserID,
			Logger: env.log,
		})
	},
}

func init() {
	playCmd.Flags().String("grade", "", "Grade tag: PK, K, 1-8, Alg1, Alg2 (required)")
	playCmd.Flags().String("skill", "", "Skill id within the grade, e.g. G.1 (required)")
	_ = playCmd.MarkFlagRequired("grade")
	_ = playCmd.MarkFlagRequired("skill")
}
