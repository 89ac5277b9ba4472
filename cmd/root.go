package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/app"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/home"
	"github.com/abhisek/mathdrill/internal/screens/welcome"
)

var rootCmd = &cobra.Command{
	Use:   "mathdrill",
	Short: "Adaptive math practice in the terminal",
	Long: `MathDrill serves practice questions by grade and skill, checks typed or
picked answers, and tracks a 0-100 SmartScore per skill.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		homeScreen := home.New(env.homeOptions())
		return app.Run(app.Options{
			Root:   welcome.New(func() screen.Screen { return homeScreen }),
			User:   env.cfg.UserID,
			Logger: env.log,
		})
	},
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file (overrides MATHDRILL_CONFIG)")
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite database file (overrides MATHDRILL_DB)")
	rootCmd.PersistentFlags().String("banks", "", "Directory of extra question bank files (overrides MATHDRILL_BANKS)")
	rootCmd.PersistentFlags().String("user", "", "Learner id (overrides MATHDRILL_USER)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
