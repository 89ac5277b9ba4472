package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/catalog"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and validate question banks",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog skills with their question counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		gradeTag, _ := cmd.Flags().GetString("grade")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := catalog.Default()
		if err != nil {
			return err
		}
		src, err := loadBanks(cfg.BanksDir)
		if err != nil {
			return err
		}

		grades := cat.Grades()
		if gradeTag != "" {
			g, err := bank.ParseGrade(gradeTag)
			if err != nil {
				return err
			}
			grades = []bank.Grade{g}
		}
		return listSkills(cmd.OutOrStdout(), cat, src, grades)
	},
}

func listSkills(out io.Writer, cat *catalog.Catalog, src bank.Source, grades []bank.Grade) error {
	fmt.Fprintf(out, "%-12s  %-6s  %-40s  %9s  %s\n", "Grade", "Skill", "Label", "Questions", "Bank")
	fmt.Fprintln(out, strings.Repeat("─", 100))

	total := 0
	for _, g := range grades {
		for _, s := range cat.ByGrade(g) {
			n := 0
			if qs, err := src.Load(s.Bank); err == nil {
				n = len(bank.Filter(qs, s.Selector()))
			}
			label := s.Label
			if len(label) > 40 {
				label = label[:37] + "..."
			}
			if s.Premium {
				label += " *"
			}
			fmt.Fprintf(out, "%-12s  %-6s  %-40s  %9d  %s\n", g.DisplayName(), s.ID, label, n, s.Bank)
			total++
		}
	}
	fmt.Fprintf(out, "\n%d skills (* premium)\n", total)
	return nil
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Validate bank files against the schema and the catalog",
	Long: `Validate loads every *.json file in dir, checks each against the bank
schema, and reports catalog skills whose bank is missing or whose skill code
matches no question once the directory is overlaid on the built-in banks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateBanks(cmd.OutOrStdout(), args[0])
	},
}

func validateBanks(out io.Writer, dir string) error {
	tbl, err := bank.LoadDir(dir)
	if err != nil {
		return err
	}
	for _, id := range tbl.IDs() {
		fmt.Fprintf(out, "ok  %-40s %4d questions\n", id, len(tbl[id]))
	}

	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	merged, err := loadBanks(dir)
	if err != nil {
		return err
	}
	if err := cat.CheckBanks(merged); err != nil {
		return fmt.Errorf("catalog check failed:\n%w", err)
	}
	fmt.Fprintf(out, "\n%d bank files valid\n", len(tbl))
	return nil
}

func init() {
	bankListCmd.Flags().String("grade", "", "Only list skills of this grade")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankValidateCmd)
}
