package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/pipeline"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals"},
	Short:   "Savings goals",
	RunE:    runGoalList,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with progress",
	Args:  cobra.NoArgs,
	RunE:  runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:     "add TARGET TITLE...",
	Short:   "Create a savings goal",
	Example: "  khata goal add 80000 New laptop",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runGoalAdd,
}

var goalDepositCmd = &cobra.Command{
	Use:   "deposit ID AMOUNT",
	Short: "Add savings towards a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalDeposit,
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalDelete,
}

func init() {
	goalCmd.AddCommand(goalListCmd, goalAddCmd, goalDepositCmd, goalDeleteCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoalList(_ *cobra.Command, _ []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	goals := book.Snapshot().Goals
	if len(goals) == 0 {
		fmt.Println("\n  No goals yet. Try: khata goal add 80000 New laptop")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS GOALS"))
	fmt.Println()

	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, []string{
			ledger.ShortID(g.ID),
			truncate(g.Title, 24),
			money(g.CurrentAmount),
			money(g.TargetAmount),
			cli.RenderProgressBar(pipeline.GoalProgressPercent(g), 16),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Goal", "Saved", "Target", "Progress"},
		Rows:    rows,
	}))
	return nil
}

func runGoalAdd(_ *cobra.Command, args []string) error {
	target, err := parseAmount(args[0])
	if err != nil {
		return err
	}

	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := book.AddGoal(strings.Join(args[1:], " "), target)
	if err != nil {
		return err
	}
	fmt.Printf("  Added goal %q, target %s  %s\n", g.Title, money(g.TargetAmount), cli.RenderMuted(ledger.ShortID(g.ID)))
	return nil
}

func runGoalDeposit(_ *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindGoal, args[0])
	if err != nil {
		return err
	}
	if err := book.UpdateGoalAmount(id, amount); err != nil {
		return err
	}

	for _, g := range book.Snapshot().Goals {
		if g.ID == id {
			fmt.Printf("  %s: %s of %s  %s\n", g.Title, money(g.CurrentAmount), money(g.TargetAmount),
				cli.RenderProgressBar(pipeline.GoalProgressPercent(g), 16))
		}
	}
	return nil
}

func runGoalDelete(_ *cobra.Command, args []string) error {
	book, st, err := openBook()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := ledger.Resolve(book.Snapshot(), ledger.KindGoal, args[0])
	if err != nil {
		return err
	}
	if err := book.DeleteGoal(id); err != nil {
		return declined(err)
	}
	fmt.Printf("  Deleted goal %s\n", cli.RenderMuted(ledger.ShortID(id)))
	return nil
}
