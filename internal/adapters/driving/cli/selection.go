package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

var (
	selectionJSON    bool
	selectionDetails bool
)

var selectionCmd = &cobra.Command{
	Use:     "selection",
	Aliases: []string{"sel"},
	Short:   "Manage selected assets",
	Long: `View and change the persistent set of selected assets.

The selection is stored under the "selected-assets" key of the configured
storage backend and shared with the TUI.`,
}

var selectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List selected asset IDs",
	Args:  cobra.NoArgs,
	RunE:  runSelectionList,
}

var selectionToggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "Select or deselect assets",
	Long: `Toggle each asset in the order given: selected assets are removed,
anything else is appended to the selection.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSelectionToggle,
}

var selectionContainsCmd = &cobra.Command{
	Use:   "contains <id>",
	Short: "Report whether an asset is selected",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelectionContains,
}

func init() {
	selectionListCmd.Flags().BoolVar(&selectionJSON, "json", false, "output as JSON")
	selectionListCmd.Flags().BoolVar(&selectionDetails, "details", false, "fetch market data for each selected asset")
	selectionCmd.AddCommand(selectionListCmd)
	selectionCmd.AddCommand(selectionToggleCmd)
	selectionCmd.AddCommand(selectionContainsCmd)
	rootCmd.AddCommand(selectionCmd)
}

func runSelectionList(cmd *cobra.Command, _ []string) error {
	if selectionService == nil {
		return errNoSelection
	}
	out := cmd.OutOrStdout()

	if selectionDetails {
		if assetService == nil {
			return errNoAssets
		}
		assets, err := assetService.Selected(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to load selected assets: %w", err)
		}
		if selectionJSON {
			return writeJSON(out, assets)
		}
		if len(assets) == 0 {
			fmt.Fprintln(out, "No assets selected.")
			return nil
		}
		writeAssetTable(out, assets)
		return nil
	}

	set := selectionService.Selected()
	if selectionJSON {
		return writeJSON(out, set.Strings())
	}
	if set.IsEmpty() {
		fmt.Fprintln(out, "No assets selected.")
		return nil
	}
	for _, id := range set.IDs() {
		fmt.Fprintln(out, id)
	}
	return nil
}

func runSelectionToggle(cmd *cobra.Command, args []string) error {
	if selectionService == nil {
		return errNoSelection
	}
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	for _, arg := range args {
		id := domain.AssetID(strings.TrimSpace(arg))
		if id == "" {
			return fmt.Errorf("%w: empty asset id", domain.ErrInvalidInput)
		}
		set := selectionService.Toggle(ctx, id)
		if set.Contains(id) {
			fmt.Fprintf(out, "selected %s\n", id)
		} else {
			fmt.Fprintf(out, "deselected %s\n", id)
		}
	}
	return nil
}

func runSelectionContains(cmd *cobra.Command, args []string) error {
	if selectionService == nil {
		return errNoSelection
	}
	id := domain.AssetID(strings.TrimSpace(args[0]))
	fmt.Fprintln(cmd.OutOrStdout(), selectionService.Contains(id))
	return nil
}
