package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

var (
	assetsLimit  int
	assetsSearch string
	assetsJSON   bool
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Browse market data",
	Long:  `List and inspect assets reported by the market feed.`,
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets by market cap rank",
	Long: `List assets by market cap rank. Selected assets are marked with [x].

With --search the feed is queried for matching assets; if it finds none,
the current listing is ranked locally, tolerating small typos.`,
	Args: cobra.NoArgs,
	RunE: runAssetsList,
}

var assetsShowCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show details for one or more assets",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAssetsShow,
}

func init() {
	assetsListCmd.Flags().IntVarP(&assetsLimit, "limit", "n", 0, "number of assets (default from settings)")
	assetsListCmd.Flags().StringVarP(&assetsSearch, "search", "s", "", "filter by name, symbol or id")
	assetsListCmd.Flags().BoolVar(&assetsJSON, "json", false, "output assets as JSON")
	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsShowCmd)
	rootCmd.AddCommand(assetsCmd)
}

func runAssetsList(cmd *cobra.Command, _ []string) error {
	if assetService == nil {
		return errNoAssets
	}
	ctx := commandContext(cmd)
	term := strings.TrimSpace(assetsSearch)

	assets, err := assetService.List(ctx, domain.AssetQuery{Limit: assetsLimit, Search: term})
	if err != nil {
		return fmt.Errorf("failed to list assets: %w", err)
	}
	if term != "" && len(assets) == 0 {
		all, err := assetService.List(ctx, domain.AssetQuery{Limit: assetsLimit})
		if err != nil {
			return fmt.Errorf("failed to list assets: %w", err)
		}
		assets = assetService.Search(all, term)
	}

	if assetsJSON {
		return writeJSON(cmd.OutOrStdout(), assets)
	}
	writeAssetTable(cmd.OutOrStdout(), assets)
	return nil
}

func runAssetsShow(cmd *cobra.Command, args []string) error {
	if assetService == nil {
		return errNoAssets
	}

	ids := make([]domain.AssetID, len(args))
	for i, a := range args {
		ids[i] = domain.AssetID(strings.TrimSpace(a))
	}

	assets, err := assetService.Lookup(commandContext(cmd), ids)
	if err != nil {
		return fmt.Errorf("failed to look up assets: %w", err)
	}

	found := make(map[domain.AssetID]bool, len(assets))
	out := cmd.OutOrStdout()
	for i := range assets {
		found[assets[i].ID] = true
		if i > 0 {
			fmt.Fprintln(out)
		}
		writeAssetDetail(out, assets[i])
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, strings.Join(missing, ", "))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeAssetTable(w io.Writer, assets []domain.Asset) {
	if len(assets) == 0 {
		fmt.Fprintln(w, "No assets found.")
		return
	}
	for i := range assets {
		a := &assets[i]
		fmt.Fprintf(w, "%s %4s  %-8s %-24s %16s USD  %8s today\n",
			selectionMark(a.ID), a.Rank, a.Symbol, truncate(a.DisplayName(), 24),
			a.FormatPrice(), signedChange(*a))
	}
}

func writeAssetDetail(w io.Writer, a domain.Asset) {
	fmt.Fprintf(w, "%s (%s)\n", a.DisplayName(), a.Symbol)
	fmt.Fprintf(w, "  ID:         %s\n", a.ID)
	fmt.Fprintf(w, "  Rank:       %s\n", orDash(a.Rank))
	fmt.Fprintf(w, "  Price:      %s USD\n", a.FormatPrice())
	fmt.Fprintf(w, "  Change 24h: %s\n", signedChange(a))
	fmt.Fprintf(w, "  Market cap: %s USD\n", orDash(a.MarketCapUSD))
	fmt.Fprintf(w, "  Volume 24h: %s USD\n", orDash(a.VolumeUSD24Hr))
	fmt.Fprintf(w, "  VWAP 24h:   %s USD\n", orDash(a.VWAP24Hr))
	fmt.Fprintf(w, "  Supply:     %s\n", orDash(a.Supply))
	fmt.Fprintf(w, "  Max supply: %s\n", orDash(a.MaxSupply))
	fmt.Fprintf(w, "  Selected:   %t\n", selectionService != nil && selectionService.Contains(a.ID))
}

func selectionMark(id domain.AssetID) string {
	if selectionService != nil && selectionService.Contains(id) {
		return "[x]"
	}
	return "[ ]"
}

// signedChange prefixes increases with "+" so the sign is visible without colour.
func signedChange(a domain.Asset) string {
	if a.IsIncreasing() {
		return "+" + a.FormatChange()
	}
	return a.FormatChange()
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
