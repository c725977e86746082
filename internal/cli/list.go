package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
)

var (
	listCategory string
	listSearch   string
	listSort     string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Long: `List projects, optionally filtered and sorted.

Examples:
  catalogctl list
  catalogctl list --category game --sort az
  catalogctl list --search neural --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sort, err := catalog.ParseSort(listSort)
		if err != nil {
			return err
		}
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.Repo.List(cmd.Context())
		if err != nil {
			return err
		}
		projects := catalog.Query{Category: listCategory, Search: listSearch, Sort: sort}.Apply(all)
		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(projects)
		}
		return printTable(cmd.OutOrStdout(), projects)
	},
}

func printTable(out io.Writer, projects []*catalog.Project) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE\tTAG\tCREATED")
	for _, p := range projects {
		tag := "-"
		if p.Tag != nil {
			tag = *p.Tag
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Category, truncate(p.Title, 40), tag, p.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-3])) + "..."
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only show this category")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive text search")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort order: newest, oldest, az, za")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print JSON instead of a table")
}
