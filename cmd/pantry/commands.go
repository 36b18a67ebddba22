// cmd/pantry/commands.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ammerola/pantry-be/internal/adapters/capture"
	"github.com/ammerola/pantry-be/internal/core/domain"
)

var (
	addCategory    string
	listSearch     string
	listCategory   string
	exportOutput   string
	exportSearch   string
	exportCategory string
	classifyImage  string
)

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add one unit of an item, creating it when missing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := client.namespace()
		if err != nil {
			return err
		}
		quantity, err := client.inventory.AddOne(cmd.Context(), ns, args[0], addCategory)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", domain.NormalizeKey(args[0]), quantity)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove one unit of an item, deleting it at zero",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := client.namespace()
		if err != nil {
			return err
		}
		remaining, err := client.inventory.RemoveOneOrDelete(cmd.Context(), ns, args[0])
		if err != nil {
			return err
		}
		printRemaining(cmd, domain.NormalizeKey(args[0]), remaining)
		return nil
	},
}

var removeAllCmd = &cobra.Command{
	Use:   "remove-all NAME",
	Short: "Delete an item regardless of quantity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := client.namespace()
		if err != nil {
			return err
		}
		if err := client.inventory.RemoveAll(cmd.Context(), ns, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted\n", domain.NormalizeKey(args[0]))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := client.namespace()
		if err != nil {
			return err
		}
		items, err := client.inventory.ListFiltered(cmd.Context(), ns, listSearch, listCategory)
		if err != nil {
			return err
		}
		client.printItems(cmd.OutOrStdout(), items)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals per category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := client.namespace()
		if err != nil {
			return err
		}
		summary, err := client.inventory.Summary(cmd.Context(), ns)
		if err != nil {
			return err
		}
		client.printSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export csv|pdf|xlsx",
	Short: "Write the filtered inventory to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := client.namespace()
		if err != nil {
			return err
		}
		format, err := domain.ParseExportFormat(args[0])
		if err != nil {
			return err
		}

		report, err := client.exports.Export(cmd.Context(), ns, format, exportSearch, exportCategory)
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			path = report.Filename
		}
		if err := os.WriteFile(path, report.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d items to %s\n", report.ItemCount, path)
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify NAME",
	Short: "Classify an image and attach the label to an item",
	Long: `Classifies --image, or a snapshot from the configured capture source when
--image is omitted, and stores the label on the item.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if client.classification == nil {
			return fmt.Errorf("classifier is not configured: set GENAI_API_KEY")
		}
		ns, err := client.namespace()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		var item *domain.Item
		if classifyImage != "" {
			image, err := capture.NewFileCapturer(classifyImage, client.logger).Capture(ctx)
			if err != nil {
				return err
			}
			item, err = client.classification.ClassifyItem(ctx, ns, args[0], image)
			if err != nil {
				return err
			}
		} else {
			item, err = client.classification.CaptureAndClassify(ctx, ns, args[0])
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", item.Name, item.Classification)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", domain.CategoryFood, "category for a new item")

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "case-insensitive name filter")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", domain.CategoryAll, "category filter")

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default inventory.<format>)")
	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "case-insensitive name filter")
	exportCmd.Flags().StringVarP(&exportCategory, "category", "c", domain.CategoryAll, "category filter")

	classifyCmd.Flags().StringVarP(&classifyImage, "image", "i", "", "image file to classify")
}

func printRemaining(cmd *cobra.Command, name string, remaining int) {
	if remaining == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted\n", name)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", name, remaining)
}
