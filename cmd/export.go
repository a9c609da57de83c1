package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/devandanger/firebase-utils/core/canonical"
	"github.com/devandanger/firebase-utils/core/config"
	"github.com/devandanger/firebase-utils/core/export"
	"github.com/devandanger/firebase-utils/core/filter"
	"github.com/devandanger/firebase-utils/core/firestore"
	"github.com/devandanger/firebase-utils/core/logger"
	"github.com/devandanger/firebase-utils/core/render"
	"github.com/devandanger/firebase-utils/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the export command
	exportSide    string
	exportFormat  string
	exportOutput  string
	exportUpload  bool
	exportFilters []string
	exportKeyPath string
)

// exportCmd writes a normalized snapshot of a document or collection.
var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export a normalized snapshot of a document or collection",
	Long: `Export the canonical (normalized, tag-resolved, stably ordered) form
of a document or collection from one side, for archiving or later
offline comparison.

A path containing an odd number of segments addresses a collection
("users", "users/u1/orders"); an even number addresses a document
("users/u1").

Examples:
  firebase-utils export users --side source -o users.json
  firebase-utils export users/u1 --side target --format yaml -o u1.yaml
  firebase-utils export users --upload`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSide, "side", "source", "Project side to export (source, target)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Snapshot format (json, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: derived from the path)")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Also upload the snapshot to configured object storage")
	exportCmd.Flags().StringArrayVar(&exportFilters, "filter", nil, "Filter predicate (repeatable, collections only)")
	exportCmd.Flags().StringVar(&exportKeyPath, "key", "", "Dotted sort-key path for collection snapshots")

	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	sideCfg := cfg.Source
	if exportSide == "target" {
		sideCfg = cfg.Target
	} else if exportSide != "source" {
		return fmt.Errorf("unknown side %q (expected source or target)", exportSide)
	}

	client, err := firestore.NewClient(sideCfg)
	if err != nil {
		return fmt.Errorf("%s client: %w", exportSide, err)
	}

	format, err := render.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	snapshot, err := fetchSnapshot(cmd.Context(), client, path)
	if err != nil {
		return err
	}

	output := exportOutput
	if output == "" {
		output = defaultExportName(path, format)
	}
	if err := export.WriteFile(output, snapshot, format); err != nil {
		return err
	}
	l.Info("Snapshot written", zap.String("path", path), zap.String("file", output))

	if exportUpload {
		if !cfg.Storage.Enabled {
			return fmt.Errorf("storage uploads are not enabled (set STORAGE_ENABLED=true)")
		}
		storageClient, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		uploader := export.NewUploader(storageClient, cfg.Storage.Bucket)
		if err := uploader.Upload(context.Background(), output, snapshot, format); err != nil {
			return err
		}
		l.Info("Snapshot uploaded", zap.String("bucket", cfg.Storage.Bucket), zap.String("object", output))
	}

	return nil
}

// fetchSnapshot fetches and normalizes either one document or a full
// collection, depending on the path depth.
func fetchSnapshot(ctx context.Context, client firestore.Client, path string) (any, error) {
	if isDocumentPath(path) {
		rec, err := client.GetDocument(ctx, path)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("document %q not found", path)
		}
		return canonical.NormalizeDocument(rec.Document(), canonical.Options{IncludeMetadata: true}), nil
	}

	filters, err := filter.ParseAll(exportFilters)
	if err != nil {
		return nil, err
	}
	records, err := client.ListCollection(ctx, firestore.CollectionSpec{Path: path, Filters: filters})
	if err != nil {
		return nil, err
	}

	docs := make([]*canonical.Document, len(records))
	for i, rec := range records {
		docs[i] = rec.Document()
	}
	return canonical.NormalizeCollection(docs, canonical.Options{IncludeMetadata: true}, exportKeyPath), nil
}

// isDocumentPath reports whether the path has an even segment count
// (collection/doc pairs all the way down).
func isDocumentPath(path string) bool {
	segments := 1
	for _, r := range path {
		if r == '/' {
			segments++
		}
	}
	return segments%2 == 0
}

// defaultExportName derives a file name from the exported path.
func defaultExportName(path string, format render.Format) string {
	ext := "json"
	if format == render.FormatYAML {
		ext = "yaml"
	}
	return fmt.Sprintf("%s.%s", strings.ReplaceAll(path, "/", "_"), ext)
}
