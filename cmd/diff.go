package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/devandanger/firebase-utils/core/config"
	"github.com/devandanger/firebase-utils/core/database"
	"github.com/devandanger/firebase-utils/core/export"
	"github.com/devandanger/firebase-utils/core/filter"
	"github.com/devandanger/firebase-utils/core/firestore"
	"github.com/devandanger/firebase-utils/core/history"
	"github.com/devandanger/firebase-utils/core/logger"
	"github.com/devandanger/firebase-utils/core/render"
	"github.com/devandanger/firebase-utils/feature/compare"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags shared by the diff subcommands
	diffFields          []string
	diffIgnoreFields    []string
	diffKeyPath         string
	diffFilters         []string
	diffOrderBy         string
	diffLimit           int
	diffStreaming       bool
	diffIncludeMetadata bool
	diffFormat          string
	diffOutput          string
)

// diffCmd is the parent command for all diff operations.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare documents or collections between two projects",
	Long: `Compare Firestore data between the configured source and target
projects and report added, removed and changed fields.

Exit codes: 0 when identical, 1 when differences were found, 2 on error.`,
}

// diffDocumentCmd compares a single document.
var diffDocumentCmd = &cobra.Command{
	Use:   "document <path>",
	Short: "Compare a single document (e.g. users/u1)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiffDocument,
}

// diffCollectionCmd compares a full collection.
var diffCollectionCmd = &cobra.Command{
	Use:   "collection <path>",
	Short: "Compare a collection (e.g. users)",
	Long: `Compare a collection between the two projects.

Records are matched by comparison key (--key, default the document ID)
and partitioned into added, removed and changed.

Examples:
  # Full collection, human-readable
  firebase-utils diff collection users

  # Key on a field, ignore volatile fields, machine-readable
  firebase-utils diff collection users --key profile.email \
    --ignore-fields lastSeen --format json

  # Filtered subset, streamed
  firebase-utils diff collection orders --filter 'status == "open"' --streaming`,
	Args: cobra.ExactArgs(1),
	RunE: runDiffCollection,
}

func init() {
	for _, c := range []*cobra.Command{diffDocumentCmd, diffCollectionCmd} {
		c.Flags().StringSliceVar(&diffFields, "fields", nil, "Allow-list of fields to compare")
		c.Flags().StringSliceVar(&diffIgnoreFields, "ignore-fields", nil, "Fields to exclude from comparison")
		c.Flags().BoolVar(&diffIncludeMetadata, "include-metadata", false, "Compare create/update times as well")
		c.Flags().StringVar(&diffFormat, "format", "pretty", "Output format (pretty, table, json, yaml)")
		c.Flags().StringVarP(&diffOutput, "output", "o", "", "Write the result to a file instead of stdout")
	}

	diffCollectionCmd.Flags().StringVar(&diffKeyPath, "key", "", "Dotted comparison-key path (default: document ID)")
	diffCollectionCmd.Flags().StringArrayVar(&diffFilters, "filter", nil, "Filter predicate, e.g. 'active == true' (repeatable)")
	diffCollectionCmd.Flags().StringVar(&diffOrderBy, "order-by", "", "Server-side ordering field")
	diffCollectionCmd.Flags().IntVar(&diffLimit, "limit", 0, "Maximum records per side (0 = unlimited)")
	diffCollectionCmd.Flags().BoolVar(&diffStreaming, "streaming", false, "Consume records incrementally instead of buffering")

	diffCmd.AddCommand(diffDocumentCmd)
	diffCmd.AddCommand(diffCollectionCmd)
	RootCmd.AddCommand(diffCmd)
}

// buildService loads config and wires the comparison service.
func buildService() (*compare.Service, *config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	source, err := firestore.NewClient(cfg.Source)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("source client: %w", err)
	}
	target, err := firestore.NewClient(cfg.Target)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("target client: %w", err)
	}

	filters, err := filter.ParseAll(diffFilters)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := compare.Options{
		Fields:          diffFields,
		IgnoreFields:    diffIgnoreFields,
		KeyPath:         diffKeyPath,
		Filters:         filters,
		OrderBy:         diffOrderBy,
		Limit:           diffLimit,
		Streaming:       diffStreaming,
		IncludeMetadata: diffIncludeMetadata,
	}

	return compare.NewService(source, target, opts, l), cfg, l, nil
}

func runDiffDocument(cmd *cobra.Command, args []string) error {
	svc, cfg, l, err := buildService()
	if err != nil {
		return err
	}
	defer l.Sync()

	result, err := svc.CompareDocument(context.Background(), args[0])
	if err != nil {
		return err
	}

	recordRun(l, cfg, &history.Run{
		Mode:           "document",
		Path:           args[0],
		Source:         cfg.Source.Project,
		Target:         cfg.Target.Project,
		Changed:        len(result.Differences),
		HasDifferences: result.HasDifferences(),
	})

	format, err := render.ParseFormat(diffFormat)
	if err != nil {
		return err
	}
	if diffOutput != "" {
		if err := export.WriteFile(diffOutput, result, format); err != nil {
			return err
		}
	} else {
		switch format {
		case render.FormatPretty:
			render.PrettyDifferences(os.Stdout, result.Differences)
		case render.FormatTable:
			render.TableDifferences(os.Stdout, result.Differences)
		case render.FormatJSON:
			if err := render.JSON(os.Stdout, result); err != nil {
				return err
			}
		case render.FormatYAML:
			if err := render.YAML(os.Stdout, result); err != nil {
				return err
			}
		}
	}

	if result.HasDifferences() {
		return ErrDifferencesFound
	}
	return nil
}

func runDiffCollection(cmd *cobra.Command, args []string) error {
	svc, cfg, l, err := buildService()
	if err != nil {
		return err
	}
	defer l.Sync()

	result, err := svc.CompareCollection(context.Background(), args[0])
	if err != nil {
		return err
	}

	recordRun(l, cfg, &history.Run{
		Mode:           "collection",
		Path:           args[0],
		Source:         cfg.Source.Project,
		Target:         cfg.Target.Project,
		Added:          len(result.Report.Added),
		Removed:        len(result.Report.Removed),
		Changed:        len(result.Report.Changed),
		HasDifferences: result.HasDifferences(),
	})

	format, err := render.ParseFormat(diffFormat)
	if err != nil {
		return err
	}
	if diffOutput != "" {
		if err := export.WriteFile(diffOutput, result, format); err != nil {
			return err
		}
	} else {
		switch format {
		case render.FormatPretty:
			render.PrettyReport(os.Stdout, result.Report)
		case render.FormatTable:
			render.TableReport(os.Stdout, result.Report)
		case render.FormatJSON:
			if err := render.JSON(os.Stdout, result); err != nil {
				return err
			}
		case render.FormatYAML:
			if err := render.YAML(os.Stdout, result); err != nil {
				return err
			}
		}
	}

	if result.HasDifferences() {
		return ErrDifferencesFound
	}
	return nil
}

// recordRun stores the run summary when the history database is enabled.
// Recording failures are logged, never fatal to the comparison itself.
func recordRun(l *zap.Logger, cfg *config.Config, run *history.Run) {
	if !cfg.Database.Enabled {
		return
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Warn("History database unavailable, run not recorded", zap.Error(err))
		return
	}

	store := history.NewStore(db)
	if err := store.Migrate(); err != nil {
		l.Warn("History migration failed, run not recorded", zap.Error(err))
		return
	}
	if err := store.Record(context.Background(), run); err != nil {
		l.Warn("Failed to record run", zap.Error(err))
	}
}
