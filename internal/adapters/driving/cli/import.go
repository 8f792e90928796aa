package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/adapters/driven/storage/sqlite"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy documents into a SQLite database",
	Long: `Loads documents from a directory or YAML manifest and stores them in a
SQLite database, so later runs can use 'neardup dedup --db'.

Documents with an existing ID are replaced in place; new documents are
appended after the ones already stored.`,
	Example: `  neardup import --dir ./corpus --to corpus.db
  neardup dedup --db corpus.db`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var (
	importDir       string
	importManifest  string
	importExt       string
	importNormalise bool
	importTo        string
)

func init() {
	flags := importCmd.Flags()
	flags.StringVar(&importDir, "dir", "", "import every file under this directory")
	flags.StringVar(&importManifest, "manifest", "", "import documents from a YAML manifest")
	flags.StringVar(&importExt, "ext", "", "comma-separated file extensions to import with --dir")
	flags.BoolVar(&importNormalise, "normalise", false, "store extracted text for HTML, Markdown, DOCX and EML files")
	flags.StringVar(&importTo, "to", "", "database file to write")
	importCmd.MarkFlagsMutuallyExclusive("dir", "manifest")
	importCmd.MarkFlagsOneRequired("dir", "manifest")
	_ = importCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	from := sourceFlags{dir: importDir, manifest: importManifest, ext: importExt, normalise: importNormalise}
	source, closeSource, err := from.open()
	if err != nil {
		return err
	}
	defer closeSource()

	docs, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}

	store, err := sqlite.Open(importTo)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	if err := store.ImportDocuments(ctx, docs); err != nil {
		return fmt.Errorf("importing documents: %w", err)
	}

	cmd.Printf("Imported %d documents from %s into %s\n", len(docs), source.Type(), store.Path())
	return nil
}
