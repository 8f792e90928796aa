package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/neardup/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/neardup/internal/connectors/filesystem"
	"github.com/custodia-labs/neardup/internal/connectors/manifest"
	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// settingsFlags overrides stored settings for a single run.
type settingsFlags struct {
	threshold   float64
	shingleSize int
	hashes      int
	bits        int
	hash        string
	seed        int64
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64Var(&f.threshold, "threshold", domain.DefaultJaccardThreshold,
		"Jaccard similarity at or above which a document is a duplicate")
	flags.IntVar(&f.shingleSize, "shingle-size", domain.DefaultShingleSize, "tokens per shingle")
	flags.IntVar(&f.hashes, "hashes", domain.DefaultNHashes, "number of MinHash permutations")
	flags.IntVar(&f.bits, "bits", domain.DefaultNBits, "hash working width in bits (1-64)")
	flags.StringVar(&f.hash, "hash", domain.DefaultHash, "hash function (see 'neardup hashers')")
	flags.Int64Var(&f.seed, "seed", 0, "permutation seed for reproducible runs (default random)")
}

// resolve returns the stored settings with any changed flags applied.
func (f *settingsFlags) resolve(cmd *cobra.Command) (domain.DedupSettings, error) {
	svc, err := getSettingsService()
	if err != nil {
		return domain.DedupSettings{}, err
	}
	stored, err := svc.Get()
	if err != nil {
		return domain.DedupSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	settings := *stored
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		settings.JaccardThreshold = f.threshold
	}
	if flags.Changed("shingle-size") {
		settings.ShingleSize = f.shingleSize
	}
	if flags.Changed("hashes") {
		settings.NHashes = f.hashes
	}
	if flags.Changed("bits") {
		settings.NBits = f.bits
	}
	if flags.Changed("hash") {
		settings.Hash = f.hash
	}
	if flags.Changed("seed") {
		settings = settings.WithSeed(f.seed)
	}
	return settings, nil
}

// sourceFlags selects exactly one document source.
type sourceFlags struct {
	dir      string
	manifest string
	db        string
	ext       string
	normalise bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.dir, "dir", "", "load every file under this directory")
	flags.StringVar(&f.manifest, "manifest", "", "load documents from a YAML manifest")
	flags.StringVar(&f.db, "db", "", "load documents from a SQLite database file")
	flags.StringVar(&f.ext, "ext", "", "comma-separated file extensions to load with --dir (e.g. txt,md)")
	flags.BoolVar(&f.normalise, "normalise", false, "extract text from HTML, Markdown, DOCX and EML files with --dir")
	cmd.MarkFlagsMutuallyExclusive("dir", "manifest", "db")
	cmd.MarkFlagsOneRequired("dir", "manifest", "db")
}

// open returns the selected source and a function releasing it.
func (f *sourceFlags) open() (driven.DocumentSource, func(), error) {
	switch {
	case f.dir != "":
		source := filesystem.New(f.dir, fileOptions(f.ext, f.normalise)...)
		return source, func() { source.Close() }, nil
	case f.manifest != "":
		source := manifest.New(f.manifest)
		return source, func() { source.Close() }, nil
	case f.db != "":
		if _, err := os.Stat(f.db); err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		store, err := sqlite.Open(f.db)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return store.DocumentSource(), func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: one of --dir, --manifest or --db is required", domain.ErrInvalidInput)
	}
}

// fileOptions builds filesystem source options from --ext and --normalise.
func fileOptions(ext string, normalise bool) []filesystem.Option {
	var opts []filesystem.Option
	var exts []string
	for _, e := range strings.Split(ext, ",") {
		if e = strings.TrimSpace(e); e != "" {
			exts = append(exts, e)
		}
	}
	if len(exts) > 0 {
		opts = append(opts, filesystem.WithExtensions(exts...))
	}
	if normalise {
		opts = append(opts, filesystem.WithNormalisers(normaliserRegistry))
	}
	return opts
}
