package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/source"
)

var importDir string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the data files into the configured database",
	Long:  "Reads every known table from the data directory (XLSX or CSV) and replaces the table of the same name in the sqlite or postgres source.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		dst, closeFn, err := openSource(ctx)
		if err != nil {
			return eris.Wrap(err, "open destination")
		}
		defer closeFn()

		saver, ok := dst.(source.Saver)
		if !ok {
			return eris.Errorf("source %s cannot store tables", dst.Name())
		}

		dir := importDir
		if dir == "" {
			dir = cfg.Data.Dir
		}
		var delim rune
		if d := []rune(cfg.Data.Delimiter); len(d) == 1 {
			delim = d[0]
		}

		imported, err := importTables(ctx, source.NewFileSource(dir, cfg.Data.Encoding, delim), saver)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int("tables", imported),
			zap.String("dir", dir),
			zap.String("destination", dst.Name()),
		)
		return nil
	},
}

// importTables copies every known table from src into dst. Missing files are
// skipped with a warning.
func importTables(ctx context.Context, src source.Source, dst source.Saver) (int, error) {
	imported := 0
	for _, name := range source.Tables {
		t, err := src.Load(ctx, name)
		if eris.Is(err, source.ErrMissingTable) {
			zap.L().Warn("import: table skipped", zap.String("table", name), zap.Error(err))
			continue
		}
		if err != nil {
			return imported, eris.Wrapf(err, "import %s", name)
		}

		t.Name = name
		t.NormalizeColumns()
		if err := dst.Save(ctx, t); err != nil {
			return imported, eris.Wrapf(err, "import %s", name)
		}
		zap.L().Info("import: table saved", zap.String("table", name), zap.Int("rows", t.Len()))
		imported++
	}
	return imported, nil
}

func init() {
	importCmd.Flags().StringVar(&importDir, "dir", "", "data directory to read (default from config)")
	rootCmd.AddCommand(importCmd)
}
