package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/fetcher"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// FileSource loads tables from <dir>/<name>.xlsx or <dir>/<name>.csv. File
// names match case-insensitively; XLSX wins over CSV.
type FileSource struct {
	Dir      string
	Encoding string // CSV charset, empty for UTF-8
	Delim    rune   // CSV delimiter, 0 for ','
}

// NewFileSource creates a file-backed source over dir.
func NewFileSource(dir, encoding string, delim rune) *FileSource {
	return &FileSource{Dir: dir, Encoding: encoding, Delim: delim}
}

// Name implements Source.
func (s *FileSource) Name() string { return "file:" + s.Dir }

// Load implements Source.
func (s *FileSource) Load(ctx context.Context, name string) (*table.Table, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	var t *table.Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		t, err = fetcher.ReadXLSXTable(path, name, fetcher.XLSXOptions{})
	default:
		t, err = s.readCSV(ctx, path, name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "source: load %s", name)
	}
	return t, nil
}

func (s *FileSource) readCSV(ctx context.Context, path, name string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck

	header, rows, err := fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{
		Delimiter:  s.Delim,
		Encoding:   s.Encoding,
		LazyQuotes: true,
	})
	if err != nil {
		return nil, err
	}
	return table.FromRecords(name, header, rows), nil
}

// resolve finds the file backing a table name.
func (s *FileSource) resolve(name string) (string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", eris.Wrapf(ErrMissingTable, "%s: data directory %s does not exist", name, s.Dir)
		}
		return "", eris.Wrapf(err, "source: read dir %s", s.Dir)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}

	for _, ext := range []string{".xlsx", ".csv"} {
		if f, ok := matchName(name+ext, files); ok {
			return filepath.Join(s.Dir, f), nil
		}
	}
	return "", eris.Wrapf(ErrMissingTable, "%s: no %s.xlsx or %s.csv in %s", name, name, name, s.Dir)
}
