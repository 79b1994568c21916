package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/dashboard"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/filter"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/render"
)

var (
	pageFormat  string
	pageAxis    string
	pagePNG     string
	pageXLSX    string
	pageChart   int
	pageFilters = make(map[string]*string)
)

var pageCmd = &cobra.Command{
	Use:   "page <slug>",
	Short: "Render one dashboard page",
	Long:  "Renders a page to stdout as JSON or YAML and optionally writes a chart PNG and an XLSX export.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initData(ctx, "page")
		if err != nil {
			return err
		}
		defer env.Close()

		req := dashboard.Request{
			Selection: filter.ParseSelection(func(name string) string {
				if v, ok := pageFilters[name]; ok {
					return *v
				}
				return ""
			}),
			Axis: pageAxis,
		}

		v, err := env.Dashboard.Render(ctx, args[0], req)
		if err != nil {
			return eris.Wrap(err, "render page")
		}

		if pagePNG != "" {
			if err := writeChartFile(pagePNG, v, pageChart); err != nil {
				return err
			}
		}
		if pageXLSX != "" {
			if err := writeFile(pageXLSX, func(w io.Writer) error { return render.WriteXLSX(w, v) }); err != nil {
				return err
			}
		}

		return writeView(cmd.OutOrStdout(), v, pageFormat)
	},
}

func init() {
	pageCmd.Flags().StringVar(&pageFormat, "format", "json", "output format: json or yaml")
	pageCmd.Flags().StringVar(&pageAxis, "eje", "anio", "heatmap column axis: anio or grado")
	pageCmd.Flags().StringVar(&pagePNG, "png", "", "write a chart as PNG to this path")
	pageCmd.Flags().IntVar(&pageChart, "chart", 0, "index of the chart written by --png")
	pageCmd.Flags().StringVar(&pageXLSX, "xlsx", "", "write the detail tables as XLSX to this path")
	for _, d := range filter.Order {
		pageFilters[d.Param] = pageCmd.Flags().String(d.Param, "", "filter "+d.Label)
	}
	rootCmd.AddCommand(pageCmd)
}

// writeView encodes v as json or yaml.
func writeView(w io.Writer, v *render.View, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	default:
		return eris.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func writeChartFile(path string, v *render.View, idx int) error {
	if idx < 0 || idx >= len(v.Charts) {
		zap.L().Warn("page has no chart to write", zap.String("page", v.Slug), zap.Int("chart", idx))
		return nil
	}
	return writeFile(path, func(w io.Writer) error { return render.WritePNG(w, v.Charts[idx]) })
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "close %s", path)
	}
	zap.L().Info("wrote file", zap.String("path", path))
	return nil
}
