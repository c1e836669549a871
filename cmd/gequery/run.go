package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/datastore"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/jsonl"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/pipeline"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/storage"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load documents, run a pipeline over them and write the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().String(keyDocuments, "-", "JSON lines documents file, - for stdin")
	cmd.Flags().String(keyPipeline, "", "JSON pipeline file")
	cmd.Flags().String(keyOutput, "", "JSON lines output file, stdout if empty")
	cmd.Flags().String(keyCollection, "", "collection of documents read without "+domain.KeyFieldName)
	cmd.Flags().Bool(keyMetrics, false, "write Prometheus metrics to stderr when done")
	return cmd
}

func newCanonifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonify",
		Short: "Print the canonical form and flavor of a pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return canonify(cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String(keyPipeline, "", "JSON pipeline file")
	return cmd
}

func readPipeline(path string) (domain.Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Pipeline{}, err
	}
	p, err := pipeline.DecodePipeline(b)
	if err != nil {
		return domain.Pipeline{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func canonify(cfg config, stdout io.Writer) error {
	p, err := readPipeline(cfg.Pipeline)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\n%s\n", pipeline.Canonify(p), pipeline.Flavor(p))
	return err
}

func run(ctx context.Context, cfg config, stdin io.Reader, stdout, stderr io.Writer) error {
	p, err := readPipeline(cfg.Pipeline)
	if err != nil {
		return err
	}

	in := stdin
	if cfg.Documents != "" && cfg.Documents != "-" {
		f, err := os.Open(cfg.Documents)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ds := datastore.NewDatastore(
		domain.WithDatastoreDocumentReader(jsonl.NewReader(domain.WithReaderCollection(cfg.Collection))),
	)
	if err := ds.Load(ctx, in); err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}

	cur, err := ds.Execute(ctx, p)
	if err != nil {
		return err
	}
	defer cur.Close()

	var res []domain.Document
	for cur.Next() {
		res = append(res, cur.Document())
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if glog.V(1) {
		glog.Infof("pipeline %s returned %d documents", pipeline.Canonify(p), len(res))
	}

	write := func(w io.Writer) error {
		return jsonl.NewWriter().WriteDocuments(ctx, w, res...)
	}
	if cfg.Output != "" {
		err = storage.NewStorage().CrashSafeWrite(cfg.Output, write)
	} else {
		err = write(stdout)
	}
	if err != nil {
		return err
	}

	if cfg.Metrics {
		return writeMetrics(prometheus.DefaultGatherer, stderr)
	}
	return nil
}

// writeMetrics writes the gequery metric families in the Prometheus text
// format.
func writeMetrics(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "gequery_") {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
