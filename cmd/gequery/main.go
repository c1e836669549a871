// Command gequery runs pipelines over documents stored as JSON lines.
//
//	gequery run --documents docs.jsonl --pipeline pipeline.json
//	gequery canonify --pipeline pipeline.json
//
// Every flag can also be set in a config file (--config) or through a
// GEQUERY_ prefixed environment variable, such as GEQUERY_DOCUMENTS.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "gequery",
	Short:         "Run document pipelines locally",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (json, yaml or toml)")
	// glog registers its flags (-v, -logtostderr, ...) on the standard set
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(newRunCmd(), newCanonifyCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		glog.Errorf("gequery: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}
