package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "blog-generator",
	Short: "Generate short blog posts with Amazon Bedrock and store them in S3",
	Long: `blog-generator turns a topic into a 200-word blog post using a Bedrock
hosted model and writes the text to S3 under a timestamped key.

Without a subcommand it starts the AWS Lambda runtime and serves API Gateway
proxy events.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "json")
		if err != nil {
			return err
		}
		a.logger.Info("starting lambda runtime", map[string]interface{}{
			"modelId": a.cfg.Generation.ModelID,
			"bucket":  a.cfg.Storage.Bucket,
		})
		lambda.Start(a.handler.Handle)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: configs/config.yaml when present)")
	rootCmd.AddCommand(invokeCmd, serveCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
