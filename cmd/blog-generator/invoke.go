package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spf13/cobra"
)

var invokeTopic string

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Run a single invocation locally and print the proxy response",
	Example: `  blog-generator invoke --topic "climate change"
  blog-generator invoke --topic "" # exercises the 400 path`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "console")
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		body, err := json.Marshal(map[string]string{"blog_topic": invokeTopic})
		if err != nil {
			return err
		}

		resp, err := a.handler.Handle(cmd.Context(), events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodPost,
			Path:       "/generate",
			Body:       string(body),
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("invocation answered %d", resp.StatusCode)
		}
		return nil
	},
}

func init() {
	invokeCmd.Flags().StringVarP(&invokeTopic, "topic", "t", "", "blog topic")
}
