package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JulianKimmig/asynctoolkit/httptool"
)

// NewHTTPCmd creates the "http" subcommand.
func NewHTTPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http <url>",
		Short: "Perform an HTTP request through the http tool",
		Args:  cobra.ExactArgs(1),
		RunE:  runHTTP,
	}

	cmd.Flags().StringP("method", "X", "GET", "HTTP method")
	cmd.Flags().StringArrayP("header", "H", nil, "Request header \"Name: value\" (repeatable)")
	cmd.Flags().StringArray("param", nil, "Query parameter key=value (repeatable)")
	cmd.Flags().StringArray("cookie", nil, "Cookie name=value (repeatable)")
	cmd.Flags().StringP("data", "d", "", "Raw request body")
	cmd.Flags().String("json", "", "JSON request body (sent as application/json)")
	cmd.Flags().Bool("stream", false, "Stream the response body instead of buffering it")
	cmd.Flags().Duration("timeout", 30*time.Second, "Request timeout")
	cmd.Flags().String("extension", "", "Backend extension (default: first registered)")
	cmd.Flags().StringP("output", "o", "", "Write the body to a file (default: stdout)")
	cmd.Flags().Bool("fail", false, "Exit non-zero on HTTP status >= 400")
	return cmd
}

func runHTTP(cmd *cobra.Command, args []string) error {
	req, err := httpRequestFromFlags(cmd, args[0])
	if err != nil {
		return exitError(exitValidation, "%s", err)
	}

	kit, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := kit.HTTP.Do(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return exitError(exitTimeout, "request timed out: %v", err)
		}
		return exitError(exitRuntime, "%s", err)
	}
	defer resp.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "%d %s\n", resp.Status(), resp.Reason())

	out, closeOut, err := resolveBodyWriter(cmd)
	if err != nil {
		return exitError(exitRuntime, "%s", err)
	}
	defer closeOut()

	if err := writeBody(out, resp, req.Stream); err != nil {
		return exitError(exitRuntime, "reading response: %v", err)
	}

	if fail, _ := cmd.Flags().GetBool("fail"); fail {
		if statusErr := resp.StatusError(); statusErr != nil {
			return exitError(exitRuntime, "%s", statusErr)
		}
	}
	return nil
}

func httpRequestFromFlags(cmd *cobra.Command, url string) (httptool.Request, error) {
	method, _ := cmd.Flags().GetString("method")
	rawHeaders, _ := cmd.Flags().GetStringArray("header")
	rawParams, _ := cmd.Flags().GetStringArray("param")
	rawCookies, _ := cmd.Flags().GetStringArray("cookie")
	data, _ := cmd.Flags().GetString("data")
	jsonBody, _ := cmd.Flags().GetString("json")
	stream, _ := cmd.Flags().GetBool("stream")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	extension, _ := cmd.Flags().GetString("extension")

	if data != "" && jsonBody != "" {
		return httptool.Request{}, fmt.Errorf("--data and --json are mutually exclusive")
	}

	headers, err := parsePairs(rawHeaders, ":")
	if err != nil {
		return httptool.Request{}, fmt.Errorf("invalid --header: %w", err)
	}
	params, err := parsePairs(rawParams, "=")
	if err != nil {
		return httptool.Request{}, fmt.Errorf("invalid --param: %w", err)
	}
	cookies, err := parsePairs(rawCookies, "=")
	if err != nil {
		return httptool.Request{}, fmt.Errorf("invalid --cookie: %w", err)
	}

	req := httptool.Request{
		URL:       url,
		Method:    method,
		Headers:   headers,
		Params:    params,
		Cookies:   cookies,
		Stream:    stream,
		Timeout:   timeout,
		Extension: extension,
	}
	if data != "" {
		req.Data = data
	}
	if jsonBody != "" {
		// Pass raw JSON through without re-encoding.
		req.Data = jsonBody
		req.Headers = withHeader(req.Headers, "Content-Type", "application/json")
	}
	return req, nil
}

func parsePairs(raw []string, sep string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, entry := range raw {
		key, value, ok := strings.Cut(entry, sep)
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%q is not of the form key%svalue", entry, sep)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func withHeader(headers map[string]string, name, value string) map[string]string {
	if headers == nil {
		headers = make(map[string]string, 1)
	}
	if _, exists := headers[name]; !exists {
		headers[name] = value
	}
	return headers
}

func resolveBodyWriter(cmd *cobra.Command) (io.Writer, func(), error) {
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func writeBody(out io.Writer, resp httptool.Response, stream bool) error {
	if stream {
		it := resp.IterContent(32 * 1024)
		for it.Next() {
			if _, err := out.Write(it.Chunk()); err != nil {
				return err
			}
		}
		return it.Err()
	}

	content, err := resp.Content()
	if err != nil {
		return err
	}
	_, err = out.Write(content)
	return err
}
