package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/imattdu/assistdash/assistant"
	"github.com/imattdu/assistdash/confx"
	"github.com/imattdu/assistdash/dashboard"
	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/httpclient"
	"github.com/imattdu/assistdash/logx"
)

type rootOptions struct {
	BaseURL string
	Retries int
	Timeout time.Duration
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{Retries: -1}
	root := &cobra.Command{
		Use:           "probe",
		Short:         "Call the assistant backend through the resilient client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "backend base URL (default from API_BASE_URL)")
	root.PersistentFlags().IntVar(&opts.Retries, "retries", -1, "max retries (default from API_MAX_RETRIES)")
	root.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 0, "per-attempt timeout (default from API_TIMEOUT)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log each attempt to stderr")

	root.AddCommand(
		newFetchCommand(opts),
		newProjectsCommand(opts),
		newRitualsCommand(opts),
		newFamilyCommand(opts),
		newToolCommand(opts),
		newOverviewCommand(opts),
	)
	return root
}

// client 命令行参数优先于配置
func (o *rootOptions) client(cmd *cobra.Command) (*assistant.Client, error) {
	cfg, err := confx.Load()
	if err != nil {
		return nil, err
	}
	if o.BaseURL != "" {
		cfg.API.BaseURL = o.BaseURL
	}
	if o.Retries >= 0 {
		cfg.API.MaxRetries = o.Retries
	}
	if o.Timeout > 0 {
		cfg.API.Timeout = o.Timeout
	}

	logger := logx.Nop()
	if o.Verbose {
		if logger, err = logx.New(logx.Config{
			AppName:        "probe",
			Level:          cfg.Log.SlogLevel(),
			ConsoleEnabled: true,
			Console:        cmd.ErrOrStderr(),
		}); err != nil {
			return nil, err
		}
	}

	hc, err := httpclient.New(
		httpclient.WithBaseURL(cfg.API.BaseURL),
		httpclient.WithMaxRetries(cfg.API.MaxRetries),
		httpclient.WithDefaultTimeout(cfg.API.Timeout),
		httpclient.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return assistant.New(hc), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// explain 分类错误按面板文案输出
func explain(err error) error {
	if err == nil {
		return nil
	}
	e := errorx.Classify(err)
	return errors.New(errorx.FormatForUser(e))
}

func newFetchCommand(opts *rootOptions) *cobra.Command {
	var method, body string
	cmd := &cobra.Command{
		Use:   "fetch <endpoint>",
		Short: "Fetch an endpoint and print the raw body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			req := &httpclient.Request{Method: strings.ToUpper(method), Path: args[0]}
			if body != "" {
				req.Body = json.RawMessage(body)
			}
			_, err = api.HTTP().Do(cmd.Context(), req, cmd.OutOrStdout())
			return explain(err)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&body, "data", "d", "", "JSON request body")
	return cmd
}

func newProjectsCommand(opts *rootOptions) *cobra.Command {
	var f dashboard.ProjectFilter
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			projects, err := api.ListProjects(cmd.Context())
			if err != nil {
				return explain(err)
			}
			board := dashboard.NewProjectBoard(projects, f)
			out := cmd.OutOrStdout()
			for _, p := range board.Cards {
				fmt.Fprintf(out, "%-4s %-8s %-12s %s\n", p.ID, p.Priority, p.Status, p.Name)
			}
			fmt.Fprintf(out, "%d of %d projects\n", len(board.Cards), board.Summary.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Priority, "priority", dashboard.All, "high, medium, low or all")
	cmd.Flags().StringVar(&f.Status, "status", dashboard.All, "status or all")
	return cmd
}

func newRitualsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rituals",
		Short: "Print the morning and evening rituals",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, load := range []func() (*assistant.Ritual, error){
				func() (*assistant.Ritual, error) { return api.MorningRitual(cmd.Context()) },
				func() (*assistant.Ritual, error) { return api.EveningRitual(cmd.Context()) },
			} {
				r, err := load()
				if err != nil {
					return explain(err)
				}
				fmt.Fprintf(out, "%s (%s)\n", r.Ritual, r.EstimatedDuration)
				for i, s := range r.Steps {
					fmt.Fprintf(out, "  %d. %s\n", i+1, s)
				}
			}
			return nil
		},
	}
}

func newFamilyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "family",
		Short: "Print family reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			r, err := api.FamilyReminders(cmd.Context())
			if err != nil {
				return explain(err)
			}
			return printJSON(cmd.OutOrStdout(), dashboard.NewFamilyBoard(r))
		},
	}
}

func newToolCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tool <name> [key=value...]",
		Short: "Execute an MCP tool through the backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			panel, err := dashboard.ToolPanel{}.Select(args[0])
			if err != nil {
				return err
			}
			for _, kv := range args[1:] {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("parameter %q is not key=value", kv)
				}
				if panel, err = panel.Set(k, v); err != nil {
					return err
				}
			}
			call, err := panel.Call()
			if err != nil {
				return err
			}
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			res, err := api.ExecuteTool(cmd.Context(), call)
			if err != nil {
				return explain(err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newOverviewCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Load every dashboard section concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			o := dashboard.LoadOverview(cmd.Context(), api, dashboard.ProjectFilter{}, time.Now())
			return printJSON(cmd.OutOrStdout(), o)
		},
	}
}
