package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/profile"
	"github.com/madcok-co/editorkit/core/pkg/render"
	"github.com/madcok-co/editorkit/internal/app"
)

type newAppFunc func(ctx context.Context) (*app.App, error)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool

	newApp := func(ctx context.Context) (*app.App, error) {
		return app.New(ctx, app.Options{ConfigFile: configPath})
	}

	cmd := &cobra.Command{
		Use:           "editorkit",
		Short:         "Render and preview embeddable web editors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(newListCmd(newApp, &jsonOutput))
	cmd.AddCommand(newRenderCmd(newApp, &jsonOutput))
	cmd.AddCommand(newServeCmd(func(ctx context.Context, watch bool) (*app.App, error) {
		return app.New(ctx, app.Options{ConfigFile: configPath, Watch: watch})
	}))
	cmd.AddCommand(newProfileCmd(newApp, &jsonOutput))

	return cmd
}

func newListCmd(newApp newAppFunc, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "editors"},
		Short:   "List registered editors",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			descriptors := a.Registry.Describe()
			if *jsonOutput {
				return printResult(cmd.OutOrStdout(), true, descriptors, "")
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tVERSION\tLICENSE\tAVAILABLE\tLANGUAGES\tREQUIRES")
			for _, d := range descriptors {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\n", d.Name, d.Version, d.License, d.Available, strings.Join(d.Languages, ","), d.Requires)
			}
			return tw.Flush()
		},
	}
}

func newRenderCmd(newApp newAppFunc, jsonOutput *bool) *cobra.Command {
	var sets []string
	var check, page bool

	cmd := &cobra.Command{
		Use:   "render [editor]",
		Short: "Render an editor; without a name the configured default and fallbacks are tried",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseSets(sets)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var (
				name     string
				fragment *render.Fragment
			)
			if len(args) == 1 {
				name = args[0]
				fragment, err = a.Service.Render(cmd.Context(), name, cfg, check)
			} else {
				fragment, name, err = a.Service.RenderFirst(cmd.Context(), a.Candidates(), cfg)
			}
			if err != nil {
				return err
			}
			return printFragment(cmd.OutOrStdout(), *jsonOutput, page, name, fragment)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "editor config value as key=value (repeatable)")
	cmd.Flags().BoolVar(&check, "check", false, "fail when the editor is incompatible with the config")
	cmd.Flags().BoolVar(&page, "page", false, "wrap output in a full HTML page")
	return cmd
}

func newServeCmd(newApp func(ctx context.Context, watch bool) (*app.App, error)) *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server",
		Long: "Run the preview server.\n\n" +
			"SIGHUP re-reads the config file and applies new editor defaults; " +
			"--watch does the same whenever the file changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, watch)
			if err != nil {
				return err
			}
			defer a.Close()

			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)
			go reloadOnSignal(ctx, a, hup)

			if addr != "" {
				a.Config.Server.Addr = addr
			}
			srv := a.Server()
			fmt.Fprintf(cmd.OutOrStdout(), "serving editor previews on http://%s\n", srv.Address())
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "apply editor defaults when the config file changes")
	return cmd
}

func reloadOnSignal(ctx context.Context, a *app.App, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			if err := a.Reload(ctx); err != nil {
				a.Logger.WithError(err).Warn("config reload failed")
			}
		}
	}
}

func newProfileCmd(newApp newAppFunc, jsonOutput *bool) *cobra.Command {
	profileCmd := &cobra.Command{Use: "profile", Aliases: []string{"profiles"}, Short: "Manage saved editor profiles"}

	var sets []string
	var check bool
	saveCmd := &cobra.Command{
		Use:   "save <name> <editor>",
		Short: "Save or replace a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseSets(sets)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p := &profile.Profile{Name: args[0], Editor: args[1], Config: cfg, CheckCompatible: check}
			if err := a.Service.SaveProfile(cmd.Context(), p); err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), *jsonOutput, p, fmt.Sprintf("saved profile %s (%s)", p.Name, p.Editor))
		},
	}
	saveCmd.Flags().StringArrayVar(&sets, "set", nil, "editor config value as key=value (repeatable)")
	saveCmd.Flags().BoolVar(&check, "check", false, "require the editor to accept the config now and on every render")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			profiles, err := a.Service.Profiles(cmd.Context())
			if err != nil {
				return err
			}
			if *jsonOutput {
				return printResult(cmd.OutOrStdout(), true, profiles, "")
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no profiles saved")
				return nil
			}
			for _, p := range profiles {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s (%s) check=%t\n", p.Name, p.Editor, p.CheckCompatible)
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Service.DeleteProfile(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), *jsonOutput, map[string]string{"deleted": args[0]}, "deleted profile "+args[0])
		},
	}

	var page bool
	renderCmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fragment, err := a.Service.RenderProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printFragment(cmd.OutOrStdout(), *jsonOutput, page, args[0], fragment)
		},
	}
	renderCmd.Flags().BoolVar(&page, "page", false, "wrap output in a full HTML page")

	profileCmd.AddCommand(saveCmd, listCmd, deleteCmd, renderCmd)
	return profileCmd
}

// parseSets turns repeated key=value flags into an editor config
func parseSets(sets []string) (contracts.EditorConfig, error) {
	cfg := make(contracts.EditorConfig, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}
		cfg[key] = value
	}
	return cfg, nil
}

func printFragment(w io.Writer, jsonOutput, page bool, title string, fragment *render.Fragment) error {
	if jsonOutput {
		return printResult(w, true, map[string]any{"editor": title, "fragment": fragment, "html": fragment.HTML()}, "")
	}
	if !page {
		_, err := fmt.Fprintln(w, fragment.HTML())
		return err
	}
	doc, err := render.Page(title, fragment)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}

func printResult(w io.Writer, jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(blob))
		return err
	}
	if message != "" {
		_, err := fmt.Fprintln(w, message)
		return err
	}
	return nil
}
