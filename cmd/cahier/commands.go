package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cahier-app/cahier-backend/config"
	"github.com/cahier-app/cahier-backend/internal/bootstrap"
	"github.com/cahier-app/cahier-backend/internal/logger"
	"github.com/cahier-app/cahier-backend/internal/markdown"
	"github.com/cahier-app/cahier-backend/internal/projects/domain"
	"github.com/cahier-app/cahier-backend/internal/projects/service"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Project specification tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `cahier manages project specifications ("cahiers des charges"):
a title, a description and six Markdown sections per project.

The store backend is chosen by STORE_BACKEND (local or remote); see .env.example.`,
	}

	cmd.AddCommand(
		serveCmd(),
		listCmd(),
		showCmd(),
		createCmd(),
		deleteCmd(),
		renderCmd(),
		exportCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// withService loads configuration, opens the store and runs fn.
func withService(ctx context.Context, fn func(cfg *config.Config, svc *service.ProjectService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.App.LogLevel)

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(cfg, service.NewProjectService(store, markdown.NewRenderer()))
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withService(ctx, func(cfg *config.Config, svc *service.ProjectService) error {
				bootstrap.SetGinMode(cfg.App.Environment)

				router := bootstrap.BuildRouter(bootstrap.RouterDeps{
					ServiceName:    appName,
					Version:        cfg.App.Version,
					Backend:        cfg.Store.Backend,
					Service:        svc,
					AllowedOrigins: cfg.Server.AllowedOrigins,
					RateLimitRPS:   cfg.Server.RateLimitRPS,
					RateLimitBurst: cfg.Server.RateLimitBurst,
				})

				srv := &http.Server{
					Addr:              ":" + cfg.Server.Port,
					Handler:           router,
					ReadHeaderTimeout: 10 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					log.Printf("listening on :%s (backend=%s)", cfg.Server.Port, cfg.Store.Backend)
					errCh <- srv.ListenAndServe()
				}()

				select {
				case err := <-errCh:
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}
					return err
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				log.Println("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(_ *config.Config, svc *service.ProjectService) error {
				items, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				return printProjects(cmd.OutOrStdout(), items)
			})
		},
	}
}

func printProjects(w io.Writer, items []domain.Project) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tUPDATED")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Title, p.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func showCmd() *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a project as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(_ *config.Config, svc *service.ProjectService) error {
				var v any
				var err error
				if asHTML {
					v, err = svc.View(cmd.Context(), args[0])
				} else {
					v, err = svc.Get(cmd.Context(), args[0])
				}
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(v)
			})
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "Include rendered HTML for each section")
	return cmd
}

func createCmd() *cobra.Command {
	var f domain.Fields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(_ *config.Config, svc *service.ProjectService) error {
				p, err := svc.Create(cmd.Context(), f)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Title, "title", "", "Project title (required)")
	cmd.Flags().StringVar(&f.Description, "description", "", "Short description")
	cmd.Flags().StringVar(&f.Objective, "objective", "", "Objective (Markdown)")
	cmd.Flags().StringVar(&f.Structure, "structure", "", "Expected structure (Markdown)")
	cmd.Flags().StringVar(&f.Features, "features", "", "Features (Markdown)")
	cmd.Flags().StringVar(&f.Constraints, "constraints", "", "Technical constraints (Markdown)")
	cmd.Flags().StringVar(&f.Testing, "testing", "", "Testing approach (Markdown)")
	cmd.Flags().StringVar(&f.SuccessCriteria, "success-criteria", "", "Success criteria (Markdown)")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(_ *config.Config, svc *service.ProjectService) error {
				ok, err := svc.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return domain.ErrNotFound
				}
				return nil
			})
		},
	}
}

func renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Render Markdown to sanitized HTML (stdin when no file or \"-\")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			src, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), markdown.Render(string(src)))
			return err
		},
	}
}

func exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a project as Markdown, YAML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(_ *config.Config, svc *service.ProjectService) error {
				data, _, err := svc.Export(cmd.Context(), args[0], format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", service.FormatMarkdown, "Output format (md, yaml, json)")
	return cmd
}
