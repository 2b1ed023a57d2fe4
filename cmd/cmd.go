// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles Spotify authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// syncCommand runs a full library snapshot sync.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Snapshot the authenticated user's library into the vault",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "features",
				Usage: "Fetch audio features for stored tracks",
			},
			&cli.BoolFlag{
				Name:  "analysis",
				Usage: "Fetch full audio analysis for stored tracks (slow)",
			},
			&cli.IntFlag{
				Name:  "analysis-limit",
				Usage: "Max tracks analyzed per run",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the sync report as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.SyncRun,
	}
}

// vaultCommand groups read-only operations over the stored vault.
func vaultCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "vault",
		Usage: "Inspect and export the stored vault",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show entity counts for the vault",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.VaultStats,
			},
			{
				Name:  "playlists",
				Usage: "List stored playlists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "Vault user ID (defaults to the only stored user)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.VaultPlaylists,
			},
			{
				Name:  "export",
				Usage: "Export stored playlists to disk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "Vault user ID (defaults to the only stored user)",
					},
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Playlist IDs to export (default: all)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
					},
				},
				Action: r.VaultExport,
			},
		},
	}
}

// serveCommand starts the local HTTP API over the vault.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the vault over a local HTTP API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive vault browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing the vault",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "user",
				Usage: "Vault user ID (defaults to the only stored user)",
			},
		},
		Action: r.TUI,
	}
}
