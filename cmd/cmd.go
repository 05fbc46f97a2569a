// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const version = "0.3.0"

// app builds the root command. Global flags are applied by [Runner.configure] before any action runs.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "mixtape",
		Usage:   "Search songs, generate playlists and save them to Spotify",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the playlist backend",
				Sources: cli.EnvVars("MIXTAPE_API_URL"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before:   r.configure,
		After:    r.close,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, generateCommand, exportCommand, serveCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// authCommand handles the Spotify login flow
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in to Spotify through the backend",
		Description: "Sessions live in memory and end with the process. Every auth subcommand\n" +
			"acts on the session of its own process only. To sign in and use the session\n" +
			"together, run 'mixtape export <track-id>', 'mixtape tui' (press s) or 'mixtape serve'.",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Run the browser sign-in once to check the flow (session ends on exit)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Start a new login even when already signed in",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Report whether this process holds a session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "whoami",
				Usage: "Show the Spotify profile for this process's session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:   "logout",
				Usage:  "End this process's backend session",
				Action: r.AuthLogout,
			},
		},
	}
}

// searchCommand queries the song catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for songs",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Search,
	}
}

// generateCommand builds a playlist from a seed track
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a playlist from a seed track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "track-id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, csv, markdown, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the playlist to a file instead of stdout",
			},
		},
		Action: r.Generate,
	}
}

// exportCommand generates a playlist and saves it to Spotify
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Generate a playlist and save it to your Spotify account",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "track-id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-login",
				Usage: "Fail instead of starting a login when not signed in",
			},
		},
		Action: r.Export,
	}
}

// serveCommand runs the local web companion
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local login and landing pages until interrupted",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the landing page in a browser",
			},
		},
		Action: r.Serve,
	}
}

// cacheCommand inspects the local search and playlist cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear cached tracks and playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached tracks, or playlists with --playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "playlists",
						Usage: "List generated playlists instead of tracks",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of rows",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached track and playlist",
				Action: r.CacheClear,
			},
		},
	}
}

// setupCommand writes the config file and prepares the cache
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file or initialize the cache database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file with default settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the new config file (defaults to --config)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the cache database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand launches the interactive UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of search results",
				Value: 20,
			},
		},
		Action: r.TUI,
	}
}
