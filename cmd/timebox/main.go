package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"timebox/internal/bootstrap"
	syncdto "timebox/internal/modules/cloudsync/dto"
	settingsdto "timebox/internal/modules/settings/dto"
	statsdto "timebox/internal/modules/stats/dto"
	timeboxdto "timebox/internal/modules/timebox/dto"
	"timebox/internal/platform/config"
	"timebox/internal/platform/daytime"
	uiapp "timebox/internal/ui/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "timebox",
		Short:         "Timeboxed focus planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory")

	root.AddCommand(newFocusCmd(&dataDir))
	root.AddCommand(newBoxCmd(&dataDir))
	root.AddCommand(newLaterCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newSettingsCmd(&dataDir))
	root.AddCommand(newDiscomfortCmd(&dataDir))
	root.AddCommand(newSyncCmd(&dataDir))
	root.AddCommand(newServeCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "timebox")
	}
	return ".timebox"
}

// withApp loads the app, runs fn, and waits for queued sync pushes before
// returning so a short-lived command does not drop them.
func withApp(dataDir string, logOut io.Writer, fn func(cfg config.Config, app *bootstrap.App) error) error {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cfg, logOut)
	if err != nil {
		return err
	}
	runErr := fn(cfg, app)
	return errors.Join(runErr, app.Close())
}

func today(cfg config.Config) string {
	return daytime.DateKey(time.Now().In(cfg.Location))
}

func newFocusCmd(dataDir *string) *cobra.Command {
	var boxType, boxID, title string
	var minutes int
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run a focus session in the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			logPath := filepath.Join(*dataDir, "timebox.log")
			if err := os.MkdirAll(*dataDir, 0o755); err != nil {
				return err
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer logFile.Close()

			return withApp(*dataDir, logFile, func(_ config.Config, app *bootstrap.App) error {
				ctx := context.Background()
				opts := uiapp.Options{TimeboxID: boxID, Type: boxType, Minutes: minutes, Title: title}
				if strings.TrimSpace(boxID) != "" {
					box, err := app.TimeboxCLI.Get(ctx, boxID)
					if err != nil {
						return err
					}
					opts.Type = box.Type
					opts.Title = box.Title
					if minutes == 0 {
						opts.Minutes = box.DurationMin
					}
				}
				if opts.Minutes == 0 {
					opts.Minutes = 25
				}
				if settings, err := app.SettingsCLI.Show(ctx); err == nil {
					opts.Appearance = settings.Theme
				}
				return bootstrap.RunFocus(app, opts)
			})
		},
	}
	cmd.Flags().StringVar(&boxType, "type", "output", "session type: input|output")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "target minutes (defaults to the box length or 25)")
	cmd.Flags().StringVar(&boxID, "box", "", "timebox id to run")
	cmd.Flags().StringVar(&title, "title", "", "label shown on the timer")
	return cmd
}

func newBoxCmd(dataDir *string) *cobra.Command {
	box := &cobra.Command{Use: "box", Short: "Plan timeboxes"}

	var date, start, boxType, title string
	var minutes int
	var autoPair bool
	add := &cobra.Command{
		Use:   "add --start HH:MM --minutes N --type input|output",
		Short: "Schedule a timebox",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(cfg config.Config, app *bootstrap.App) error {
				if date == "" {
					date = today(cfg)
				}
				out, err := app.TimeboxCLI.Add(context.Background(), date, start, minutes, boxType, title, autoPair)
				if err != nil {
					return err
				}
				printBox(cmd.OutOrStdout(), out)
				if out.PairedID != "" {
					paired, err := app.TimeboxCLI.Get(context.Background(), out.PairedID)
					if err == nil {
						_, _ = fmt.Fprint(cmd.OutOrStdout(), "paired: ")
						printBox(cmd.OutOrStdout(), paired)
					}
				}
				return nil
			})
		},
	}
	add.Flags().StringVar(&date, "date", "", "day (YYYY-MM-DD, defaults to today)")
	add.Flags().StringVar(&start, "start", "", "start time HH:MM")
	add.Flags().IntVar(&minutes, "minutes", 50, "length in minutes")
	add.Flags().StringVar(&boxType, "type", "input", "box type: input|output")
	add.Flags().StringVar(&title, "title", "", "title")
	add.Flags().BoolVar(&autoPair, "pair", false, "schedule the paired output box right after an input box")

	var listDate string
	var days int
	list := &cobra.Command{
		Use:   "list",
		Short: "List timeboxes (upcoming by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				boxes, err := app.TimeboxCLI.List(context.Background(), listDate, days)
				if err != nil {
					return err
				}
				if len(boxes) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no timeboxes")
					return nil
				}
				for _, b := range boxes {
					printBox(cmd.OutOrStdout(), b)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&listDate, "date", "", "first day to list")
	list.Flags().IntVar(&days, "days", 1, "number of days from --date")

	var moveDate, moveStart string
	var moveMinutes int
	move := &cobra.Command{
		Use:   "move <id>",
		Short: "Reschedule a timebox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				out, err := app.TimeboxCLI.Move(context.Background(), args[0], moveDate, moveStart, moveMinutes)
				if err != nil {
					return err
				}
				printBox(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	move.Flags().StringVar(&moveDate, "date", "", "new day (keeps the current day when empty)")
	move.Flags().StringVar(&moveStart, "start", "", "new start HH:MM")
	move.Flags().IntVar(&moveMinutes, "minutes", 0, "new length (keeps the current length when 0)")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a timebox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				if err := app.TimeboxCLI.Remove(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status <id> planned|running|done|skipped",
		Short: "Set a timebox status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				out, err := app.TimeboxCLI.SetStatus(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				printBox(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a timebox",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				out, err := app.TimeboxCLI.Rename(context.Background(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				printBox(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	pair := &cobra.Command{
		Use:   "pair <id>",
		Short: "Create the paired output box for an input box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				out, ok, err := app.TimeboxCLI.Pair(context.Background(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no room for a paired box")
					return nil
				}
				printBox(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	box.AddCommand(add, list, move, rm, status, rename, pair)
	return box
}

func printBox(w io.Writer, b timeboxdto.TimeboxOutput) {
	auto := ""
	if b.AutoPaired {
		auto = " (auto)"
	}
	_, _ = fmt.Fprintf(w, "%s\t%s %s-%s\t%s\t%s\t%s%s\n", b.ID, b.Date, b.Start, b.End, b.Type, b.Status, b.Title, auto)
}

func newLaterCmd(dataDir *string) *cobra.Command {
	later := &cobra.Command{Use: "later", Short: "Ideas parked during focus"}

	var boxType string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Park an idea for later",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				item, err := app.TimeboxCLI.AddLater(context.Background(), strings.Join(args, " "), boxType)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", item.ID, item.Type, item.Title)
				return nil
			})
		},
	}
	add.Flags().StringVar(&boxType, "type", "input", "suggested box type")

	list := &cobra.Command{
		Use:   "list",
		Short: "List parked ideas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				items, err := app.TimeboxCLI.LaterList(context.Background())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing parked")
					return nil
				}
				for _, item := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", item.ID, item.CreatedAt, item.Type, item.Title)
				}
				return nil
			})
		},
	}
	later.AddCommand(add, list)
	return later
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Completed focus sessions"}

	session.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(cfg config.Config, app *bootstrap.App) error {
				sessions, err := app.SessionCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					started := time.UnixMilli(s.StartEpoch).In(cfg.Location).Format("2006-01-02 15:04")
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\turges=%d\tdone=%t\n",
						s.ID, started, s.Type, daytime.FormatSeconds(s.DurationSec), s.UrgeDelays, s.Completed)
				}
				return nil
			})
		},
	})

	var learned, stuck, next string
	notes := &cobra.Command{
		Use:   "notes <session-id>",
		Short: "Replace the review notes of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				if err := app.SessionCLI.SetNotes(context.Background(), args[0], learned, stuck, next); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "notes saved for %s\n", args[0])
				return nil
			})
		},
	}
	notes.Flags().StringVar(&learned, "learned", "", "what did I learn")
	notes.Flags().StringVar(&stuck, "stuck", "", "where did I get stuck")
	notes.Flags().StringVar(&next, "next", "", "what comes next")

	assets := &cobra.Command{
		Use:   "assets <session-id> [asset...]",
		Short: "Replace the assets produced in a session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				if err := app.SessionCLI.SetAssets(context.Background(), args[0], args[1:]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d assets saved for %s\n", len(args)-1, args[0])
				return nil
			})
		},
	}

	session.AddCommand(notes, assets)
	return session
}

func newStatsCmd(dataDir *string) *cobra.Command {
	var recalc bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show focus statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				out, err := app.StatsCLI.Show(context.Background(), recalc)
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&recalc, "recalc", false, "recompute from recorded sessions")
	return cmd
}

func printStats(w io.Writer, s statsdto.StatsOutput) {
	days := make([]string, 0, len(s.EffectiveMinutes7d))
	for _, m := range s.EffectiveMinutes7d {
		days = append(days, strconv.Itoa(m))
	}
	_, _ = fmt.Fprintf(w, "today: %dm\nweek: %dm\nlast 7 days: %s\nio ratio: %s\nstreak: %dd\ndiscomfort handled: %d\nurge rule: %d\n",
		s.TodayMinutes, s.WeekMinutes, strings.Join(days, " "), s.IORatioLabel, s.StreakDays, s.DiscomfortHandled, s.UrgeRuleCount)
}

func newSettingsCmd(dataDir *string) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Planner preferences"}

	show := func(cmd *cobra.Command, run func(context.Context, *bootstrap.App) (settingsdto.SettingsOutput, error)) error {
		return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
			out, err := run(context.Background(), app)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), out)
			return nil
		})
	}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return show(cmd, func(ctx context.Context, app *bootstrap.App) (settingsdto.SettingsOutput, error) {
				return app.SettingsCLI.Show(ctx)
			})
		},
	})
	settings.AddCommand(&cobra.Command{
		Use:   "goal <minutes>",
		Short: "Set the daily focus goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("minutes must be a number: %w", err)
			}
			return show(cmd, func(ctx context.Context, app *bootstrap.App) (settingsdto.SettingsOutput, error) {
				return app.SettingsCLI.SetGoal(ctx, minutes)
			})
		},
	})
	settings.AddCommand(&cobra.Command{
		Use:   "tags <tag>[,<tag>...]",
		Short: "Replace the theme tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, func(ctx context.Context, app *bootstrap.App) (settingsdto.SettingsOutput, error) {
				return app.SettingsCLI.SetTags(ctx, args)
			})
		},
	})
	settings.AddCommand(&cobra.Command{
		Use:   "theme light|dark|system",
		Short: "Set the UI appearance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, func(ctx context.Context, app *bootstrap.App) (settingsdto.SettingsOutput, error) {
				return app.SettingsCLI.SetTheme(ctx, args[0])
			})
		},
	})

	var enable, disable bool
	toggle := &cobra.Command{
		Use:   "toggle-strategy <category> <id>",
		Short: "Enable or disable a discomfort strategy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value *bool
			switch {
			case enable && disable:
				return fmt.Errorf("--enable and --disable are exclusive")
			case enable:
				v := true
				value = &v
			case disable:
				v := false
				value = &v
			}
			return show(cmd, func(ctx context.Context, app *bootstrap.App) (settingsdto.SettingsOutput, error) {
				return app.SettingsCLI.ToggleStrategy(ctx, args[0], args[1], value)
			})
		},
	}
	toggle.Flags().BoolVar(&enable, "enable", false, "force enabled")
	toggle.Flags().BoolVar(&disable, "disable", false, "force disabled")

	move := &cobra.Command{
		Use:   "move-strategy <category> <from> <to>",
		Short: "Reorder a strategy within its category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("from must be a number: %w", err)
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("to must be a number: %w", err)
			}
			return show(cmd, func(ctx context.Context, app *bootstrap.App) (settingsdto.SettingsOutput, error) {
				return app.SettingsCLI.MoveStrategy(ctx, args[0], from, to)
			})
		},
	}

	settings.AddCommand(toggle, move)
	return settings
}

func printSettings(w io.Writer, s settingsdto.SettingsOutput) {
	_, _ = fmt.Fprintf(w, "daily goal: %dm\ntheme tags: %s\ntheme: %s\nfomo policy: %s\nstrategies:\n",
		s.DailyGoalMin, strings.Join(s.ThemeTags, ", "), s.Theme, s.FomoPolicy)
	for _, st := range s.Strategies {
		mark := " "
		if st.Enabled {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "  [%s] %s/%s\t%s\n", mark, st.Category, st.ID, st.Label)
	}
}

func newDiscomfortCmd(dataDir *string) *cobra.Command {
	discomfort := &cobra.Command{Use: "discomfort", Short: "Discomfort strategies"}

	discomfort.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List enabled strategies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				items, err := app.SettingsCLI.EnabledStrategies(context.Background())
				if err != nil {
					return err
				}
				for _, st := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\t%s\t%s\n", st.Category, st.ID, st.Label, st.Description)
				}
				return nil
			})
		},
	})
	discomfort.AddCommand(&cobra.Command{
		Use:   "run <category> <id>",
		Short: "Run a strategy and count it as handled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				st, err := app.SettingsCLI.RunStrategy(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", st.Label, st.Description)
				return nil
			})
		},
	})
	return discomfort
}

func newSyncCmd(dataDir *string) *cobra.Command {
	sync := &cobra.Command{Use: "sync", Short: "Cloud sync"}

	var label string
	register := &cobra.Command{
		Use:   "register",
		Short: "Create a sync key on the server and start syncing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				watchSync(cmd.ErrOrStderr(), app)
				out, err := app.SyncCLI.Register(context.Background(), label)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sync key: %s\n", out.SyncKey)
				printSyncStatus(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	register.Flags().StringVar(&label, "label", "", "device label")

	connect := &cobra.Command{
		Use:   "connect <sync-key>",
		Short: "Sync with an existing key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				watchSync(cmd.ErrOrStderr(), app)
				out, err := app.SyncCLI.Connect(context.Background(), args[0])
				if err != nil {
					return err
				}
				printSyncStatus(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Pull newer records from the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(cfg config.Config, app *bootstrap.App) error {
				out, err := app.SyncCLI.Pull(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "applied %d records at %s\n", out.Applied,
					time.UnixMilli(out.PulledAt).In(cfg.Location).Format(time.RFC3339))
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show sync status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				printSyncStatus(cmd.OutOrStdout(), app.SyncCLI.Status(context.Background()))
				return nil
			})
		},
	}

	disable := &cobra.Command{
		Use:   "disable",
		Short: "Stop syncing and forget the key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, os.Stderr, func(_ config.Config, app *bootstrap.App) error {
				out, err := app.SyncCLI.Disable(context.Background())
				if err != nil {
					return err
				}
				printSyncStatus(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	sync.AddCommand(register, connect, pull, status, disable)
	return sync
}

func watchSync(w io.Writer, app *bootstrap.App) {
	app.SyncCLI.Watch(func(ev syncdto.EventOutput) {
		if ev.Error != "" {
			_, _ = fmt.Fprintf(w, "%s %s: %s\n", ev.Type, ev.Key, ev.Error)
		}
	})
}

func printSyncStatus(w io.Writer, s syncdto.StatusOutput) {
	_, _ = fmt.Fprintf(w, "status: %s\n", s.Status)
	if s.MaskedKey != "" {
		_, _ = fmt.Fprintf(w, "key: %s\n", s.MaskedKey)
	}
	if s.LastSyncAt > 0 {
		_, _ = fmt.Fprintf(w, "last pull: %s\n", time.UnixMilli(s.LastSyncAt).Format(time.RFC3339))
	}
	if s.LastError != "" {
		_, _ = fmt.Fprintf(w, "error: %s\n", s.LastError)
	}
	keys := make([]string, 0, len(s.Versions))
	for k := range s.Versions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s\t%d\n", k, s.Versions[k])
	}
}

func newServeCmd(dataDir *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*dataDir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ServerAddr = addr
			}
			server, err := bootstrap.NewServer(cfg, os.Stderr)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
