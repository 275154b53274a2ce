package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/runger/tmenu/internal/config"
	"github.com/runger/tmenu/internal/history"
)

// options holds flag values that have no config key.
type options struct {
	configPath  string
	query       string
	preselect   int
	printBefore string
	printAfter  string
	priority    []string
}

// flagKeys maps flags onto the config keys they override. Flags only
// apply when given on the command line.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"rows", "menu.rows"},
	{"columns", "menu.columns"},
	{"prompt", "menu.prompt"},
	{"bottom", "menu.bottom"},
	{"inline", "menu.inline"},
	{"multi-select", "menu.multi_select"},
	{"print-index", "menu.print_index"},
	{"instant", "menu.instant"},
	{"reject-no-match", "menu.reject_no_match"},
	{"prefix-complete", "menu.prefix_complete"},
	{"word-delimiters", "menu.word_delimiters"},
	{"max-query-bytes", "menu.max_query_bytes"},
	{"stream", "menu.stream"},
	{"no-sort", "match.no_sort"},
	{"match-secondary", "match.match_secondary"},
	{"separator", "match.separator"},
	{"separator-last", "match.separator_last"},
	{"history", "history.file"},
	{"history-backend", "history.backend"},
	{"history-max", "history.max"},
	{"log-file", "log.file"},
}

func (o *options) bind(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config file (default ~/.config/tmenu/config.yaml)")

	f := root.Flags()
	f.IntP("rows", "l", 0, "show results in a vertical list of this many rows")
	f.IntP("columns", "g", 1, "arrange the list in this many columns")
	f.StringP("prompt", "p", "", "text shown left of the input")
	f.BoolP("bottom", "b", false, "draw the menu at the bottom of the screen")
	f.Bool("inline", false, "draw without switching to the alternate screen")
	f.BoolP("multi-select", "m", false, "mark several items with ctrl+t and print them all")
	f.Bool("print-index", false, "print item indices instead of text")
	f.BoolP("instant", "n", false, "commit as soon as a single match remains")
	f.BoolP("reject-no-match", "r", false, "refuse input that matches no item")
	f.BoolP("prefix-complete", "x", false, "tab completes the longest common prefix")
	f.String("word-delimiters", "", "characters that end a word for word motion")
	f.Int("max-query-bytes", 0, "maximum query size in bytes")
	f.BoolP("stream", "s", false, "open the menu before input ends")
	f.BoolP("case-insensitive", "i", false, "match case-insensitively")
	f.BoolP("fuzzy", "F", false, "use fuzzy matching")
	f.Bool("no-sort", false, "keep input order instead of ranking matches")
	f.Bool("match-secondary", false, "match on the text after the separator")
	f.StringP("separator", "d", "", "split lines at this delimiter; show the first part, print the second")
	f.Bool("separator-last", false, "split at the last separator instead of the first")
	f.StringP("history", "H", "", "history file")
	f.String("history-backend", "", "history backend: none, file or sqlite")
	f.Int("history-max", 0, "history entries kept")
	f.String("log-file", "", "write a debug log to this file")

	f.StringVarP(&o.query, "query", "q", "", "initial query")
	f.IntVar(&o.preselect, "preselect", 0, "move the highlight down this many items at start")
	f.StringVar(&o.printBefore, "print-before", "", "text printed before each output line")
	f.StringVar(&o.printAfter, "print-after", "", "text printed after each output line")
	f.StringSliceVar(&o.priority, "priority", nil, "comma-separated items ranked above other prefix matches")
}

// loadConfig reads the config file named by --config or the default path.
func (o *options) loadConfig() (*config.Config, *config.Paths, error) {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(o.path(paths))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, paths, nil
}

func (o *options) path(paths *config.Paths) string {
	if o.configPath != "" {
		return o.configPath
	}
	return paths.ConfigFile()
}

// applyFlags overrides cfg with the flags set on the command line and
// fills in derived paths.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config, paths *config.Paths) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := cfg.Set(fk.key, f.Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", fk.flag, err)
		}
	}

	if enabled(fs, "case-insensitive") {
		cfg.Match.Case = "insensitive"
	}
	if enabled(fs, "fuzzy") {
		cfg.Match.Mode = "fuzzy"
	}
	if fs.Changed("history") && !fs.Changed("history-backend") && cfg.History.Backend == history.BackendNone {
		cfg.History.Backend = history.BackendFile
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.History.Backend != history.BackendNone && cfg.History.File == "" {
		cfg.History.File = paths.HistoryFile(cfg.History.Backend)
	}
	if cfg.Log.File == "" && cfg.Log.Level == "debug" {
		cfg.Log.File = paths.LogFile()
	}
	return nil
}

// enabled reports whether a boolean flag was set to true.
func enabled(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed && f.Value.String() == "true"
}
