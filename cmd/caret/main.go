package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurodesk/caret/pkg/component"
	"github.com/neurodesk/caret/pkg/template"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "caret.config.yaml"

type caretConfig struct {
	TemplateDirs []string `yaml:"template_dirs"`
	Extensions   []string `yaml:"extensions"`
}

func defaultConfig() caretConfig {
	return caretConfig{
		TemplateDirs: []string{"."},
		Extensions:   []string{".html", ".caret.yaml", ".caret.yml"},
	}
}

func (c *caretConfig) loadConfig(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decoding config file: %w", err)
	}
	return nil
}

// isTemplate reports whether path has one of the configured extensions.
func (c *caretConfig) isTemplate(path string) bool {
	for _, ext := range c.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// discoverTemplates lists the template files under dirs.
func (c *caretConfig) discoverTemplates(dirs []string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && c.isTemplate(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

var rootConfigPath string
var verbose bool

// loadCaretConfig reads the config file. The default file may be absent.
func loadCaretConfig() (caretConfig, error) {
	cfg := defaultConfig()
	if err := cfg.loadConfig(rootConfigPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) && rootConfigPath == defaultConfigPath {
			return cfg, nil
		}
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadSource reads a component file or a bare template.
func loadSource(path string) (component.Options, error) {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return component.Load(path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return component.Options{}, err
	}
	return component.Options{Template: template.Markup(src)}, nil
}

// checkFile compiles one template file and logs unrecognized attributes at
// debug level.
func checkFile(path string) error {
	opts, err := loadSource(path)
	if err != nil {
		return err
	}
	c, err := component.New(opts)
	if err != nil {
		return err
	}
	return template.Walk(template.VisitorFunc(func(n template.Node) error {
		if el, ok := n.(*template.Element); ok {
			for name := range el.Attributes {
				if !template.IsKnownAttribute(name) {
					slog.Debug("unrecognized attribute", "file", path, "tag", el.Tag, "attribute", name)
				}
			}
		}
		return nil
	}), c.Root)
}

var rootCmd = cobra.Command{
	Use:   "caret",
	Short: "Compile and render caret templates",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
	SilenceUsage: true,
}

var tokensCmd = cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token sequence of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadSource(args[0])
		if err != nil {
			return err
		}
		for _, t := range template.Scan(string(opts.Template)) {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

var parseCmd = cobra.Command{
	Use:   "parse [file]",
	Short: "Print the compiled tree of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadSource(args[0])
		if err != nil {
			return err
		}
		root, err := opts.Template.Compile()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), template.Pretty(root))
		return nil
	},
}

var renderData string

var renderCmd = cobra.Command{
	Use:   "render [file]",
	Short: "Render a template or component file to HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadSource(args[0])
		if err != nil {
			return err
		}
		if renderData != "" {
			data, err := os.ReadFile(renderData)
			if err != nil {
				return err
			}
			extra := map[string]any{}
			if err := yaml.Unmarshal(data, &extra); err != nil {
				return fmt.Errorf("decoding data file: %w", err)
			}
			if opts.Data == nil {
				opts.Data = map[string]any{}
			}
			maps.Copy(opts.Data, extra)
		}
		c, err := component.New(opts)
		if err != nil {
			return err
		}
		bindings, err := c.Render(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("rendering %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		for _, b := range bindings.List() {
			slog.Debug("listener bound", "id", b.ID, "tag", b.Tag, "event", b.Event)
		}
		return nil
	},
}

var checkCmd = cobra.Command{
	Use:   "check [dir...]",
	Short: "Compile every template under the given directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCaretConfig()
		if err != nil {
			return err
		}
		dirs := args
		if len(dirs) == 0 {
			dirs = cfg.TemplateDirs
		}
		files, err := cfg.discoverTemplates(dirs)
		if err != nil {
			return err
		}
		failed := 0
		for _, file := range files {
			if err := checkFile(file); err != nil {
				slog.Error("invalid template", "file", file, "error", err)
				failed++
				continue
			}
			slog.Info("validated", "file", file)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d templates failed", failed, len(files))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", defaultConfigPath, "Path to caret configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	renderCmd.Flags().StringVar(&renderData, "data", "", "YAML file with extra data for the render context")

	rootCmd.AddCommand(&tokensCmd)
	rootCmd.AddCommand(&parseCmd)
	rootCmd.AddCommand(&renderCmd)
	rootCmd.AddCommand(&checkCmd)
	rootCmd.AddCommand(&watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
