package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/schemadoc/internal/annotations"
	"github.com/example/schemadoc/internal/resolver"
	"github.com/example/schemadoc/internal/schema"
)

func newGenerateCommand() *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate schema definitions from a Go source tree",
		RunE: func(_ *cobra.Command, _ []string) error {
			return Generate(&config)
		},
	}

	cmd.Flags().StringVar(&config.SourcePath, "source", ".", "Directory containing Go source code to extract annotations from")
	cmd.Flags().StringVar(&config.OutputPath, "output", "schema.json", "Path to output file or '-' for stdout")
	cmd.Flags().StringVar(&config.Format, "format", "json", "Output format: json or yaml")
	cmd.Flags().StringVar(&config.Title, "title", "", "Document title")
	cmd.Flags().StringVar(&config.ID, "id", "", "Document $id")
	cmd.Flags().BoolVar(&config.Markdown, "markdown", false, "Emit markdownDescription alongside description")
	cmd.Flags().StringSliceVar(&config.ExtraTags, "tag", nil, "Extra tag name recognized by the base annotation reader (repeatable)")
	cmd.Flags().StringVar(&config.ConfigPath, "config", "", "Path to .schemadoc.yml config file")

	return cmd
}

// GenerateConfig holds configuration for schema generation.
type GenerateConfig struct {
	SourcePath string   `yaml:"source" validate:"required"`
	OutputPath string   `yaml:"output"`
	Format     string   `yaml:"format" validate:"oneof=json yaml yml"`
	Title      string   `yaml:"title"`
	ID         string   `yaml:"id"`
	Markdown   bool     `yaml:"markdown"`
	ExtraTags  []string `yaml:"extraTags"`
	ConfigPath string   `yaml:"-"`
}

// Generate runs the full pipeline: config file, validation, extraction,
// output.
func Generate(config *GenerateConfig) error {
	if err := loadConfigFile(config); err != nil {
		return err
	}
	if err := validateConfig(config); err != nil {
		return err
	}

	doc, err := BuildDocument(config)
	if err != nil {
		return err
	}
	return writeOutput(doc, config)
}

// BuildDocument parses the configured source tree and builds the enriched
// schema document.
func BuildDocument(config *GenerateConfig) (*schema.Document, error) {
	prog := resolver.NewProgram()
	if err := prog.ParseDirectory(config.SourcePath); err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	base := annotations.NewReader(prog, config.ExtraTags...)
	reader := annotations.NewExtendedReader(prog, base, config.Markdown)

	doc := schema.NewBuilder(prog, reader).Build()
	doc.Title = config.Title
	doc.ID = config.ID
	return doc, nil
}

func loadConfigFile(config *GenerateConfig) error {
	if config.ConfigPath == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(config.ConfigPath))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var cfg GenerateConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	// Apply config values where flags kept their defaults
	if config.SourcePath == "." && cfg.SourcePath != "" {
		config.SourcePath = cfg.SourcePath
	}
	if config.OutputPath == "schema.json" && cfg.OutputPath != "" {
		config.OutputPath = cfg.OutputPath
	}
	if config.Format == "json" && cfg.Format != "" {
		config.Format = cfg.Format
	}
	if config.Title == "" {
		config.Title = cfg.Title
	}
	if config.ID == "" {
		config.ID = cfg.ID
	}
	if !config.Markdown {
		config.Markdown = cfg.Markdown
	}
	if len(config.ExtraTags) == 0 {
		config.ExtraTags = cfg.ExtraTags
	}

	return nil
}

func validateConfig(config *GenerateConfig) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func writeOutput(doc *schema.Document, config *GenerateConfig) error {
	if config.OutputPath == "-" {
		return writeDocument(os.Stdout, config.Format, doc)
	}

	f, err := os.Create(config.OutputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = f.Close() }()
	return writeDocument(f, config.Format, doc)
}

func writeDocument(w io.Writer, format string, doc *schema.Document) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		// Round-trip through JSON so custom marshalers and field names apply.
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		out, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
