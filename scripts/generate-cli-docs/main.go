// Package main writes a single markdown reference of every ecstasks CLI command.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/runvoy/ecstasks/cmd/cli/cmd"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	var outFile string
	flag.StringVar(&outFile, "out", "./docs/CLI.md", "output file for generated markdown")
	flag.Parse()

	if outFile == "" {
		log.Fatal("error: output file is required")
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
		log.Fatalf("error: creating output directory: %v", err)
	}

	var buf bytes.Buffer
	root := cmd.RootCmd()
	root.DisableAutoGenTag = true

	if err := render(&buf, root); err != nil {
		log.Fatalf("error: %v", err)
	}

	if err := os.WriteFile(filepath.Clean(outFile), buf.Bytes(), 0o600); err != nil {
		log.Fatalf("error: writing %s: %v", outFile, err)
	}

	log.Printf("generated CLI documentation in %s", outFile)
}

func render(w io.Writer, root *cobra.Command) error {
	if _, err := fmt.Fprintf(w, "# %s CLI\n\n", root.Name()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Every command, its flags and examples. Generated from the command tree."); err != nil {
		return err
	}
	return renderCommand(w, root, 2)
}

func renderCommand(w io.Writer, c *cobra.Command, level int) error {
	if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
		return nil
	}

	var section bytes.Buffer
	fmt.Fprintf(&section, "\n%s %s\n\n", strings.Repeat("#", level), c.CommandPath())
	if c.Short != "" {
		fmt.Fprintf(&section, "%s\n\n", c.Short)
	}
	if c.Long != "" && c.Long != c.Short {
		fmt.Fprintf(&section, "%s\n\n", c.Long)
	}
	if c.Example != "" {
		fmt.Fprintf(&section, "**Examples:**\n\n```bash\n%s\n```\n\n", c.Example)
	}

	var generated bytes.Buffer
	if err := doc.GenMarkdown(c, &generated); err != nil {
		return fmt.Errorf("generating markdown for %s: %w", c.CommandPath(), err)
	}
	section.WriteString(optionsSection(generated.String()))

	if _, err := w.Write(section.Bytes()); err != nil {
		return err
	}

	children := c.Commands()
	sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })
	for _, child := range children {
		if err := renderCommand(w, child, level+1); err != nil {
			return err
		}
	}
	return nil
}

// optionsSection extracts the flag tables cobra generates, up to the See Also block.
func optionsSection(markdown string) string {
	start := strings.Index(markdown, "### Options")
	if start < 0 {
		return ""
	}
	section := markdown[start:]
	if end := strings.Index(section, "### SEE ALSO"); end > 0 {
		section = section[:end]
	}
	return strings.TrimRight(section, "\n") + "\n"
}
