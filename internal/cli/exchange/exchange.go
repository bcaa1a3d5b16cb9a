package exchange

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/julianstephens/pa/internal/cli"
)

type ExportCmd struct {
	Format string `short:"f" enum:"json,yaml" default:"json" help:"Document format (json|yaml)."`
	Out    string `short:"o" help:"Directory to write into (defaults to the configured export dir)."`
	Stdout bool   `help:"Write the document to stdout instead of a file."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	art, err := ctx.App.Export(c.Format)
	if err != nil {
		return err
	}
	if c.Stdout {
		_, err := ctx.Out.Write(art.Data)
		return err
	}

	dir := c.Out
	if dir == "" {
		dir = ctx.Config.ExportDir
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, art.Filename)
	if err := os.WriteFile(path, art.Data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("✓ Exported %d skills and %d sessions to %s\n",
		len(art.Snapshot.Payload.Skills), len(art.Snapshot.Payload.Sessions), path)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"Backup document to import (JSON or YAML), or - for stdin (applied without prompting)."`
	DryRun bool   `help:"Validate and summarize without changing anything."`
	Yes    bool   `short:"y" help:"Skip confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	var (
		raw []byte
		err error
	)
	if c.File == "-" {
		raw, err = io.ReadAll(ctx.In)
	} else {
		raw, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	data, err := ctx.App.Import(raw)
	if err != nil {
		return err
	}
	ctx.Printf("Document contains %d skills and %d sessions (saved %s).\n",
		len(data.Payload.Skills), len(data.Payload.Sessions), data.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if c.DryRun {
		ctx.Println("Dry run: nothing changed.")
		return nil
	}

	if !c.Yes && c.File != "-" {
		ok, err := ctx.Confirm("Replace current data with this document?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}
	if err := ctx.App.ApplyImport(data); err != nil {
		return err
	}
	ctx.Println("✓ Import complete")
	return nil
}
