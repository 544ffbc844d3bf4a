package main

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/dmitrymomot/donatekit/pkg/slug"
)

//go:embed templates
var templatesFS embed.FS

// scaffoldData is the substitution context for the embedded templates.
type scaffoldData struct {
	ModulePath  string
	ProjectName string
	ProjectSlug string
}

var scaffoldFiles = []struct {
	source string
	target string
}{
	{"templates/routes.go.tmpl", "donation/routes.go"},
	{"templates/config.go.tmpl", "donation/config.go"},
	{"templates/env.example.tmpl", ".env.example"},
	{"templates/setup.md.tmpl", "DONATION_SETUP.md"},
}

// runInit writes the donation boilerplate into dir. Files that already exist
// are left untouched, so re-running init never clobbers local edits.
func runInit(dir string, stdout io.Writer) error {
	modulePath, err := hostModulePath(dir)
	if err != nil {
		return err
	}

	name := path.Base(modulePath)
	data := scaffoldData{
		ModulePath:  modulePath,
		ProjectName: name,
		ProjectSlug: slug.Make(name),
	}

	for _, f := range scaffoldFiles {
		target := filepath.Join(dir, f.target)
		if _, err := os.Stat(target); err == nil {
			fmt.Fprintf(stdout, "skipped %s (already exists)\n", f.target)
			continue
		}

		if err := renderTemplate(f.source, target, data); err != nil {
			return fmt.Errorf("scaffold %s: %w", f.target, err)
		}
		fmt.Fprintf(stdout, "created %s\n", f.target)
	}

	fmt.Fprintln(stdout, "\nDone. See DONATION_SETUP.md for next steps.")
	return nil
}

// hostModulePath reads the module directive from go.mod in dir, proving the
// command runs inside a Go project and giving the templates an import path.
func hostModulePath(dir string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", errors.New("no go.mod found: run donatekit init from the root of your Go project")
	}

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(after), nil
		}
	}
	return "", errors.New("go.mod has no module directive")
}

func renderTemplate(source, target string, data scaffoldData) error {
	tmpl, err := template.ParseFS(templatesFS, source)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	return tmpl.Execute(out, data)
}
