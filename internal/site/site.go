// Package site exports the project stars as a static HTML site.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alchemypls/stellar/internal/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

// unsafeHrefRe matches href/src attributes with dangerous URL schemes in goldmark output.
var unsafeHrefRe = regexp.MustCompile(`(?i)(href|src)="(?:javascript|vbscript|data):[^"]*"`)

// Site renders pages from the embedded templates.
type Site struct {
	pages map[string]*template.Template
}

// New compiles the page templates.
func New() (*Site, error) {
	md := goldmark.New(
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
	)

	funcMap := template.FuncMap{
		"renderMarkdown": func(s string) template.HTML {
			var buf bytes.Buffer
			if err := md.Convert([]byte(s), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(s))
			}
			return template.HTML(unsafeHrefRe.ReplaceAllString(buf.String(), `$1="#"`))
		},
	}

	pages := map[string]*template.Template{}
	for _, page := range []string{"index.html", "project.html", "star.html", "redirect.html"} {
		tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", page, err)
		}
		pages[page] = tmpl
	}

	return &Site{pages: pages}, nil
}

type indexEntry struct {
	catalog.ProjectAssignment
	Color             string
	ConstellationName string
}

type pageData struct {
	Title             string
	Root              string
	Entries           []indexEntry
	Star              catalog.Star
	Project           catalog.Project
	ConstellationName string
	Target            string
}

// Build writes index.html, one page per navigable star under
// projects/<starId>/ and a redirect from projects/<projectId>/ to the
// hosting star. It returns the written paths relative to outDir.
func (s *Site) Build(outDir string, cat *catalog.Catalog) ([]string, error) {
	var written []string
	write := func(rel, page string, data pageData) error {
		var buf bytes.Buffer
		if err := s.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
			return fmt.Errorf("render %s: %w", rel, err)
		}
		path := filepath.Join(outDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(rel), err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		written = append(written, rel)
		return nil
	}

	constName := func(abbr string) string {
		if c, ok := cat.Constellations[strings.ToLower(abbr)]; ok {
			return c.DisplayName()
		}
		return abbr
	}

	// Index lists project stars by title
	entries := make([]indexEntry, 0, len(cat.Assignments))
	for _, a := range cat.Assignments {
		e := indexEntry{ProjectAssignment: a, ConstellationName: constName(a.Constellation), Color: "#FFFFFF"}
		if star, ok := cat.Star(a.StarID); ok {
			e.Color = star.Color
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Project.Title != entries[j].Project.Title {
			return entries[i].Project.Title < entries[j].Project.Title
		}
		return entries[i].StarID < entries[j].StarID
	})
	if err := write("index.html", "index.html", pageData{Title: "Projects", Root: "", Entries: entries}); err != nil {
		return written, err
	}

	starIDs := make(map[string]bool, len(cat.Stars))
	for _, star := range cat.Stars {
		if err := checkPathElement(star.ID); err != nil {
			return written, fmt.Errorf("star %w", err)
		}
		starIDs[star.ID] = true
		data := pageData{
			Title:             star.DisplayName(),
			Root:              "../../",
			Star:              star,
			ConstellationName: constName(star.Constellation),
		}
		page := "star.html"
		if a, ok := cat.ProjectFor(star.ID); ok {
			data.Title = a.Project.Title
			data.Project = a.Project
			page = "project.html"
		}
		if err := write("projects/"+star.ID+"/index.html", page, data); err != nil {
			return written, err
		}
	}

	// Project ids resolve to their star when they do not clash with one
	aliases := make([]catalog.ProjectAssignment, 0, len(cat.Assignments))
	for _, a := range cat.Assignments {
		if !starIDs[a.ProjectID] && starIDs[a.StarID] {
			aliases = append(aliases, a)
		}
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].ProjectID < aliases[j].ProjectID })
	for _, a := range aliases {
		if err := checkPathElement(a.ProjectID); err != nil {
			return written, fmt.Errorf("project %w", err)
		}
		data := pageData{
			Title:  a.Project.Title,
			Root:   "../../",
			Target: "../" + a.StarID + "/index.html",
		}
		if err := write("projects/"+a.ProjectID+"/index.html", "redirect.html", data); err != nil {
			return written, err
		}
	}

	return written, nil
}

// checkPathElement rejects ids that would not stay a single directory
// under projects/.
func checkPathElement(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return fmt.Errorf("id %q is not a valid page path", id)
	}
	return nil
}

// Build compiles the templates and writes the site.
func Build(outDir string, cat *catalog.Catalog) ([]string, error) {
	s, err := New()
	if err != nil {
		return nil, err
	}
	return s.Build(outDir, cat)
}
