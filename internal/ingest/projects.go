package ingest

import (
	"strings"

	"github.com/alchemypls/stellar/internal/catalog"
)

// Target picks the star that hosts a project: the first star of the
// constellation whose designation starts with BayerPattern.
type Target struct {
	BayerPattern  string `yaml:"bayer" json:"bayer"`
	Constellation string `yaml:"constellation" json:"constellation"`
	ProjectID     string `yaml:"project" json:"project"`
}

// AssignProjects marks matching stars as project stars in place and returns
// the assignments keyed by star id, plus the targets that found no star or
// no project.
func AssignProjects(stars []catalog.Star, projects []catalog.Project, targets []Target) (map[string]catalog.ProjectAssignment, []Target) {
	byID := make(map[string]catalog.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	assignments := make(map[string]catalog.ProjectAssignment)
	var unmatched []Target

	for _, t := range targets {
		idx := -1
		for i, s := range stars {
			if strings.EqualFold(s.Constellation, t.Constellation) &&
				s.Bayer != "" &&
				strings.HasPrefix(s.Bayer, t.BayerPattern) {
				idx = i
				break
			}
		}
		project, ok := byID[t.ProjectID]
		if idx < 0 || !ok {
			unmatched = append(unmatched, t)
			continue
		}

		star := &stars[idx]
		star.Type = catalog.TypeProject
		assignments[star.ID] = catalog.ProjectAssignment{
			StarID:        star.ID,
			StarName:      star.Proper,
			Constellation: star.Constellation,
			ProjectID:     project.ID,
			Project:       project,
		}
	}

	return assignments, unmatched
}

// DefaultTargets places the stock projects on Deneb, Sadr, Betelgeuse, Vega
// and Regulus.
func DefaultTargets() []Target {
	return []Target{
		{BayerPattern: "Alp", Constellation: "Cyg", ProjectID: "stellar-portfolio"},
		{BayerPattern: "Gam", Constellation: "Cyg", ProjectID: "constellation-mapper"},
		{BayerPattern: "Alp", Constellation: "Ori", ProjectID: "nebula-framework"},
		{BayerPattern: "Alp", Constellation: "Lyr", ProjectID: "astral-analytics"},
		{BayerPattern: "Alp", Constellation: "Leo", ProjectID: "orbital-cms"},
	}
}

// DefaultProjects returns the stock portfolio entries.
func DefaultProjects() []catalog.Project {
	return []catalog.Project{
		{
			ID:          "stellar-portfolio",
			Title:       "Stellar Portfolio Engine",
			Description: "A dynamic portfolio system that grows and evolves like the cosmos itself. Built with modern web technologies to showcase projects in an immersive starfield experience.",
			Tech:        []string{"Next.js", "TypeScript", "Canvas API", "Tailwind CSS"},
			Image:       "/projects/portfolio-engine.jpg",
			Links: catalog.ProjectLinks{
				GitHub: "https://github.com/alchemypls/stellar-portfolio",
				Live:   "https://stellar-portfolio.vercel.app",
			},
		},
		{
			ID:          "constellation-mapper",
			Title:       "Constellation Mapper",
			Description: "An interactive star mapping application that connects celestial objects with smooth animations and real-time data visualization.",
			Tech:        []string{"React", "D3.js", "WebGL", "API Integration"},
			Image:       "/projects/constellation-mapper.jpg",
			Links: catalog.ProjectLinks{
				GitHub: "https://github.com/alchemypls/constellation-mapper",
				Live:   "https://constellation-mapper.vercel.app",
			},
		},
		{
			ID:          "nebula-framework",
			Title:       "Nebula Framework",
			Description: "A lightweight yet powerful framework for building scalable web applications with stellar performance and cosmic flexibility.",
			Tech:        []string{"TypeScript", "Node.js", "GraphQL", "Docker"},
			Image:       "/projects/nebula-framework.jpg",
			Links: catalog.ProjectLinks{
				GitHub: "https://github.com/alchemypls/nebula-framework",
				Live:   "https://nebula-framework.dev",
			},
		},
		{
			ID:          "astral-analytics",
			Title:       "Astral Analytics",
			Description: "A data visualization platform for astronomy enthusiasts, featuring real-time cosmic data and interactive celestial charts.",
			Tech:        []string{"Vue.js", "Python", "TensorFlow", "Flask"},
			Image:       "/projects/astral-analytics.jpg",
			Links: catalog.ProjectLinks{
				GitHub: "https://github.com/alchemypls/astral-analytics",
				Live:   "https://astral-analytics.io",
			},
		},
		{
			ID:          "orbital-cms",
			Title:       "Orbital CMS",
			Description: "A content management system designed for astronomers and space enthusiasts to share discoveries and research.",
			Tech:        []string{"Angular", "MongoDB", "Express", "Node.js"},
			Image:       "/projects/orbital-cms.jpg",
			Links: catalog.ProjectLinks{
				GitHub: "https://github.com/alchemypls/orbital-cms",
				Live:   "https://orbital-cms.com",
			},
		},
	}
}
