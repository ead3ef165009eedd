package environment

import (
	"fmt"
	"sort"
	"strings"

	"copy-environment/feature/world/models"
)

// SummaryMessage closes every environment summary.
const SummaryMessage = "List generated with copy-environment."

// PackageInfo identifies an installed system or module.
type PackageInfo struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Author   string `json:"author"`
	Manifest string `json:"manifest"`
}

// CoreInfo is the core software release.
type CoreInfo struct {
	Version string `json:"version"`
}

// Summary describes the software environment of a world: the core release,
// the game system and every active module.
type Summary struct {
	Message string        `json:"message"`
	Core    CoreInfo      `json:"core"`
	System  PackageInfo   `json:"system"`
	Modules []PackageInfo `json:"modules"`
}

// NewSummary builds a summary from the installed packages.
// Inactive modules are left out. Modules are ordered by id.
func NewSummary(packages []models.Package) Summary {
	s := Summary{Message: SummaryMessage, Modules: []PackageInfo{}}
	for _, p := range packages {
		switch p.Type {
		case models.PackageCore:
			s.Core.Version = p.Version
		case models.PackageSystem:
			if p.Active || s.System.ID == "" {
				s.System = packageInfo(p)
			}
		case models.PackageModule:
			if p.Active {
				s.Modules = append(s.Modules, packageInfo(p))
			}
		}
	}
	sort.Slice(s.Modules, func(i, j int) bool { return s.Modules[i].ID < s.Modules[j].ID })
	return s
}

func packageInfo(p models.Package) PackageInfo {
	return PackageInfo{ID: p.ID, Version: p.Version, Author: p.Author, Manifest: p.Manifest}
}

// Text renders the summary as plain text, suitable for pasting into bug reports.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Core Version: %s\n\n", s.Core.Version)
	fmt.Fprintf(&b, "System: %s %s (%s) \n\n", s.System.ID, s.System.Version, s.System.Author)
	b.WriteString("Modules: \n")
	for _, m := range s.Modules {
		fmt.Fprintf(&b, "%s %s (%s)\n", m.ID, m.Version, m.Author)
	}
	fmt.Fprintf(&b, "\n%s", s.Message)
	return b.String()
}
