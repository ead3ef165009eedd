package environment

import (
	"testing"

	"copy-environment/feature/world/models"

	"github.com/stretchr/testify/assert"
)

func TestNewSummary(t *testing.T) {
	s := NewSummary([]models.Package{
		{ID: "core", Type: models.PackageCore, Version: "11.315"},
		{ID: "old", Type: models.PackageSystem, Version: "1"},
		{ID: "pf2e", Type: models.PackageSystem, Version: "5.0", Author: "Paizo", Active: true},
		{ID: "zeta", Type: models.PackageModule, Version: "1", Author: "Z", Active: true},
		{ID: "alpha", Type: models.PackageModule, Version: "2", Author: "A", Active: true},
		{ID: "off", Type: models.PackageModule, Version: "3"},
	})

	assert.Equal(t, "11.315", s.Core.Version)
	assert.Equal(t, "pf2e", s.System.ID)
	assert.Equal(t, []PackageInfo{
		{ID: "alpha", Version: "2", Author: "A"},
		{ID: "zeta", Version: "1", Author: "Z"},
	}, s.Modules)
}

func TestSummary_Text(t *testing.T) {
	s := Summary{
		Message: SummaryMessage,
		Core:    CoreInfo{Version: "11.315"},
		System:  PackageInfo{ID: "dnd5e", Version: "3.0.0", Author: "Atropos"},
		Modules: []PackageInfo{{ID: "a-mod", Version: "2.1", Author: "A"}},
	}

	expected := "Core Version: 11.315\n\n" +
		"System: dnd5e 3.0.0 (Atropos) \n\n" +
		"Modules: \n" +
		"a-mod 2.1 (A)\n" +
		"\n" + SummaryMessage
	assert.Equal(t, expected, s.Text())
}

func TestSummary_NoModules(t *testing.T) {
	s := NewSummary(nil)
	assert.NotNil(t, s.Modules)
	assert.Contains(t, s.Text(), "Modules: \n\n")
}
