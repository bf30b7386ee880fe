// internal/framework/catalog_test.go
package framework

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_AllControls(t *testing.T) {
	cat := NewCatalog()

	for _, fw := range cat.Frameworks() {
		controls, err := cat.AllControls(fw)
		require.NoError(t, err)
		assert.NotEmpty(t, controls, "framework %s should have controls", fw)
		for _, ctrl := range controls {
			assert.Equal(t, fw, ctrl.Framework)
			assert.NotEmpty(t, ctrl.ControlID)
			assert.NotEmpty(t, ctrl.Name)
		}
	}

	_, err := cat.AllControls("NOPE")
	assert.ErrorIs(t, err, ErrUnknownFramework)
}

func TestCatalog_PhaseMappingsReferenceKnownControls(t *testing.T) {
	cat := NewCatalog()

	for _, fw := range cat.Frameworks() {
		for _, phase := range Phases {
			pm, err := cat.PhaseMapping(fw, phase)
			if err != nil {
				continue // not every framework covers every phase
			}
			for _, id := range pm.Controls {
				_, err := cat.Control(fw, id)
				assert.NoError(t, err, "%s/%s references unknown control %s", fw, phase, id)
			}
			// Mandatory must be a subset of Controls
			members := make(map[string]bool)
			for _, id := range pm.Controls {
				members[id] = true
			}
			for _, id := range pm.Mandatory {
				assert.True(t, members[id], "%s/%s mandatory %s not in controls", fw, phase, id)
			}
		}
	}
}

func TestCatalog_ControlsForPhase(t *testing.T) {
	cat := NewCatalog()

	controls, err := cat.ControlsForPhase(BSIGrundschutz, PhaseContainment)
	require.NoError(t, err)
	ids := make([]string, len(controls))
	for i, c := range controls {
		ids[i] = c.ControlID
	}
	assert.Contains(t, ids, "DER.2.1")

	_, err = cat.ControlsForPhase(ISO27001, "pre_incident")
	assert.ErrorIs(t, err, ErrUnknownPhase)
}

func TestCatalog_EquivalentControls(t *testing.T) {
	cat := NewCatalog()

	t.Run("BSI DER.2.1 maps to ISO A.5.26", func(t *testing.T) {
		equiv, err := cat.EquivalentControls(BSIGrundschutz, "DER.2.1")
		require.NoError(t, err)
		assert.Contains(t, equiv[ISO27001], "A.5.26")
		assert.Contains(t, equiv[NIST80053], "IR-4")
		assert.NotContains(t, equiv, BSIGrundschutz, "queried framework is excluded")
	})

	t.Run("mapping is symmetric", func(t *testing.T) {
		back, err := cat.EquivalentControls(ISO27001, "A.5.26")
		require.NoError(t, err)
		assert.Contains(t, back[BSIGrundschutz], "DER.2.1")
	})

	t.Run("unknown control", func(t *testing.T) {
		_, err := cat.EquivalentControls(ISO27001, "A.99.99")
		assert.ErrorIs(t, err, ErrControlNotFound)
	})
}

func TestCatalog_ControlsForPhaseUnified(t *testing.T) {
	cat := NewCatalog()

	unified, err := cat.ControlsForPhaseUnified(PhasePostIncident)
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, uc := range unified {
		ids[uc.UnifiedID] = true
	}
	assert.True(t, ids["U-LESSONS-LEARNED"])

	seen := make(map[string]int)
	for _, uc := range unified {
		seen[uc.UnifiedID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "unified control %s must not be duplicated", id)
	}

	assert.True(t, sort.SliceIsSorted(unified, func(i, j int) bool {
		return unified[i].UnifiedID < unified[j].UnifiedID
	}), "listing order must not depend on map iteration")
}

func TestCatalog_ControlDetails(t *testing.T) {
	cat := NewCatalog()

	details, err := cat.ControlDetails(ISO27001, "A.5.26")
	require.NoError(t, err)
	assert.Equal(t, "A.5.26", details.Control.ControlID)
	assert.Equal(t, "U-INCIDENT-RESPONSE", details.UnifiedID)
	assert.Equal(t, "incident_response", details.Category)
	assert.Contains(t, details.Equivalent[BSIGrundschutz], "DER.2.1")
}

func TestDefaultEntityType(t *testing.T) {
	et, ok := DefaultEntityType(SectorEnergy)
	require.True(t, ok)
	assert.Equal(t, EntityEssential, et)

	et, ok = DefaultEntityType(SectorFood)
	require.True(t, ok)
	assert.Equal(t, EntityImportant, et)

	_, ok = DefaultEntityType("agriculture")
	assert.False(t, ok)
}

func TestMemberStateByCode(t *testing.T) {
	ms, ok := MemberStateByCode("DE")
	require.True(t, ok)
	assert.Equal(t, "Germany", ms.Name)
	assert.Contains(t, ms.CSIRT, "BSI")

	_, ok = MemberStateByCode("US")
	assert.False(t, ok)
}
