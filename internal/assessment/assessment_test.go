// internal/assessment/assessment_test.go
package assessment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberops/isora/internal/tenant"
)

func newTestService() *Service {
	return NewService(NewMemoryStore(), nil)
}

func TestAnnexACatalog(t *testing.T) {
	assert.Len(t, AnnexA, 93)

	counts := make(map[Theme]int)
	seen := make(map[string]bool)
	for _, c := range AnnexA {
		counts[c.Theme] += 1
		assert.False(t, seen[c.Code], "duplicate code %s", c.Code)
		seen[c.Code] = true
	}
	assert.Equal(t, 37, counts[ThemeOrganizational])
	assert.Equal(t, 8, counts[ThemePeople])
	assert.Equal(t, 14, counts[ThemePhysical])
	assert.Equal(t, 34, counts[ThemeTechnological])

	incident, ok := ControlByCode("A.5.26")
	require.True(t, ok)
	assert.Equal(t, "Response to information security incidents", incident.Name)
}

func TestCreate_InitializesFullSoA(t *testing.T) {
	s := newTestService()

	a, err := s.Create(context.Background(), CreateInput{Name: "ISMS 2026"})
	require.NoError(t, err)
	assert.Len(t, a.Entries, 93)
	assert.Equal(t, "draft", a.Status)

	entry := a.Entries["A.8.15"]
	require.NotNil(t, entry)
	assert.Equal(t, StatusNotEvaluated, entry.Status)
	assert.True(t, entry.Applicable)
	assert.Equal(t, "Logging", entry.ControlName)
}

func TestCreate_StampsTenant(t *testing.T) {
	s := newTestService()
	ctx := tenant.WithContext(context.Background(), &tenant.Context{TenantID: "acme"})

	a, err := s.Create(ctx, CreateInput{Name: "scoped"})
	require.NoError(t, err)
	assert.Equal(t, "acme", a.TenantID)
}

func TestUpdateEntry(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	a, err := s.Create(ctx, CreateInput{Name: "x"})
	require.NoError(t, err)

	entry, err := s.UpdateEntry(ctx, a.ID, "A.5.1", EntryUpdate{
		Status:         StatusCompliant,
		Implementation: 100,
		Evidence:       "Policy suite v3 approved by the board",
		UpdatedBy:      "auditor@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompliant, entry.Status)
	assert.Equal(t, 100, entry.Implementation)
	assert.NotNil(t, entry.UpdatedAt)

	t.Run("unknown control", func(t *testing.T) {
		_, err := s.UpdateEntry(ctx, a.ID, "A.9.1", EntryUpdate{Status: StatusGap})
		assert.ErrorIs(t, err, ErrUnknownControl)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := s.UpdateEntry(ctx, a.ID, "A.5.1", EntryUpdate{Status: "done"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("missing assessment", func(t *testing.T) {
		_, err := s.UpdateEntry(ctx, "ghost", "A.5.1", EntryUpdate{Status: StatusGap})
		assert.ErrorIs(t, err, ErrAssessmentNotFound)
	})
}

func TestBulkUpdate(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	a, err := s.Create(ctx, CreateInput{Name: "x"})
	require.NoError(t, err)

	result, err := s.BulkUpdate(ctx, a.ID, map[string]EntryUpdate{
		"A.5.1": {Status: StatusCompliant, Implementation: 100},
		"A.5.2": {Status: StatusPartial, Implementation: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 2, result.TotalSubmitted)
	assert.Empty(t, result.Skipped)

	overview, err := s.Overview(ctx, a.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, overview.TotalCompliant, 1)
	assert.Equal(t, "in_progress", overview.Status)

	t.Run("unknown codes are skipped not fatal", func(t *testing.T) {
		result, err := s.BulkUpdate(ctx, a.ID, map[string]EntryUpdate{
			"A.5.3":  {Status: StatusGap},
			"A.99.9": {Status: StatusGap},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 2, result.TotalSubmitted)
		assert.Equal(t, []string{"A.99.9"}, result.Skipped)
	})
}

func TestOverview_Scoring(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	a, err := s.Create(ctx, CreateInput{Name: "x"})
	require.NoError(t, err)

	// All eight people controls: 4 compliant, 2 partial, 2 gaps.
	updates := map[string]EntryUpdate{
		"A.6.1": {Status: StatusCompliant, Implementation: 100},
		"A.6.2": {Status: StatusCompliant, Implementation: 100},
		"A.6.3": {Status: StatusCompliant, Implementation: 100},
		"A.6.4": {Status: StatusCompliant, Implementation: 100},
		"A.6.5": {Status: StatusPartial, Implementation: 50},
		"A.6.6": {Status: StatusPartial, Implementation: 50},
		"A.6.7": {Status: StatusGap},
		"A.6.8": {Status: StatusGap},
	}
	_, err = s.BulkUpdate(ctx, a.ID, updates)
	require.NoError(t, err)

	overview, err := s.Overview(ctx, a.ID)
	require.NoError(t, err)

	var people ThemeStats
	for _, theme := range overview.Themes {
		if theme.Theme == ThemePeople {
			people = theme
		}
	}
	assert.Equal(t, 8, people.TotalControls)
	assert.Equal(t, 4, people.Compliant)
	assert.Equal(t, 2, people.Partial)
	assert.Equal(t, 2, people.Gaps)
	// 100 * (4 + 0.5*2) / 8
	assert.InDelta(t, 62.5, people.Score, 0.001)
	assert.InDelta(t, 62.5, people.Implementation, 0.001)
}

func TestOverview_NonApplicableExcluded(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	a, err := s.Create(ctx, CreateInput{Name: "x"})
	require.NoError(t, err)

	notApplicable := false
	_, err = s.UpdateEntry(ctx, a.ID, "A.7.1", EntryUpdate{
		Status:        StatusNotEvaluated,
		Applicable:    &notApplicable,
		Justification: "Fully remote organization, no owned premises",
	})
	require.NoError(t, err)

	overview, err := s.Overview(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 92, overview.TotalControls)

	for _, theme := range overview.Themes {
		if theme.Theme == ThemePhysical {
			assert.Equal(t, 13, theme.TotalControls)
			assert.Equal(t, 1, theme.NotApplicable)
		}
	}
}

func TestListControls(t *testing.T) {
	t.Run("pagination", func(t *testing.T) {
		page := ListControls("", "", 1, 20)
		assert.Equal(t, 93, page.Total)
		assert.Len(t, page.Controls, 20)
		assert.Equal(t, "A.5.1", page.Controls[0].Code)

		last := ListControls("", "", 5, 20)
		assert.Len(t, last.Controls, 13)
	})

	t.Run("theme filter", func(t *testing.T) {
		page := ListControls(ThemePeople, "", 1, 50)
		assert.Equal(t, 8, page.Total)
	})

	t.Run("search", func(t *testing.T) {
		page := ListControls("", "cryptography", 1, 20)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "A.8.24", page.Controls[0].Code)
	})

	t.Run("out of range page is empty", func(t *testing.T) {
		page := ListControls("", "", 99, 20)
		assert.Empty(t, page.Controls)
		assert.Equal(t, 93, page.Total)
	})
}

func TestReport(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	a, err := s.Create(ctx, CreateInput{Name: "x"})
	require.NoError(t, err)

	report, err := s.Report(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, report.Entries, 93)
	assert.Equal(t, "A.5.1", report.Entries[0].ControlCode, "entries are in catalog order")
	assert.Equal(t, "A.8.34", report.Entries[92].ControlCode)

	raw, err := report.ExportJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"control_code": "A.5.1"`)
}

func TestTenantIsolation(t *testing.T) {
	s := newTestService()
	acme := tenant.WithContext(context.Background(), &tenant.Context{TenantID: "acme"})
	other := tenant.WithContext(context.Background(), &tenant.Context{TenantID: "other"})

	a, err := s.Create(acme, CreateInput{Name: "scoped"})
	require.NoError(t, err)

	_, err = s.Get(other, a.ID)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)

	_, err = s.UpdateEntry(other, a.ID, "A.5.1", EntryUpdate{Status: StatusGap})
	assert.ErrorIs(t, err, ErrAssessmentNotFound)

	_, err = s.Overview(other, a.ID)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)

	got, err := s.Get(acme, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.TenantID)
}
