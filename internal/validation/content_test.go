package validation

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carecompass/funnelkit/internal/definition"
)

func TestValidateContentManifest_ValidFile(t *testing.T) {
	t.Parallel()

	raw, err := DecodeFile(filepath.Join("testdata", "content", "valid.json"))
	require.NoError(t, err)

	m, result := CompileContent(raw, StrictParse)
	require.True(t, result.Valid, FormatValidationErrors(result.Errors))
	require.NotNil(t, result.Summary)
	assert.Equal(t, map[string]int{"pages": 2, "sections": 3, "assets": 1}, result.Summary.Counts)

	ordered := m.Pages[0].OrderedSections()
	keys := []string{ordered[0].Key, ordered[1].Key}
	assert.Equal(t, []string{"hero", "body"}, keys)

	require.Len(t, m.Assets, 1)
	assert.Equal(t, "hero-image", m.Assets[0].Key)
	assert.Equal(t, definition.AssetImage, m.Assets[0].Type)
}

func TestParseContentManifest_TypedShape(t *testing.T) {
	t.Parallel()

	doc := `{"schemaVersion": "v1", "pages": [{"slug": "p", "title": "P",
		"sections": [{"key": "s", "type": "text", "content": {"body": "hi"}, "orderIndex": 2}]}]}`

	m, errs := ParseContentManifest(decode(t, doc), StrictParse)
	require.Empty(t, errs)

	two := 2
	want := &definition.ContentManifest{
		SchemaVersion: "v1",
		Version:       "1.0",
		Pages: []definition.Page{{
			Slug:  "p",
			Title: "P",
			Sections: []definition.Section{{
				Key:        "s",
				Type:       definition.SectionText,
				Content:    map[string]any{"body": "hi"},
				OrderIndex: &two,
			}},
		}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("ParseContentManifest() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseContentManifest_Structural(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc       string
		opts      ParseOptions
		wantCodes []Code
	}{
		"root is a string": {
			doc:       `"pages"`,
			opts:      StrictParse,
			wantCodes: []Code{CodeInvalidRoot},
		},
		"pages missing": {
			doc:       `{"schemaVersion": "v1"}`,
			opts:      StrictParse,
			wantCodes: []Code{CodeMissingPages},
		},
		"pages missing and no schema version": {
			doc:       `{}`,
			opts:      StrictParse,
			wantCodes: []Code{CodeMissingSchemaVersion, CodeMissingPages},
		},
		"lenient accepts absent schema version": {
			doc:  `{"pages": []}`,
			opts: LenientParse,
		},
		"unknown section type": {
			doc:       `{"schemaVersion": "v1", "pages": [{"slug": "p", "title": "P", "sections": [{"key": "s", "type": "carousel"}]}]}`,
			opts:      StrictParse,
			wantCodes: []Code{CodeUnknownSectionType},
		},
		"fractional orderIndex": {
			doc:       `{"schemaVersion": "v1", "pages": [{"slug": "p", "title": "P", "sections": [{"key": "s", "type": "text", "orderIndex": 1.5}]}]}`,
			opts:      StrictParse,
			wantCodes: []Code{CodeInvalidFieldType},
		},
		"orderIndex beyond integer range": {
			doc:       `{"schemaVersion": "v1", "pages": [{"slug": "p", "title": "P", "sections": [{"key": "s", "type": "text", "orderIndex": 1e300}]}]}`,
			opts:      StrictParse,
			wantCodes: []Code{CodeInvalidFieldType},
		},
		"orderIndex just past int32": {
			doc:       `{"schemaVersion": "v1", "pages": [{"slug": "p", "title": "P", "sections": [{"key": "s", "type": "text", "orderIndex": 2147483648}]}]}`,
			opts:      StrictParse,
			wantCodes: []Code{CodeInvalidFieldType},
		},
		"unknown asset type": {
			doc:       `{"schemaVersion": "v1", "pages": [], "assets": [{"key": "a", "type": "hologram", "url": "u"}]}`,
			opts:      StrictParse,
			wantCodes: []Code{CodeUnknownAssetType},
		},
		"content not an object": {
			doc:       `{"schemaVersion": "v1", "pages": [{"slug": "p", "title": "P", "sections": [{"key": "s", "type": "text", "content": "hi"}]}]}`,
			opts:      StrictParse,
			wantCodes: []Code{CodeInvalidFieldType},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, errs := ParseContentManifest(decode(t, tc.doc), tc.opts)
			if len(tc.wantCodes) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tc.wantCodes, codesOf(errs))
		})
	}
}

func validManifest() *definition.ContentManifest {
	zero, one := 0, 1
	return &definition.ContentManifest{
		SchemaVersion: "v1",
		Version:       "1.0",
		Pages: []definition.Page{
			{
				Slug:  "intro",
				Title: "Intro",
				Sections: []definition.Section{
					{Key: "hero", Type: definition.SectionHero, OrderIndex: &zero},
					{Key: "body", Type: definition.SectionMarkdown, OrderIndex: &one},
				},
			},
			{
				Slug:     "results",
				Title:    "Results",
				Sections: []definition.Section{{Key: "hero", Type: definition.SectionCTA}},
			},
		},
		Assets: []definition.Asset{{Key: "logo", Type: definition.AssetImage, URL: "https://cdn/logo.png"}},
	}
}

func TestCheckContentIntegrity_ValidManifest(t *testing.T) {
	t.Parallel()

	// Section keys only need to be unique within a page.
	errs, warnings := CheckContentIntegrity(validManifest())
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestCheckContentIntegrity_EmptyPagesShortCircuits(t *testing.T) {
	t.Parallel()

	errs, _ := CheckContentIntegrity(&definition.ContentManifest{SchemaVersion: "v0"})
	require.Len(t, errs, 1)
	assert.Equal(t, CodeEmptyPages, errs[0].Code)
}

func TestCheckContentIntegrity_Violations(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate    func(m *definition.ContentManifest)
		wantCodes []Code
		wantPath  string
	}{
		"missing slug": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[1].Slug = "" },
			wantCodes: []Code{CodeMissingPageSlug},
			wantPath:  "pages[1].slug",
		},
		"duplicate slug": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[1].Slug = "intro" },
			wantCodes: []Code{CodeDuplicatePageSlug},
			wantPath:  "pages[1].slug",
		},
		"missing title": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[0].Title = " " },
			wantCodes: []Code{CodeMissingPageTitle},
			wantPath:  "pages[0].title",
		},
		"sections absent": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[1].Sections = nil },
			wantCodes: []Code{CodeMissingSections},
			wantPath:  "pages[1].sections",
		},
		"sections empty": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[1].Sections = []definition.Section{} },
			wantCodes: []Code{CodeEmptySections},
			wantPath:  "pages[1].sections",
		},
		"missing section key": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[0].Sections[1].Key = "" },
			wantCodes: []Code{CodeMissingSectionKey},
			wantPath:  "pages[0].sections[1].key",
		},
		"duplicate section key in page": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[0].Sections[1].Key = "hero" },
			wantCodes: []Code{CodeDuplicateSectionKey},
			wantPath:  "pages[0].sections[1].key",
		},
		"missing section type": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[0].Sections[0].Type = "" },
			wantCodes: []Code{CodeMissingSectionType},
			wantPath:  "pages[0].sections[0].type",
		},
		"section type outside registry": {
			mutate:    func(m *definition.ContentManifest) { m.Pages[0].Sections[0].Type = "carousel" },
			wantCodes: []Code{CodeUnknownSectionType},
			wantPath:  "pages[0].sections[0].type",
		},
		"missing asset key": {
			mutate:    func(m *definition.ContentManifest) { m.Assets[0].Key = "" },
			wantCodes: []Code{CodeMissingAssetKey},
			wantPath:  "assets[0].key",
		},
		"duplicate asset key": {
			mutate: func(m *definition.ContentManifest) {
				m.Assets = append(m.Assets, definition.Asset{Key: "logo", Type: definition.AssetVideo, URL: "u"})
			},
			wantCodes: []Code{CodeDuplicateAssetKey},
			wantPath:  "assets[1].key",
		},
		"missing asset type": {
			mutate:    func(m *definition.ContentManifest) { m.Assets[0].Type = "" },
			wantCodes: []Code{CodeMissingAssetType},
			wantPath:  "assets[0].type",
		},
		"missing asset url": {
			mutate:    func(m *definition.ContentManifest) { m.Assets[0].URL = "" },
			wantCodes: []Code{CodeMissingAssetURL},
			wantPath:  "assets[0].url",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := validManifest()
			tc.mutate(m)

			errs, _ := CheckContentIntegrity(m)
			assert.Equal(t, tc.wantCodes, codesOf(errs), FormatValidationErrors(errs))
			require.NotEmpty(t, errs)
			assert.Equal(t, tc.wantPath, errs[0].Path.String())
		})
	}
}

func TestCheckContentIntegrity_DuplicateOrderIndexWarns(t *testing.T) {
	t.Parallel()

	m := validManifest()
	zero := 0
	m.Pages[0].Sections[1].OrderIndex = &zero

	errs, warnings := CheckContentIntegrity(m)
	assert.Empty(t, errs)
	require.Len(t, warnings, 1)
	assert.Equal(t, CodeWarnDuplicateOrderIndex, warnings[0].Code)
	assert.Equal(t, "pages[0].sections[1].orderIndex", warnings[0].Path.String())
}

func TestValidateContentManifest_WarningsKeepResultValid(t *testing.T) {
	t.Parallel()

	doc := `{"schemaVersion": "v1", "pages": [{"slug": "p", "title": "P", "sections": [
		{"key": "a", "type": "text", "orderIndex": 3},
		{"key": "b", "type": "text", "orderIndex": 3}]}]}`

	result := ValidateContentManifest(decode(t, doc))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Warnings, 1)
}
