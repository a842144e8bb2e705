package validation

import (
	"fmt"
	"strings"

	"github.com/carecompass/funnelkit/internal/definition"
)

// ParseContentManifest runs the structural pass over an untyped content
// manifest document.
func ParseContentManifest(raw any, opts ParseOptions) (*definition.ContentManifest, []*ValidationError) {
	p := newParser(opts)
	root, ok := p.root(raw)
	if !ok {
		return nil, p.errs
	}

	m := &definition.ContentManifest{
		SchemaVersion: p.schemaVersion(root),
		Version:       p.displayVersion(root),
	}

	if _, present := field(root, "pages"); !present {
		p.fail(CodeMissingPages, Path{"pages"}, "missing required field: pages", nil)
	} else if pages, ok := p.array(root, "pages", Path{}); ok {
		m.Pages = make([]definition.Page, 0, len(pages))
		for i, rawPage := range pages {
			path := Path{"pages"}.Index(i)
			pm, ok := p.element(rawPage, path)
			if !ok {
				continue
			}
			m.Pages = append(m.Pages, p.page(pm, path))
		}
	}

	if assets, ok := p.array(root, "assets", Path{}); ok {
		m.Assets = make([]definition.Asset, 0, len(assets))
		for i, rawAsset := range assets {
			path := Path{"assets"}.Index(i)
			am, ok := p.element(rawAsset, path)
			if !ok {
				continue
			}
			m.Assets = append(m.Assets, p.asset(am, path))
		}
	}

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return m, nil
}

func (p *parser) page(m map[string]any, path Path) definition.Page {
	page := definition.Page{
		Slug:        p.str(m, "slug", path),
		Title:       p.str(m, "title", path),
		Description: p.str(m, "description", path),
	}
	if sections, ok := p.array(m, "sections", path); ok {
		page.Sections = make([]definition.Section, 0, len(sections))
		for i, rawSection := range sections {
			sp := path.Key("sections").Index(i)
			sm, ok := p.element(rawSection, sp)
			if !ok {
				continue
			}
			page.Sections = append(page.Sections, p.section(sm, sp))
		}
	}
	return page
}

func (p *parser) section(m map[string]any, path Path) definition.Section {
	s := definition.Section{
		Key:        p.str(m, "key", path),
		OrderIndex: p.integer(m, "orderIndex", path),
	}
	if content, ok := p.object(m, "content", path); ok {
		s.Content = content
	}
	if t := p.str(m, "type", path); t != "" {
		st, ok := definition.ParseSectionType(t)
		if !ok {
			p.fail(CodeUnknownSectionType, path.Key("type"),
				fmt.Sprintf("unknown section type %q", t),
				map[string]any{"actual": t, "expected": sectionTypeList()})
		}
		s.Type = st
	}
	return s
}

func (p *parser) asset(m map[string]any, path Path) definition.Asset {
	a := definition.Asset{
		Key: p.str(m, "key", path),
		URL: p.str(m, "url", path),
	}
	if meta, ok := p.object(m, "metadata", path); ok {
		a.Metadata = meta
	}
	if t := p.str(m, "type", path); t != "" {
		at, ok := definition.ParseAssetType(t)
		if !ok {
			p.fail(CodeUnknownAssetType, path.Key("type"),
				fmt.Sprintf("unknown asset type %q", t),
				map[string]any{"actual": t, "expected": assetTypeList()})
		}
		a.Type = at
	}
	return a
}

func sectionTypeList() string {
	types := definition.SectionTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return "one of: " + strings.Join(names, ", ")
}

func assetTypeList() string {
	types := definition.AssetTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return "one of: " + strings.Join(names, ", ")
}

// CheckContentIntegrity runs the referential pass over a structurally valid
// content manifest.
func CheckContentIntegrity(m *definition.ContentManifest) (errs, warnings []*ValidationError) {
	var c collector

	if len(m.Pages) == 0 {
		c.fail(CodeEmptyPages, Path{"pages"}, "content manifest must contain at least one page", nil)
		return c.errs, c.warnings
	}
	if m.SchemaVersion != definition.SchemaVersionV1 {
		c.fail(CodeInvalidSchemaVersion, Path{"schemaVersion"}, "unsupported schemaVersion",
			map[string]any{"expected": definition.SchemaVersionV1, "actual": m.SchemaVersion})
	}

	seenSlugs := make(map[string]int)
	for pi, page := range m.Pages {
		path := Path{"pages"}.Index(pi)

		if slug := strings.TrimSpace(page.Slug); slug == "" {
			c.fail(CodeMissingPageSlug, path.Key("slug"), "page is missing a slug", nil)
		} else if first, dup := seenSlugs[slug]; dup {
			c.fail(CodeDuplicatePageSlug, path.Key("slug"),
				fmt.Sprintf("duplicate page slug %q", slug),
				map[string]any{"slug": slug, "firstIndex": first})
		} else {
			seenSlugs[slug] = pi
		}

		if strings.TrimSpace(page.Title) == "" {
			c.fail(CodeMissingPageTitle, path.Key("title"), "page is missing a title", nil)
		}

		switch {
		case page.Sections == nil:
			c.fail(CodeMissingSections, path.Key("sections"), "page has no sections field", nil)
		case len(page.Sections) == 0:
			c.fail(CodeEmptySections, path.Key("sections"), "page must contain at least one section", nil)
		}

		checkSections(&c, page.Sections, path.Key("sections"))
	}

	seenAssets := make(map[string]int)
	for ai, a := range m.Assets {
		path := Path{"assets"}.Index(ai)

		if key := strings.TrimSpace(a.Key); key == "" {
			c.fail(CodeMissingAssetKey, path.Key("key"), "asset is missing a key", nil)
		} else if first, dup := seenAssets[key]; dup {
			c.fail(CodeDuplicateAssetKey, path.Key("key"),
				fmt.Sprintf("duplicate asset key %q", key),
				map[string]any{"assetKey": key, "firstIndex": first})
		} else {
			seenAssets[key] = ai
		}

		if a.Type == "" {
			c.fail(CodeMissingAssetType, path.Key("type"), "asset is missing a type", nil)
		} else if _, ok := definition.ParseAssetType(string(a.Type)); !ok {
			c.fail(CodeUnknownAssetType, path.Key("type"),
				fmt.Sprintf("unknown asset type %q", a.Type),
				map[string]any{"actual": string(a.Type), "expected": assetTypeList()})
		}

		if strings.TrimSpace(a.URL) == "" {
			c.fail(CodeMissingAssetURL, path.Key("url"), "asset is missing a url", nil)
		}
	}

	return c.errs, c.warnings
}

func checkSections(c *collector, sections []definition.Section, path Path) {
	seenKeys := make(map[string]int)
	seenOrder := make(map[int]int)

	for si, s := range sections {
		sp := path.Index(si)

		if key := strings.TrimSpace(s.Key); key == "" {
			c.fail(CodeMissingSectionKey, sp.Key("key"), "section is missing a key", nil)
		} else if first, dup := seenKeys[key]; dup {
			c.fail(CodeDuplicateSectionKey, sp.Key("key"),
				fmt.Sprintf("duplicate section key %q", key),
				map[string]any{"sectionKey": key, "firstIndex": first})
		} else {
			seenKeys[key] = si
		}

		if s.Type == "" {
			c.fail(CodeMissingSectionType, sp.Key("type"), "section is missing a type", nil)
		} else if _, ok := definition.ParseSectionType(string(s.Type)); !ok {
			c.fail(CodeUnknownSectionType, sp.Key("type"),
				fmt.Sprintf("unknown section type %q", s.Type),
				map[string]any{"actual": string(s.Type), "expected": sectionTypeList()})
		}

		if s.OrderIndex != nil {
			if first, dup := seenOrder[*s.OrderIndex]; dup {
				c.warn(CodeWarnDuplicateOrderIndex, sp.Key("orderIndex"),
					fmt.Sprintf("orderIndex %d is shared with section %d", *s.OrderIndex, first),
					map[string]any{"orderIndex": *s.OrderIndex, "firstIndex": first})
			} else {
				seenOrder[*s.OrderIndex] = si
			}
		}
	}
}
