package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeReplacesTitleAndCoalescesNullableFields(t *testing.T) {
	existingAbstract := "existing abstract"
	existingYear := 2019
	p := Paper{Title: "Old Title", Abstract: &existingAbstract, Year: &existingYear, CitationCount: 10}

	freshAbstract := "fresh abstract"
	fresh := &Paper{Title: "New Title", Abstract: &freshAbstract, CitationCount: 4}

	p.Merge(fresh)

	assert.Equal(t, "New Title", p.Title)
	assert.Equal(t, "fresh abstract", *p.Abstract)
	require := assert.New(t)
	require.NotNil(p.Year)
	require.Equal(2019, *p.Year, "nil incoming year must not clobber the existing one")
	require.Equal(10, p.CitationCount, "citation count takes the max, not the latest")
}

func TestMergeTakesHigherCitationCountFromFresh(t *testing.T) {
	p := Paper{Title: "T", CitationCount: 2}
	p.Merge(&Paper{Title: "T", CitationCount: 9})
	assert.Equal(t, 9, p.CitationCount)
}

func TestYearOrCurrentFallsBackWhenYearIsNil(t *testing.T) {
	p := Paper{Title: "T"}
	assert.Equal(t, 2026, p.YearOrCurrent(2026))

	year := 2010
	p.Year = &year
	assert.Equal(t, 2010, p.YearOrCurrent(2026))
}

func TestNaturalKeyReturnsSourceAndSourceID(t *testing.T) {
	p := Paper{Source: "openalex", SourceID: "W1"}
	source, sourceID := p.NaturalKey()
	assert.Equal(t, "openalex", source)
	assert.Equal(t, "W1", sourceID)
}
