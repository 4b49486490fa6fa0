package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_ChapterSameLineTitle(t *testing.T) {
	bounds := Scan("Chapter 1 Asthma\n1.1 Epidemiology\nAsthma affects children.")

	require.Len(t, bounds, 2)
	assert.Equal(t, BoundaryChapter, bounds[0].Kind)
	assert.Equal(t, "1", bounds[0].Number)
	assert.Equal(t, "Asthma", bounds[0].Title)

	assert.Equal(t, BoundarySection, bounds[1].Kind)
	assert.Equal(t, "1.1", bounds[1].Number)
	assert.Equal(t, "Epidemiology", bounds[1].Title)
}

func TestScan_ChapterTitleOnNextLine(t *testing.T) {
	bounds := Scan("Chapter 45\nHeart Failure\n\nSome prose about the heart.")

	require.Len(t, bounds, 1)
	assert.Equal(t, BoundaryChapter, bounds[0].Kind)
	assert.Equal(t, "45", bounds[0].Number)
	assert.Equal(t, "Heart Failure", bounds[0].Title)
}

func TestScan_FractionalChapterNumber(t *testing.T) {
	bounds := Scan("Chapter 4.2 Acquired Heart Disease\ntext")

	require.Len(t, bounds, 1)
	assert.Equal(t, "4.2", bounds[0].Number)
	assert.Equal(t, "Acquired Heart Disease", bounds[0].Title)
}

func TestScan_SectionWithTrailingDot(t *testing.T) {
	bounds := Scan("12.3. Diagnosis and Management\nprose")

	require.Len(t, bounds, 1)
	assert.Equal(t, BoundarySection, bounds[0].Kind)
	assert.Equal(t, "12.3", bounds[0].Number)
	assert.Equal(t, "Diagnosis and Management", bounds[0].Title)
}

func TestScan_SubsectionOnlyInsideSectionSpan(t *testing.T) {
	content := "Chapter 1 Asthma\n" +
		"1.1 Epidemiology\n" +
		"1.1.1 Incidence\n" +
		"prose about incidence\n" +
		"1.2 Treatment\n" +
		"more prose\n"

	bounds := Scan(content)

	require.Len(t, bounds, 4)
	assert.Equal(t, BoundaryChapter, bounds[0].Kind)
	assert.Equal(t, BoundarySection, bounds[1].Kind)
	assert.Equal(t, BoundarySubsection, bounds[2].Kind)
	assert.Equal(t, "1.1.1", bounds[2].Number)
	assert.Equal(t, "Incidence", bounds[2].Title)
	assert.Equal(t, BoundarySection, bounds[3].Kind)
	assert.Equal(t, "1.2", bounds[3].Number)
}

func TestScan_SubsectionMustExtendSectionNumber(t *testing.T) {
	content := "2.1 Overview\n" +
		"3.4.1 Stray numbering from a table\n"

	bounds := Scan(content)

	require.Len(t, bounds, 1)
	assert.Equal(t, BoundarySection, bounds[0].Kind)
}

func TestScan_OrderedByPosition(t *testing.T) {
	content := "Chapter 2 Pneumonia\n2.1 Causes\ntext\nChapter 3 Croup\n3.1 Signs\n"

	bounds := Scan(content)

	require.Len(t, bounds, 4)
	for i := 1; i < len(bounds); i++ {
		assert.Greater(t, bounds[i].Pos, bounds[i-1].Pos)
	}
}

func TestScan_Empty(t *testing.T) {
	assert.Empty(t, Scan(""))
	assert.Empty(t, Scan("plain prose with no headers at all"))
}
