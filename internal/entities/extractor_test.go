package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

func abstractPtr(s string) *string { return &s }

func TestExtractMentionsFindsKnownEntities(t *testing.T) {
	paper := models.Paper{
		Title:    "Image Classification on ImageNet with ResNet",
		Abstract: abstractPtr("We evaluate accuracy and F1 Score on the CIFAR-10 benchmark."),
	}

	mentions := ExtractMentions(paper)

	byName := make(map[string]models.EntityRole)
	for _, m := range mentions {
		byName[m.Name] = m.Role
	}

	assert.Equal(t, models.RoleEvaluates, byName["Image Classification"])
	assert.Equal(t, models.RoleUses, byName["ImageNet"])
	assert.Equal(t, models.RoleApplies, byName["ResNet"])
	assert.Equal(t, models.RoleUses, byName["CIFAR-10"])
	assert.Equal(t, models.RoleEvaluates, byName["Accuracy"])
	assert.Equal(t, models.RoleEvaluates, byName["F1 Score"])
}

func TestExtractMentionsDedupesWithinOnePaper(t *testing.T) {
	paper := models.Paper{
		Title:    "ResNet meets ResNet: a study of ResNet variants",
		Abstract: abstractPtr("resnet is widely used."),
	}
	mentions := ExtractMentions(paper)

	count := 0
	for _, m := range mentions {
		if m.Name == "ResNet" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractMentionsEmptyForBlankText(t *testing.T) {
	assert.Empty(t, ExtractMentions(models.Paper{}))
}

func TestExtractMentionsNoFalsePositiveOnSubstring(t *testing.T) {
	paper := models.Paper{Title: "A survey of Transformerish architectures"}
	mentions := ExtractMentions(paper)
	for _, m := range mentions {
		assert.NotEqual(t, "Transformer", m.Name)
	}
}

func TestBatchExtractMergesAcrossPapers(t *testing.T) {
	papers := []models.Paper{
		{ID: 1, Title: "ResNet for Image Classification"},
		{ID: 2, Title: "Another use of ResNet for Object Detection"},
	}

	entityList, links := BatchExtract(papers)
	require.NotEmpty(t, entityList)

	resnetCount := 0
	for _, e := range entityList {
		if e.Name == "ResNet" {
			resnetCount++
		}
	}
	assert.Equal(t, 1, resnetCount, "ResNet should be merged into a single entity row across papers")

	// Every link must reference a valid index into entityList.
	for _, l := range links {
		assert.True(t, l.EntityIndex >= 0 && l.EntityIndex < len(entityList))
	}

	paper1Links := 0
	paper2Links := 0
	for _, l := range links {
		if l.PaperID == 1 {
			paper1Links++
		}
		if l.PaperID == 2 {
			paper2Links++
		}
	}
	assert.Greater(t, paper1Links, 0)
	assert.Greater(t, paper2Links, 0)
}
