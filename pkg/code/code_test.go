package code

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetailsDoesNotMutateShared(t *testing.T) {
	base := ErrorDocumentNotFound
	detailed := base.WithDetails("extra context")

	assert.False(t, base.HaveDetails(), "shared code object must stay untouched")
	assert.True(t, detailed.HaveDetails())
	assert.Equal(t, base.Code(), detailed.Code())
}

func TestWithDataDoesNotMutateShared(t *testing.T) {
	enriched := Success.WithData(map[string]int{"uid": 1})

	assert.False(t, Success.HaveData())
	assert.True(t, enriched.HaveData())
}

func TestErrorsIsMatchesClones(t *testing.T) {
	err := ErrorDocumentNotFound.WithDetails("doc-123")

	assert.True(t, errors.Is(err, ErrorDocumentNotFound))
	assert.False(t, errors.Is(err, ErrorDocumentMoveCycle))
}

func TestLangFallback(t *testing.T) {
	SetGlobalDefaultLang("en")
	assert.Equal(t, "Document not found", ErrorDocumentNotFound.Msg())

	SetGlobalDefaultLang("zh_cn")
	assert.Equal(t, "文档不存在", ErrorDocumentNotFound.Msg())

	// unknown languages fall back to english
	SetGlobalDefaultLang("fr")
	assert.Equal(t, "Document not found", ErrorDocumentNotFound.Msg())

	SetGlobalDefaultLang("en")
}
