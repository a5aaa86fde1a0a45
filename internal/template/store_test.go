package template

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
)

func writeTemplateFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestStoreFindCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeTemplateFile(t, dir, "CC_Individual.docx", "cc template")

	store := NewStore(dir, time.Minute)
	data, name, err := store.Find("cc", "individual")
	require.NoError(t, err)
	assert.Equal(t, "CC_Individual.docx", name)
	assert.Equal(t, "cc template", string(data))

	// 学院代码的大小写同样不敏感
	_, name, err = store.Find("Cc", "individual")
	require.NoError(t, err)
	assert.Equal(t, "CC_Individual.docx", name)
}

func TestStoreFindDefaultFallback(t *testing.T) {
	dir := t.TempDir()
	writeTemplateFile(t, dir, "default_individual.docx", "default template")

	store := NewStore(dir, time.Minute)
	data, name, err := store.Find("UNKNOWN", "individual")
	require.NoError(t, err)
	assert.Equal(t, "default_individual.docx", name)
	assert.Equal(t, "default template", string(data))
}

func TestStoreFindNormalizesType(t *testing.T) {
	dir := t.TempDir()
	writeTemplateFile(t, dir, "cc_individual.docx", "individual")
	writeTemplateFile(t, dir, "cc_group.docx", "group")

	store := NewStore(dir, time.Minute)

	_, name, err := store.Find("cc", "group")
	require.NoError(t, err)
	assert.Equal(t, "cc_group.docx", name)

	// 未知类型落到individual
	_, name, err = store.Find("cc", "weird")
	require.NoError(t, err)
	assert.Equal(t, "cc_individual.docx", name)
}

func TestStoreSkipsLockFiles(t *testing.T) {
	dir := t.TempDir()
	writeTemplateFile(t, dir, "~$cc_individual.docx", "word lock file")
	writeTemplateFile(t, dir, "default_individual.docx", "default template")

	store := NewStore(dir, time.Minute)
	_, name, err := store.Find("~$cc", "individual")
	require.NoError(t, err)
	assert.Equal(t, "default_individual.docx", name)
}

func TestStoreFindNotFound(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute)
	_, _, err := store.Find("cc", "individual")
	require.Error(t, err)

	var notFound *models.TemplateNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, "cc", notFound.CollegeCode)
}

func TestStoreFindMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"), time.Minute)
	_, _, err := store.Find("cc", "individual")
	assert.Error(t, err)
}

func TestStoreCachesTemplateBytes(t *testing.T) {
	dir := t.TempDir()
	writeTemplateFile(t, dir, "cc_individual.docx", "first version")

	store := NewStore(dir, time.Minute)
	data, _, err := store.Find("cc", "individual")
	require.NoError(t, err)
	assert.Equal(t, "first version", string(data))

	// 磁盘内容变化，TTL内仍命中缓存
	writeTemplateFile(t, dir, "cc_individual.docx", "second version")
	data, _, err = store.Find("cc", "individual")
	require.NoError(t, err)
	assert.Equal(t, "first version", string(data))
}
