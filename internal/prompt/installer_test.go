package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/domain"
	"github.com/user/kgharvest/internal/schema"
)

type countingRegistry struct {
	*MemoryRegistry
	sets int
}

func (c *countingRegistry) SetPrompt(ctx context.Context, name, text string) error {
	c.sets++
	return c.MemoryRegistry.SetPrompt(ctx, name, text)
}

type failingRegistry struct{ *MemoryRegistry }

func (f *failingRegistry) SetPrompt(context.Context, string, string) error {
	return errors.New("registry unavailable")
}

func testSchema() schema.Schema {
	return schema.Schema{
		Entities:  []schema.EntityType{schema.Entity("LOCATION", "CITY", "COUNTRY"), schema.Entity("PERSON")},
		Relations: []schema.RelationType{schema.Relation("FOUNDED"), schema.Relation("RAISED")},
	}
}

func decode(t *testing.T, stored string) string {
	t.Helper()
	var text string
	require.NoError(t, json.Unmarshal([]byte(stored), &text))
	return text
}

func TestInstaller_Install(t *testing.T) {
	reg := &countingRegistry{MemoryRegistry: NewMemoryRegistry(map[string]string{
		"tmpl": "Types:\n{entity_types}\nRelations:\n{relations}\nAgain: {relations}",
	})}
	in := NewInstaller(reg, "tmpl", "ner_kg_extraction", zap.NewNop())

	require.NoError(t, in.Install(context.Background(), testSchema()))
	assert.True(t, in.Installed())
	assert.Equal(t, 1, reg.sets)

	stored, err := reg.GetTemplate(context.Background(), "ner_kg_extraction")
	require.NoError(t, err)
	assert.Equal(t,
		"Types:\nLOCATION: [CITY, COUNTRY]\nPERSON: []\nRelations:\nFOUNDED\nRAISED\nAgain: FOUNDED\nRAISED",
		decode(t, stored))

	// the template itself is left untouched
	tmpl, err := reg.GetTemplate(context.Background(), "tmpl")
	require.NoError(t, err)
	assert.Contains(t, tmpl, EntityTypesPlaceholder)
}

func TestInstaller_InstallOnlyOnce(t *testing.T) {
	reg := NewMemoryRegistry(map[string]string{DefaultTemplateName: DefaultTemplate})
	in := NewInstaller(reg, DefaultTemplateName, "ner_kg_extraction", zap.NewNop())

	require.NoError(t, in.Install(context.Background(), schema.Default()))
	assert.ErrorIs(t, in.Install(context.Background(), schema.Default()), ErrAlreadyInstalled)
}

func TestInstaller_TemplateNotFound(t *testing.T) {
	reg := NewMemoryRegistry(nil)
	in := NewInstaller(reg, "missing", "ner_kg_extraction", zap.NewNop())

	err := in.Install(context.Background(), testSchema())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPromptNotFound))
	assert.False(t, in.Installed())

	_, err = reg.GetTemplate(context.Background(), "ner_kg_extraction")
	assert.True(t, errors.Is(err, domain.ErrPromptNotFound), "nothing may be registered on failure")
}

func TestInstaller_RegistryWriteFails(t *testing.T) {
	reg := &failingRegistry{MemoryRegistry: NewMemoryRegistry(map[string]string{"tmpl": "{entity_types}"})}
	in := NewInstaller(reg, "tmpl", "out", zap.NewNop())

	err := in.Install(context.Background(), testSchema())
	assert.ErrorContains(t, err, "registry unavailable")
	assert.False(t, in.Installed())
}

func TestRender_DoesNotEscapeHTML(t *testing.T) {
	out, err := Render("<{relations}> & more", schema.Schema{Relations: []schema.RelationType{schema.Relation("USES")}})
	require.NoError(t, err)
	assert.Equal(t, `"<USES> & more"`, out)
}

func TestDefaultTemplate_HasPlaceholders(t *testing.T) {
	assert.Contains(t, DefaultTemplate, EntityTypesPlaceholder)
	assert.Contains(t, DefaultTemplate, RelationsPlaceholder)
}
