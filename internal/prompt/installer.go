package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/schema"
)

const (
	EntityTypesPlaceholder = "{entity_types}"
	RelationsPlaceholder   = "{relations}"
)

var ErrAlreadyInstalled = errors.New("extraction prompt already installed")

// Registry is the store of named prompts read by the extraction stage.
type Registry interface {
	// GetTemplate returns the prompt registered under name or a *domain.PromptNotFoundError.
	GetTemplate(ctx context.Context, name string) (string, error)
	SetPrompt(ctx context.Context, name, text string) error
}

// Installer renders the extraction schema into a template prompt and registers
// the result under the prompt name the extractor reads.
type Installer struct {
	registry     Registry
	templateName string
	promptName   string
	logger       *zap.Logger

	mu        sync.Mutex
	installed bool
}

func NewInstaller(r Registry, templateName, promptName string, logger *zap.Logger) *Installer {
	return &Installer{
		registry:     r,
		templateName: templateName,
		promptName:   promptName,
		logger:       logger,
	}
}

// Install substitutes both placeholders and stores the prompt with a single write.
// It may succeed only once per Installer.
func (in *Installer) Install(ctx context.Context, s schema.Schema) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.installed {
		return ErrAlreadyInstalled
	}

	tmpl, err := in.registry.GetTemplate(ctx, in.templateName)
	if err != nil {
		return fmt.Errorf("load template %q: %w", in.templateName, err)
	}
	for _, ph := range []string{EntityTypesPlaceholder, RelationsPlaceholder} {
		if !strings.Contains(tmpl, ph) {
			in.logger.Warn("template is missing placeholder",
				zap.String("template", in.templateName), zap.String("placeholder", ph))
		}
	}

	text, err := Render(tmpl, s)
	if err != nil {
		return err
	}
	if err := in.registry.SetPrompt(ctx, in.promptName, text); err != nil {
		return fmt.Errorf("register prompt %q: %w", in.promptName, err)
	}

	in.installed = true
	in.logger.Info("extraction prompt installed",
		zap.String("prompt", in.promptName),
		zap.Int("entity_types", len(s.Entities)),
		zap.Int("relations", len(s.Relations)))
	return nil
}

// Installed reports whether Install has completed.
func (in *Installer) Installed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.installed
}

// Render fills tmpl with the schema listings and encodes the result as a JSON string,
// the form the extraction stage reads back.
func Render(tmpl string, s schema.Schema) (string, error) {
	filled := strings.ReplaceAll(tmpl, EntityTypesPlaceholder, schema.FormatEntityTypes(s.Entities))
	filled = strings.ReplaceAll(filled, RelationsPlaceholder, schema.FormatRelations(s.Relations))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(filled); err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
