package releasegroups

import (
	"log/slog"
	"sync"

	"github.com/longbridgeapp/opencc"
)

// chineseConverter lazily wraps an opencc Simplified-to-Traditional
// (Taiwan, with phrases) converter, used for release-group name
// normalization.
type chineseConverter struct {
	converter *opencc.OpenCC
	logger    *slog.Logger
	mu        sync.RWMutex
	initErr   error
	initOnce  sync.Once
}

func newChineseConverter(logger *slog.Logger) *chineseConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &chineseConverter{logger: logger}
}

func (c *chineseConverter) init() error {
	c.initOnce.Do(func() {
		conv, err := opencc.New("s2twp")
		if err != nil {
			c.logger.Error("failed to initialize opencc converter", "profile", "s2twp", "error", err)
			c.initErr = err
			return
		}
		c.converter = conv
	})
	return c.initErr
}

// toTraditional converts simplified Chinese text to Traditional (Taiwan).
// On any initialization or conversion failure it returns the input
// unchanged rather than failing the harvest.
func (c *chineseConverter) toTraditional(simplified string) string {
	if simplified == "" {
		return ""
	}
	if err := c.init(); err != nil {
		return simplified
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.converter == nil {
		return simplified
	}
	traditional, err := c.converter.Convert(simplified)
	if err != nil {
		c.logger.Warn("failed to convert release group name to Traditional Chinese", "error", err)
		return simplified
	}
	return traditional
}

// isTraditional is a cheap heuristic: text containing any of a set of
// common Traditional-only characters is assumed already Traditional.
func isTraditional(text string) bool {
	if text == "" {
		return false
	}
	traditionalOnly := map[rune]bool{
		'國': true, '學': true, '體': true, '機': true, '關': true,
		'發': true, '電': true, '頭': true, '時': true, '東': true,
		'車': true, '書': true, '長': true, '門': true, '開': true,
	}
	for _, r := range text {
		if traditionalOnly[r] {
			return true
		}
	}
	return false
}

// convertIfSimplified converts text to Traditional only when it does not
// already look Traditional.
func (c *chineseConverter) convertIfSimplified(text string) string {
	if isTraditional(text) {
		return text
	}
	return c.toTraditional(text)
}
